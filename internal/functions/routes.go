package functions

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/errx"
	"wedding-rsvp/internal/models"
)

// Callable request and response envelopes.
type callRequest struct {
	Data json.RawMessage `json:"data"`
}

type callResponse struct {
	Result any `json:"result"`
}

type callError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error callError `json:"error"`
}

// Handler serves the backend functions over HTTP.
type Handler struct {
	service   *Service
	validator *Validator
	log       zerolog.Logger
}

func NewHandler(service *Service, validator *Validator, log zerolog.Logger) *Handler {
	return &Handler{service: service, validator: validator, log: log}
}

// NewApp builds the fiber app with every function registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})

	app.Use(recoverMiddleware.New())
	app.Use(h.logRequest)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Post("/fetchRsvps", h.validate, h.FetchRSVPs)
	app.Post("/upsertRsvp", h.validate, h.UpsertRSVP)

	return app
}

// FetchRSVPs (POST /fetchRsvps) with data = place identifier.
func (h *Handler) FetchRSVPs(c *fiber.Ctx) error {
	var id string
	if err := decodeData(c, &id); err != nil {
		return err
	}

	rsvps, err := h.service.FetchRSVPs(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(callResponse{Result: rsvps})
}

// UpsertRSVP (POST /upsertRsvp) with data = partial record.
func (h *Handler) UpsertRSVP(c *fiber.Ctx) error {
	var p models.PartialRSVP
	if err := decodeData(c, &p); err != nil {
		return err
	}

	if err := h.service.UpsertRSVP(c.UserContext(), p); err != nil {
		return err
	}
	return c.JSON(callResponse{Result: nil})
}

func (h *Handler) validate(c *fiber.Ctx) error {
	if err := h.validator.Validate(c.UserContext(), c.Get(AppCheckHeader)); err != nil {
		return err
	}
	return c.Next()
}

func (h *Handler) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := errx.Internal
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = errx.NotFound
		case fiber.StatusBadRequest:
			code = errx.InvalidArgument
		}
		return c.Status(fe.Code).JSON(errorResponse{Error: callError{Status: code.WireStatus(), Message: fe.Message}})
	}

	e := errx.Wrap(err)
	if e.Code == errx.Internal {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("function failed")
	}
	return c.Status(e.Status()).JSON(errorResponse{Error: callError{Status: e.Code.WireStatus(), Message: e.Message}})
}

func decodeData(c *fiber.Ctx, v any) error {
	var req callRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errx.New(errx.InvalidArgument, "request body must be a JSON object with a data field", err)
	}
	if len(req.Data) == 0 {
		return errx.InvalidArgumentf("request is missing data")
	}
	if err := json.Unmarshal(req.Data, v); err != nil {
		return errx.New(errx.InvalidArgument, "request data is malformed", err)
	}
	return nil
}
