package rsvpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wedding-rsvp/internal/errx"
	"wedding-rsvp/internal/models"
)

// AppCheckHeader carries the app-integrity attestation.
const AppCheckHeader = "X-Firebase-AppCheck"

// Client calls the RSVP backend functions.
type Client struct {
	baseURL  string
	appCheck string
	http     *http.Client
}

type Option func(*Client)

// WithAppCheckToken attaches an attestation token to every call.
func WithAppCheckToken(token string) Option {
	return func(c *Client) { c.appCheck = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRSVPs resolves a place identifier to zero or more RSVP records.
func (c *Client) FetchRSVPs(ctx context.Context, placeID string) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	if err := c.call(ctx, "fetchRsvps", placeID, &rsvps); err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []models.RSVP{}
	}
	return rsvps, nil
}

// UpsertRSVP merges the partial record into the stored one.
func (c *Client) UpsertRSVP(ctx context.Context, p models.PartialRSVP) error {
	return c.call(ctx, "upsertRsvp", p, nil)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, function string, data, result any) error {
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", function, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+function, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", function, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.appCheck != "" {
		req.Header.Set(AppCheckHeader, c.appCheck)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", function, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", function, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errx.New(errx.Internal, errx.InternalMessage,
			fmt.Errorf("%s returned %d with an unreadable body: %w", function, resp.StatusCode, err))
	}
	if env.Error != nil {
		return errx.New(errx.ParseWireStatus(env.Error.Status), env.Error.Message, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return errx.New(errx.Internal, errx.InternalMessage, fmt.Errorf("%s returned %d", function, resp.StatusCode))
	}

	if result == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", function, err)
	}
	return nil
}
