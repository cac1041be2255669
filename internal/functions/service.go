package functions

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/errx"
	"wedding-rsvp/internal/models"
)

// Store is the document store holding RSVP records.
type Store interface {
	GetRSVPs(ctx context.Context, id string) ([]models.RSVP, error)
	UpsertRSVP(ctx context.Context, p models.PartialRSVP) (*models.RSVP, error)
}

// Cache holds fetchRsvps results. Failures are logged and otherwise ignored.
type Cache interface {
	Get(ctx context.Context, id string) ([]models.RSVP, bool, error)
	Set(ctx context.Context, id string, rsvps []models.RSVP) error
	Invalidate(ctx context.Context, id string) error
}

// Notifier is told about every upsert that sets a status.
type Notifier interface {
	NotifyRSVP(ctx context.Context, rsvp models.RSVP) error
}

// Service implements the RSVP backend functions.
type Service struct {
	store    Store
	cache    Cache
	notifier Notifier
	log      zerolog.Logger
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a new RSVP service
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchRSVPs returns every record for the place identifier. An unknown
// identifier is not an error: the result is simply empty.
func (s *Service) FetchRSVPs(ctx context.Context, id string) ([]models.RSVP, error) {
	if id == "" {
		return nil, errx.InvalidArgumentf("an rsvp id is required")
	}

	if s.cache != nil {
		rsvps, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("cache read failed")
		} else if ok {
			return rsvps, nil
		}
	}

	rsvps, err := s.store.GetRSVPs(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to fetch rsvps")
		return nil, errx.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, rsvps); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("cache write failed")
		}
	}
	return rsvps, nil
}

// UpsertRSVP merges the partial record into the store, creating it if absent.
func (s *Service) UpsertRSVP(ctx context.Context, p models.PartialRSVP) error {
	if err := p.Validate(); err != nil {
		return errx.New(errx.InvalidArgument, err.Error(), err)
	}

	rsvp, err := s.store.UpsertRSVP(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("id", p.ID).Msg("failed to upsert rsvp")
		return errx.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, p.ID); err != nil {
			s.log.Warn().Err(err).Str("id", p.ID).Msg("cache invalidation failed")
		}
	}

	s.log.Info().Str("id", rsvp.ID).Int("household", rsvp.Household).Str("status", string(rsvp.Status)).Msg("rsvp updated")

	if p.Status != nil && s.notifier != nil {
		if err := s.notifier.NotifyRSVP(ctx, *rsvp); err != nil {
			s.log.Error().Err(err).Str("id", rsvp.ID).Msg("failed to notify hosts")
		}
	}
	return nil
}
