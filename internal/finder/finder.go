// Package finder resolves a selected address to RSVP records and decides
// where the user goes next.
package finder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/models"
)

// MaxErrorCount is how many failed lookups are tolerated before guests are
// told to contact the couple directly.
const MaxErrorCount = 2

const (
	NotFoundMessage     = "RSVP not found"
	UnknownErrorMessage = "An unknown error occurred. Please try again"
)

var (
	ErrNotFound = errors.New("no rsvp for address")
	ErrBusy     = errors.New("lookup already in progress")
)

// Resolver fetches the RSVP records for a place identifier.
type Resolver interface {
	FetchRSVPs(ctx context.Context, placeID string) ([]models.RSVP, error)
}

// Status is the state of the lookup view.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusErroredRetryable
	StatusErroredEscalated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusErroredRetryable:
		return "errored"
	case StatusErroredEscalated:
		return "escalated"
	default:
		return "ready"
	}
}

// State is a snapshot of the lookup view.
type State struct {
	Status     Status
	Message    string
	ErrorCount int
}

// Disabled reports whether input and submission should be blocked.
func (s State) Disabled() bool {
	return s.Status == StatusLoading
}

// Contact is someone guests can text when lookups keep failing.
type Contact struct {
	Name  string
	Phone string
}

type Contacts struct {
	Groom Contact
	Bride Contact
}

func NewContacts(cfg config.ContactsConfig) Contacts {
	return Contacts{
		Groom: Contact{Name: cfg.GroomName, Phone: cfg.GroomPhoneNumber},
		Bride: Contact{Name: cfg.BrideName, Phone: cfg.BridePhoneNumber},
	}
}

// EscalationMessage asks the guest to contact the couple.
func (c Contacts) EscalationMessage() string {
	return fmt.Sprintf("Looks like something is going wrong. Please text %s at %s or %s at %s to sort it out!",
		c.Groom.Name, c.Groom.Phone, c.Bride.Name, c.Bride.Phone)
}

type Option func(*Finder)

// WithOnChange registers a callback invoked after every state change.
func WithOnChange(f func(State)) Option {
	return func(fd *Finder) { fd.onChange = f }
}

func WithLogger(l zerolog.Logger) Option {
	return func(fd *Finder) { fd.log = l }
}

// Finder turns a submitted address into navigation. The error count lives as
// long as the Finder and is never reset.
type Finder struct {
	resolver Resolver
	nav      Navigator
	contacts Contacts
	onChange func(State)
	log      zerolog.Logger

	mu    sync.Mutex
	state State
}

func New(resolver Resolver, nav Navigator, contacts Contacts, opts ...Option) *Finder {
	f := &Finder{
		resolver: resolver,
		nav:      nav,
		contacts: contacts,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the lookup view.
func (f *Finder) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Finder) set(update func(*State)) {
	f.mu.Lock()
	update(&f.state)
	s := f.state
	f.mu.Unlock()
	f.emit(s)
}

func (f *Finder) emit(s State) {
	if f.onChange != nil {
		f.onChange(s)
	}
}

// fail records a failed lookup. Called with the state lock held.
func (f *Finder) fail(s *State, message string) {
	s.ErrorCount++
	s.Status = StatusErroredRetryable
	s.Message = message
	if s.ErrorCount > MaxErrorCount {
		s.Status = StatusErroredEscalated
		s.Message = f.contacts.EscalationMessage()
	}
}

// Find resolves placeID. One record goes straight to the editor and several
// go to the selector. It returns an error whenever it did not navigate, so the
// caller can keep its search session for a retry.
func (f *Finder) Find(ctx context.Context, placeID string) error {
	f.mu.Lock()
	if f.state.Status == StatusLoading {
		f.mu.Unlock()
		return ErrBusy
	}
	f.state.Status = StatusLoading
	f.state.Message = ""
	loading := f.state
	f.mu.Unlock()
	f.emit(loading)

	rsvps, err := f.resolver.FetchRSVPs(ctx, placeID)
	if err != nil {
		f.log.Error().Err(err).Str("place_id", placeID).Msg("Failed to fetch RSVPs")
		f.set(func(s *State) { f.fail(s, UnknownErrorMessage) })
		return fmt.Errorf("failed to fetch rsvps: %w", err)
	}

	if len(rsvps) == 0 {
		f.log.Info().Str("place_id", placeID).Msg("No RSVP for address")
		f.set(func(s *State) { f.fail(s, NotFoundMessage) })
		return ErrNotFound
	}

	f.set(func(s *State) {
		s.Status = StatusReady
		s.Message = ""
	})

	view := ViewSelector
	if len(rsvps) == 1 {
		view = ViewEditor
	}
	f.log.Info().Str("place_id", placeID).Int("count", len(rsvps)).Stringer("view", view).Msg("RSVP found")
	f.nav.Navigate(NewRoute(view, rsvps))
	return nil
}
