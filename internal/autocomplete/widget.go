// Package autocomplete drives the address search box: it debounces typed text
// into place lookups, keeps only the freshest results, tracks the selected
// address and hands it off on submission.
package autocomplete

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/debounce"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/places"
)

// DefaultDebounce is how long typing must pause before a lookup is sent.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrNoSelection = errors.New("no address selected")
	ErrDisabled    = errors.New("address search is disabled")
)

// Phase is where the widget is in its lookup cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQuerying
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseQuerying:
		return "querying"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// State is a snapshot of the widget.
type State struct {
	Input       string
	Phase       Phase
	Predictions []models.PlaceCandidate
	Selection   *models.PlaceCandidate
	Open        bool
	Disabled    bool
}

// Loading reports whether a lookup is outstanding.
func (s State) Loading() bool {
	return s.Phase == PhaseQuerying
}

// CanSubmit reports whether the submit action should be offered.
func (s State) CanSubmit() bool {
	return s.Selection != nil && !s.Disabled
}

// SubmitFunc receives the selected place identifier. A nil error ends the
// search episode.
type SubmitFunc func(ctx context.Context, placeID string) error

type Option func(*Widget)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Widget) { w.wait = d }
}

// WithClock schedules lookups on c instead of the wall clock.
func WithClock(c debounce.Clock) Option {
	return func(w *Widget) { w.clock = c }
}

// WithOnUpdate registers a callback invoked after every state change.
func WithOnUpdate(f func(State)) Option {
	return func(w *Widget) { w.onUpdate = f }
}

func WithLogger(l zerolog.Logger) Option {
	return func(w *Widget) { w.log = l }
}

// Widget is safe for concurrent use. Lookup results arrive on their own
// goroutines and are applied only if they answer the latest query.
type Widget struct {
	provider places.Provider
	sessions *places.Sessions
	submit   SubmitFunc
	wait     time.Duration
	clock    debounce.Clock
	onUpdate func(State)
	log      zerolog.Logger
	lookup   *debounce.Debouncer[string, []models.PlaceCandidate]

	mu          sync.Mutex
	input       string
	query       string
	phase       Phase
	predictions []models.PlaceCandidate
	selection   *models.PlaceCandidate
	open        bool
	disabled    bool
	submitting  bool
}

// New creates a widget with an empty query state.
func New(provider places.Provider, sessions *places.Sessions, submit SubmitFunc, opts ...Option) *Widget {
	w := &Widget{
		provider:    provider,
		sessions:    sessions,
		submit:      submit,
		wait:        DefaultDebounce,
		log:         zerolog.Nop(),
		predictions: []models.PlaceCandidate{},
	}
	for _, opt := range opts {
		opt(w)
	}

	var dopts []debounce.Option
	if w.clock != nil {
		dopts = append(dopts, debounce.WithClock(w.clock))
	}
	w.lookup = debounce.New(w.predict, w.wait, dopts...)
	return w
}

// predict reads the session token at dispatch time so a renewal between
// typing and dispatch is honoured.
func (w *Widget) predict(ctx context.Context, text string) ([]models.PlaceCandidate, error) {
	return w.provider.Predict(ctx, text, w.sessions.Current())
}

// State returns a snapshot of the widget.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Widget) snapshot() State {
	s := State{
		Input:       w.input,
		Phase:       w.phase,
		Predictions: append([]models.PlaceCandidate{}, w.predictions...),
		Open:        w.open,
		Disabled:    w.disabled || w.submitting,
	}
	if w.selection != nil {
		sel := *w.selection
		s.Selection = &sel
	}
	return s
}

func (w *Widget) notify(s State) {
	if w.onUpdate != nil {
		w.onUpdate(s)
	}
}

// Open shows the suggestion panel and looks up the current text if it has not
// been looked up yet. It does nothing while the widget is disabled.
func (w *Widget) Open(ctx context.Context) {
	w.mu.Lock()
	if w.blocked() {
		return
	}
	w.open = true
	w.evaluate(ctx)
}

// Close hides the suggestion panel. Closed panels never dispatch lookups.
func (w *Widget) Close() {
	w.mu.Lock()
	w.open = false
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)
}

// SetInput records typed text. Editing away from the selected description
// clears the selection; emptying the box keeps it as the only prediction.
// Input is ignored while the widget is disabled.
func (w *Widget) SetInput(ctx context.Context, text string) {
	w.mu.Lock()
	if w.blocked() {
		return
	}
	w.input = text
	if w.selection != nil && text != "" && text != w.selection.Description {
		w.selection = nil
	}
	w.evaluate(ctx)
}

// blocked reports whether input is locked out by SetDisabled or an outstanding
// submission. It is called with w.mu held; when it returns true the lock has
// been released and the unchanged state re-published.
func (w *Widget) blocked() bool {
	if !w.disabled && !w.submitting {
		return false
	}
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)
	return true
}

// evaluate decides whether the current input needs a lookup. It is called
// with w.mu held and releases it.
func (w *Widget) evaluate(ctx context.Context) {
	text := w.input

	if text == "" {
		w.query = ""
		w.phase = PhaseSettled
		if w.selection != nil {
			w.predictions = []models.PlaceCandidate{*w.selection}
		} else {
			w.predictions = []models.PlaceCandidate{}
		}
		w.lookup.Stop()
		s := w.snapshot()
		w.mu.Unlock()
		w.notify(s)
		return
	}

	skip := !w.open || text == w.query || (w.selection != nil && text == w.selection.Description)
	if skip {
		s := w.snapshot()
		w.mu.Unlock()
		w.notify(s)
		return
	}

	w.query = text
	w.phase = PhaseQuerying
	s := w.snapshot()
	call := w.lookup.Do(ctx, text)
	w.mu.Unlock()

	w.notify(s)
	go w.await(text, call)
}

func (w *Widget) await(text string, call *debounce.Call[[]models.PlaceCandidate]) {
	<-call.Done()
	predictions, err := call.Wait(context.Background())

	w.mu.Lock()
	if text != w.query {
		w.mu.Unlock()
		w.log.Debug().Str("query", text).Msg("Discarding stale predictions")
		return
	}
	if err != nil {
		w.log.Warn().Err(err).Str("query", text).Msg("Address lookup failed")
		predictions = nil
	}
	if predictions == nil {
		predictions = []models.PlaceCandidate{}
	}
	w.phase = PhaseSettled
	w.predictions = predictions
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)
}

// Select records a prediction as the selection and collapses the list to it.
func (w *Widget) Select(c models.PlaceCandidate) {
	w.mu.Lock()
	sel := c
	w.selection = &sel
	w.input = c.Description
	w.query = c.Description
	w.phase = PhaseSettled
	w.predictions = []models.PlaceCandidate{c}
	w.open = false
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)
}

// SetDisabled blocks or unblocks input and submission.
func (w *Widget) SetDisabled(disabled bool) {
	w.mu.Lock()
	w.disabled = disabled
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)
}

// CanSubmit reports whether Submit would hand off a selection.
func (w *Widget) CanSubmit() bool {
	return w.State().CanSubmit()
}

// Submit hands the selected place identifier to the submit handler. The widget
// is disabled until the handler returns. The session token is renewed only
// when the handler succeeds, so a retry after a failure stays in the same
// session.
func (w *Widget) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.disabled || w.submitting {
		w.mu.Unlock()
		return ErrDisabled
	}
	if w.selection == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	placeID := w.selection.PlaceID
	w.submitting = true
	s := w.snapshot()
	w.mu.Unlock()
	w.notify(s)

	err := w.submit(ctx, placeID)
	if err == nil {
		w.sessions.Renew()
	}

	w.mu.Lock()
	w.submitting = false
	s = w.snapshot()
	w.mu.Unlock()
	w.notify(s)

	return err
}

// Stop cancels any scheduled lookup. Call it when the widget goes away.
func (w *Widget) Stop() {
	w.lookup.Stop()
}
