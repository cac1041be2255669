// Package tui is a terminal front end for finding and answering an RSVP.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/autocomplete"
	"wedding-rsvp/internal/debounce"
	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/places"
)

// Saver writes RSVP changes.
type Saver interface {
	UpsertRSVP(ctx context.Context, p models.PartialRSVP) error
}

// Deps are the collaborators the views need.
type Deps struct {
	Provider places.Provider
	Sessions *places.Sessions
	Resolver finder.Resolver
	Saver    Saver
	Contacts finder.Contacts
	Debounce time.Duration
	Clock    debounce.Clock
	Log      zerolog.Logger
}

type (
	widgetMsg    struct{}
	lookupMsg    struct{ state finder.State }
	routeMsg     struct{ route finder.Route }
	submittedMsg struct{ err error }
	savedMsg     struct{ err error }
)

type editor struct {
	rsvp   models.RSVP
	ok     bool
	cursor int
	dirty  bool
	saving bool
	saved  bool
	err    error
}

// Model is the bubbletea model for the whole lookup flow.
type Model struct {
	ctx    context.Context
	keys   KeyMap
	theme  Theme
	widget *autocomplete.Widget
	saver  Saver
	events chan tea.Msg

	// changed holds at most one pending widget notification. The widget
	// notifies synchronously from Update, so sends never block.
	changed chan struct{}
	log     zerolog.Logger

	view   finder.View
	route  finder.Route
	search autocomplete.State
	lookup finder.State
	cursor int
	editor editor
	width  int
}

// New wires the widget and finder so their callbacks arrive as messages.
// Finder events are only raised from the submit command's goroutine. Widget
// changes are coalesced and the model re-reads the widget state.
func New(ctx context.Context, deps Deps) Model {
	events := make(chan tea.Msg, 64)
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}
	changed := make(chan struct{}, 1)

	var w *autocomplete.Widget
	fd := finder.New(deps.Resolver,
		finder.NavigatorFunc(func(r finder.Route) { send(routeMsg{route: r}) }),
		deps.Contacts,
		finder.WithOnChange(func(s finder.State) {
			w.SetDisabled(s.Disabled())
			send(lookupMsg{state: s})
		}),
		finder.WithLogger(deps.Log),
	)

	opts := []autocomplete.Option{
		autocomplete.WithOnUpdate(func(autocomplete.State) {
			select {
			case changed <- struct{}{}:
			default:
			}
		}),
		autocomplete.WithLogger(deps.Log),
	}
	if deps.Debounce > 0 {
		opts = append(opts, autocomplete.WithDebounce(deps.Debounce))
	}
	if deps.Clock != nil {
		opts = append(opts, autocomplete.WithClock(deps.Clock))
	}
	w = autocomplete.New(deps.Provider, deps.Sessions, fd.Find, opts...)
	w.Open(ctx)

	return Model{
		ctx:     ctx,
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		widget:  w,
		saver:   deps.Saver,
		events:  events,
		changed: changed,
		log:     deps.Log,
		view:    finder.ViewFinder,
		search:  w.State(),
		lookup:  fd.State(),
	}
}

// Run shows the lookup flow until the user quits.
func Run(ctx context.Context, deps Deps) error {
	m := New(ctx, deps)
	defer m.widget.Stop()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks until the widget or finder reports something.
func (m Model) waitForEvent() tea.Cmd {
	events, changed, ctx := m.events, m.changed, m.ctx
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-changed:
			return widgetMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case widgetMsg:
		m.search = m.widget.State()
		if m.cursor >= len(m.search.Predictions) {
			m.cursor = 0
		}
		return m, m.waitForEvent()

	case lookupMsg:
		m.lookup = msg.state
		return m, m.waitForEvent()

	case routeMsg:
		return m.applyRoute(msg.route), m.waitForEvent()

	case submittedMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Msg("Submission did not navigate")
		}
		return m, nil

	case savedMsg:
		m.editor.saving = false
		m.editor.err = msg.err
		if msg.err == nil {
			m.editor.saved = true
			m.editor.dirty = false
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.widget.Stop()
			return m, tea.Quit
		}
		switch m.view {
		case finder.ViewSelector:
			return m.updateSelector(msg)
		case finder.ViewEditor:
			return m.updateEditor(msg)
		default:
			return m.updateFinder(msg)
		}
	}
	return m, nil
}

func (m Model) applyRoute(r finder.Route) Model {
	m.route = r
	m.view = r.View
	m.cursor = 0
	if r.View == finder.ViewEditor {
		m.editor = editor{}
		if rsvps := r.RSVPs(); len(rsvps) > 0 {
			m.editor.rsvp = rsvps[0]
			m.editor.rsvp.Guests = append([]models.Guest(nil), rsvps[0].Guests...)
			m.editor.ok = true
		}
	}
	return m
}

func (m Model) updateFinder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Disabled {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.search.Predictions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		return m.enter()
	case key.Matches(msg, m.keys.Back):
		m.widget.Close()
		m.search = m.widget.State()
	case msg.Type == tea.KeyBackspace:
		runes := []rune(m.search.Input)
		if len(runes) > 0 {
			m.setInput(string(runes[:len(runes)-1]))
		}
	case msg.Type == tea.KeySpace:
		m.setInput(m.search.Input + " ")
	case msg.Type == tea.KeyRunes:
		m.setInput(m.search.Input + string(msg.Runes))
	}
	return m, nil
}

// setInput sends typed text to the widget, reopening the panel if needed.
func (m *Model) setInput(text string) {
	m.widget.SetInput(m.ctx, text)
	if !m.search.Open {
		m.widget.Open(m.ctx)
	}
	m.search = m.widget.State()
	m.cursor = 0
}

// enter selects the highlighted prediction, or submits the selection when it
// is already chosen.
func (m Model) enter() (tea.Model, tea.Cmd) {
	s := m.search
	if s.Open && m.cursor < len(s.Predictions) {
		picked := s.Predictions[m.cursor]
		if s.Selection == nil || picked.PlaceID != s.Selection.PlaceID {
			m.widget.Select(picked)
			m.search = m.widget.State()
			m.cursor = 0
			return m, nil
		}
	}
	if !s.CanSubmit() {
		return m, nil
	}

	ctx, w := m.ctx, m.widget
	return m, func() tea.Msg {
		return submittedMsg{err: w.Submit(ctx)}
	}
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var next finder.Route
	sel := finder.NewSelector(m.route, finder.NavigatorFunc(func(r finder.Route) { next = r }))
	count := sel.Len()
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, listUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down), key.Matches(msg, listDown):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if err := sel.Choose(m.cursor); err != nil {
			return m, nil
		}
		return m.applyRoute(next), nil
	case key.Matches(msg, m.keys.Back):
		return m.backToFinder(), nil
	}
	return m, nil
}

var mealCycle = []models.MealChoice{
	models.MealBeef, models.MealChicken, models.MealVegetarian, models.MealVegan,
}

func nextMeal(current models.MealChoice) models.MealChoice {
	for i, meal := range mealCycle {
		if meal == current {
			return mealCycle[(i+1)%len(mealCycle)]
		}
	}
	return mealCycle[0]
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m.backToFinder(), nil
	}
	if !m.editor.ok || m.editor.saving {
		return m, nil
	}

	ed := &m.editor
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, listUp):
		if ed.cursor > 0 {
			ed.cursor--
		}
	case key.Matches(msg, m.keys.Down), key.Matches(msg, listDown):
		if ed.cursor < len(ed.rsvp.Guests)-1 {
			ed.cursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		ed.rsvp.Status = models.RSVPConfirmed
		ed.dirty, ed.saved = true, false
	case key.Matches(msg, m.keys.Decline):
		ed.rsvp.Status = models.RSVPDeclined
		ed.dirty, ed.saved = true, false
	case key.Matches(msg, m.keys.Meal):
		if ed.cursor < len(ed.rsvp.Guests) {
			g := &ed.rsvp.Guests[ed.cursor]
			g.MealChoice = nextMeal(g.MealChoice)
			ed.dirty, ed.saved = true, false
		}
	case key.Matches(msg, m.keys.Save):
		if !ed.dirty {
			return m, nil
		}
		ed.saving = true
		ed.err = nil
		return m, m.save(ed.rsvp)
	}
	return m, nil
}

func (m Model) save(rsvp models.RSVP) tea.Cmd {
	ctx, saver := m.ctx, m.saver
	guests := append([]models.Guest(nil), rsvp.Guests...)
	status := rsvp.Status
	partial := models.PartialRSVP{
		ID:        rsvp.ID,
		Household: rsvp.Household,
		Guests:    &guests,
		Status:    &status,
	}
	return func() tea.Msg {
		return savedMsg{err: saver.UpsertRSVP(ctx, partial)}
	}
}

func (m Model) backToFinder() Model {
	m.view = finder.ViewFinder
	m.route = finder.Route{}
	m.cursor = 0
	m.widget.Open(m.ctx)
	m.search = m.widget.State()
	return m
}
