package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/debounce"
	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/logx"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/places"
)

type stubProvider struct{}

func (stubProvider) Predict(_ context.Context, text string, _ places.SessionToken) ([]models.PlaceCandidate, error) {
	return []models.PlaceCandidate{
		{PlaceID: "place-" + text, Description: text + " Main St, Springfield", MainText: text + " Main St", SecondaryText: "Springfield"},
		{PlaceID: "other-" + text, Description: text + " Oak Ave, Springfield", MainText: text + " Oak Ave", SecondaryText: "Springfield"},
	}, nil
}

type stubResolver struct {
	rsvps []models.RSVP
	err   error
}

func (r stubResolver) FetchRSVPs(context.Context, string) ([]models.RSVP, error) {
	return r.rsvps, r.err
}

type gatedResolver struct {
	release chan struct{}
	rsvps   []models.RSVP
}

func (r gatedResolver) FetchRSVPs(context.Context, string) ([]models.RSVP, error) {
	<-r.release
	return r.rsvps, nil
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []models.PartialRSVP
}

func (s *recordingSaver) UpsertRSVP(_ context.Context, p models.PartialRSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, p)
	return nil
}

type harness struct {
	t     *testing.T
	model Model
	clock *debounce.FakeClock
	saver *recordingSaver
}

func newHarness(t *testing.T, resolver finder.Resolver) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := debounce.NewFakeClock()
	saver := &recordingSaver{}
	m := New(ctx, Deps{
		Provider: stubProvider{},
		Sessions: places.NewSessions(),
		Resolver: resolver,
		Saver:    saver,
		Contacts: finder.Contacts{Groom: finder.Contact{Name: "Sam", Phone: "1"}, Bride: finder.Contact{Name: "Alex", Phone: "2"}},
		Clock:    clock,
		Log:      logx.Nop(),
	})
	t.Cleanup(m.widget.Stop)
	return &harness{t: t, model: m, clock: clock, saver: saver}
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) press(t tea.KeyType) tea.Cmd {
	return h.update(tea.KeyMsg{Type: t})
}

func (h *harness) key(r rune) tea.Cmd {
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// pumpUntil feeds widget and finder events into the model until cond holds.
func (h *harness) pumpUntil(cond func(Model) bool) {
	h.t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(h.model) {
		select {
		case msg := <-h.model.events:
			h.update(msg)
		case <-h.model.changed:
			h.update(widgetMsg{})
		case <-deadline:
			h.t.Fatal("condition not reached")
		}
	}
}

// run executes a command synchronously and feeds its message back.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.update(cmd())
}

func (h *harness) searchAndSubmit(text string) {
	h.t.Helper()
	h.typeText(text)
	h.clock.Advance(time.Second)
	h.pumpUntil(func(m Model) bool { return len(m.search.Predictions) == 2 && !m.search.Loading() })

	assert.Nil(h.t, h.press(tea.KeyEnter), "first enter selects")
	require.NotNil(h.t, h.model.search.Selection)
	h.run(h.press(tea.KeyEnter))
}

func guestsNamed(names ...string) []models.Guest {
	var out []models.Guest
	for _, n := range names {
		out = append(out, models.Guest{Name: n})
	}
	return out
}

func TestFinderView_ShowsPredictions(t *testing.T) {
	h := newHarness(t, stubResolver{})

	h.typeText("12")
	assert.Contains(t, h.model.View(), "Searching...")

	h.clock.Advance(time.Second)
	h.pumpUntil(func(m Model) bool { return len(m.search.Predictions) == 2 && !m.search.Loading() })

	view := h.model.View()
	assert.Contains(t, view, "12 Main St")
	assert.Contains(t, view, "12 Oak Ave")

	h.press(tea.KeyDown)
	assert.Equal(t, 1, h.model.cursor)
	h.press(tea.KeyEnter)
	require.NotNil(t, h.model.search.Selection)
	assert.Equal(t, "other-12", h.model.search.Selection.PlaceID)
}

func TestFinderView_BackspaceEditsInput(t *testing.T) {
	h := newHarness(t, stubResolver{})

	h.typeText("123")
	h.press(tea.KeyBackspace)
	assert.Equal(t, "12", h.model.search.Input)
}

func TestFinderView_NotFoundMessage(t *testing.T) {
	h := newHarness(t, stubResolver{rsvps: []models.RSVP{}})

	h.searchAndSubmit("9")
	h.pumpUntil(func(m Model) bool { return m.lookup.Message != "" })

	assert.Equal(t, finder.ViewFinder, h.model.view)
	assert.Contains(t, h.model.View(), finder.NotFoundMessage)
}

func TestFinderView_EscalationMessage(t *testing.T) {
	h := newHarness(t, stubResolver{err: errors.New("backend down")})

	h.searchAndSubmit("9")
	// The selection survives a failed lookup, so enter retries it.
	h.run(h.press(tea.KeyEnter))
	h.run(h.press(tea.KeyEnter))
	h.pumpUntil(func(m Model) bool { return m.lookup.Status == finder.StatusErroredEscalated })
	assert.Contains(t, h.model.View(), "Please text Sam at 1 or Alex at 2")
}

func TestSingleRecordOpensEditorAndSaves(t *testing.T) {
	rsvp := models.RSVP{ID: "place-7", Status: models.RSVPPending, Guests: guestsNamed("Milo", "Huck")}
	h := newHarness(t, stubResolver{rsvps: []models.RSVP{rsvp}})

	h.searchAndSubmit("7")
	h.pumpUntil(func(m Model) bool { return m.view == finder.ViewEditor })
	assert.Contains(t, h.model.View(), "Milo and Huck")

	assert.Nil(t, h.key('s'), "nothing to save yet")

	h.key('y')
	h.key('m')
	h.run(h.key('s'))

	require.Len(t, h.saver.saved, 1)
	saved := h.saver.saved[0]
	assert.Equal(t, "place-7", saved.ID)
	require.NotNil(t, saved.Status)
	assert.Equal(t, models.RSVPConfirmed, *saved.Status)
	require.NotNil(t, saved.Guests)
	assert.Equal(t, models.MealBeef, (*saved.Guests)[0].MealChoice)
	assert.Contains(t, h.model.View(), "Saved!")

	h.press(tea.KeyEsc)
	assert.Equal(t, finder.ViewFinder, h.model.view)
}

func TestManyRecordsOpenSelector(t *testing.T) {
	rsvps := []models.RSVP{
		{ID: "place-3", Guests: guestsNamed("Milo")},
		{ID: "place-3", Household: 1, Guests: guestsNamed("Milo", "Huck", "Ollie")},
	}
	h := newHarness(t, stubResolver{rsvps: rsvps})

	h.searchAndSubmit("3")
	h.pumpUntil(func(m Model) bool { return m.view == finder.ViewSelector })

	view := h.model.View()
	assert.Contains(t, view, "Milo, Huck, and Ollie")

	h.key('j')
	h.press(tea.KeyEnter)
	assert.Equal(t, finder.ViewEditor, h.model.view)
	assert.Equal(t, 1, h.model.editor.rsvp.Household)
}

func TestEditorWithoutRecords(t *testing.T) {
	h := newHarness(t, stubResolver{})
	h.model = h.model.applyRoute(finder.Route{View: finder.ViewEditor})

	assert.Contains(t, h.model.View(), "No RSVP selected.")
	assert.Nil(t, h.key('y'))
	assert.False(t, h.model.editor.dirty)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, stubResolver{})
	cmd := h.press(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestFinderView_TypingBurstDoesNotBlockUpdate(t *testing.T) {
	h := newHarness(t, stubResolver{})
	text := strings.Repeat("a", 200)

	done := make(chan struct{})
	go func() {
		h.typeText(text)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("update blocked on widget notifications")
	}

	assert.Equal(t, text, h.model.search.Input)
	h.pumpUntil(func(m Model) bool { return m.search.Input == text })
}

func TestFinderView_InputLockedWhileLookupRuns(t *testing.T) {
	rsvp := models.RSVP{ID: "place-5", Guests: guestsNamed("Milo")}
	resolver := gatedResolver{release: make(chan struct{}), rsvps: []models.RSVP{rsvp}}
	h := newHarness(t, resolver)

	h.typeText("5")
	h.clock.Advance(time.Second)
	h.pumpUntil(func(m Model) bool { return len(m.search.Predictions) == 2 && !m.search.Loading() })
	h.press(tea.KeyEnter)
	selected := h.model.search.Input

	submit := h.press(tea.KeyEnter)
	require.NotNil(t, submit)
	result := make(chan tea.Msg, 1)
	go func() { result <- submit() }()
	require.Eventually(t, func() bool { return h.model.widget.State().Disabled }, time.Second, time.Millisecond)

	h.typeText("zz")
	assert.Equal(t, selected, h.model.search.Input)
	require.NotNil(t, h.model.search.Selection)

	close(resolver.release)
	h.update(<-result)
	h.pumpUntil(func(m Model) bool { return m.view == finder.ViewEditor })
	assert.False(t, h.model.widget.State().Disabled)
}
