package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/models"
)

func (m Model) View() string {
	var body string
	switch m.view {
	case finder.ViewSelector:
		body = m.selectorView()
	case finder.ViewEditor:
		body = m.editorView()
	default:
		body = m.finderView()
	}
	return m.theme.Box.Render(body)
}

func (m Model) finderView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Find your RSVP") + "\n")
	b.WriteString(t.Subtitle.Render("Please enter the address to which your invitation was sent") + "\n\n")

	input := m.search.Input
	if input == "" {
		input = t.Secondary.Render("Start typing an address")
	}
	inputStyle := t.Input
	if m.search.Disabled {
		inputStyle = t.Disabled
	}
	b.WriteString(inputStyle.Render(input) + "\n")

	if m.search.Open {
		b.WriteString(m.predictionsView())
	}

	if m.search.Disabled {
		b.WriteString(t.Secondary.Render("Looking up your RSVP...") + "\n")
	}
	if m.lookup.Message != "" {
		b.WriteString("\n" + t.Error.Render(m.lookup.Message) + "\n")
	}

	help := "type to search • ↑/↓ move • enter select • esc close • ctrl+c quit"
	if m.search.CanSubmit() {
		help = "enter find RSVP • type to search again • ctrl+c quit"
	}
	b.WriteString("\n" + t.Help.Render(help))
	return b.String()
}

func (m Model) predictionsView() string {
	t := m.theme
	s := m.search

	if s.Loading() {
		return t.Secondary.Render("Searching...") + "\n"
	}
	if len(s.Predictions) == 0 {
		if s.Input == "" {
			return ""
		}
		return t.Secondary.Render("No results") + "\n"
	}

	var b strings.Builder
	for i, p := range s.Predictions {
		prefix := "  "
		if i == m.cursor {
			prefix = t.Cursor.Render("› ")
		}
		b.WriteString(prefix + m.highlight(p) + " " + t.Secondary.Render(p.SecondaryText) + "\n")
	}
	return b.String()
}

func (m Model) highlight(p models.PlaceCandidate) string {
	parts := p.Highlight()
	if len(parts) == 0 {
		return p.Description
	}
	var b strings.Builder
	for _, part := range parts {
		if part.Matched {
			b.WriteString(m.theme.Matched.Render(part.Text))
		} else {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func (m Model) selectorView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Which invitation is yours?") + "\n")
	b.WriteString(t.Subtitle.Render("We found more than one RSVP at this address") + "\n\n")

	summaries := finder.NewSelector(m.route, nil).Summaries()
	if len(summaries) == 0 {
		b.WriteString(t.Secondary.Render("No RSVPs to choose from.") + "\n")
	}
	for i, line := range summaries {
		prefix := "  "
		if i == m.cursor {
			prefix = t.Cursor.Render("› ")
			line = t.Cursor.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}

	b.WriteString("\n" + t.Help.Render("↑/↓ move • enter choose • esc back"))
	return b.String()
}

func (m Model) editorView() string {
	t := m.theme
	ed := m.editor
	var b strings.Builder

	if !ed.ok {
		b.WriteString(t.Title.Render("RSVP") + "\n\n")
		b.WriteString(t.Secondary.Render("No RSVP selected.") + "\n")
		b.WriteString("\n" + t.Help.Render("esc search again"))
		return b.String()
	}

	b.WriteString(t.Title.Render(finder.SummarizeRSVP(ed.rsvp)) + "\n")
	b.WriteString(t.Subtitle.Render(fmt.Sprintf("Status: %s", ed.rsvp.Status)) + "\n\n")

	rows := make([]string, 0, len(ed.rsvp.Guests))
	for i, g := range ed.rsvp.Guests {
		meal := string(g.MealChoice)
		if meal == "" {
			meal = "no meal chosen"
		}
		name := g.Name
		if g.IsPlusOne {
			name += " (plus one)"
		}
		prefix := "  "
		if i == ed.cursor {
			prefix = t.Cursor.Render("› ")
		}
		rows = append(rows, prefix+lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(24).Render(name),
			t.Secondary.Render(meal)))
	}
	b.WriteString(strings.Join(rows, "\n") + "\n")

	switch {
	case ed.saving:
		b.WriteString("\n" + t.Secondary.Render("Saving...") + "\n")
	case ed.err != nil:
		b.WriteString("\n" + t.Error.Render("Could not save your RSVP. Please try again") + "\n")
	case ed.saved:
		b.WriteString("\n" + t.Success.Render("Saved! Thank you.") + "\n")
	}

	b.WriteString("\n" + t.Help.Render("y attending • n not attending • m change meal • s save • esc back"))
	return b.String()
}
