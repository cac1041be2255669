package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for every view.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Confirm key.Binding
	Decline key.Binding
	Meal    key.Binding
	Save    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap uses arrow keys while typing an address and adds j/k in
// lists.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "attending"),
	),
	Decline: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "not attending"),
	),
	Meal: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "change meal"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// listUp and listDown also accept vim keys where nothing is being typed.
var (
	listUp   = key.NewBinding(key.WithKeys("k"))
	listDown = key.NewBinding(key.WithKeys("j"))
)
