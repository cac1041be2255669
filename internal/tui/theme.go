package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by every view.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Input     lipgloss.Style
	Disabled  lipgloss.Style
	Cursor    lipgloss.Style
	Matched   lipgloss.Style
	Secondary lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Help      lipgloss.Style
	Box       lipgloss.Style
}

var DefaultTheme = Theme{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	Input:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
	Disabled:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Foreground(lipgloss.Color("240")).Padding(0, 1),
	Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	Matched:   lipgloss.NewStyle().Bold(true),
	Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(1, 3),
}
