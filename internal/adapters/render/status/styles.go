package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	detail    lipgloss.Style
	track     lipgloss.Style
	workspace lipgloss.Style
	ok        lipgloss.Style
	warning   lipgloss.Style
	edited    lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		track:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		workspace: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		ok:        lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		edited:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
