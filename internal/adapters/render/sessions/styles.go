package sessions

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	name     lipgloss.Style
	detail   lipgloss.Style
	live     lipgloss.Style
	dead     lipgloss.Style
	active   lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	key      lipgloss.Style
	template lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		live:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		dead:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		key:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		template: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
