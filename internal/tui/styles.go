package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	success  lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	tag      lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
	pane     lipgloss.Style
	focused  lipgloss.Style
	dialog   lipgloss.Style
}

func newStyles(theme string) styles {
	border := lipgloss.RoundedBorder()
	if theme == "classic" {
		border = lipgloss.NormalBorder()
	}
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		muted:    lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
		pane:     lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		focused:  lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("12")).Padding(0, 1),
		dialog:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
	}
	switch theme {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("213"))
		s.accent = s.accent.Foreground(lipgloss.Color("51"))
		s.tag = s.tag.Foreground(lipgloss.Color("201"))
		s.focused = s.focused.BorderForeground(lipgloss.Color("51"))
	case "mono":
		plain := lipgloss.NewStyle()
		s.success, s.accent, s.err, s.tag = plain, plain, plain.Bold(true), plain
		s.pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
		s.focused = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
		s.dialog = s.pane
	}
	return s
}
