package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	muted    lipgloss.Style
	income   lipgloss.Style
	expense  lipgloss.Style
	selected lipgloss.Style
	bubble   lipgloss.Style
	errText  lipgloss.Style
}

// newStyles picks colors for the configured theme; anything but "light"
// gets the dark palette.
func newStyles(theme string) styles {
	fg, dim, accent := lipgloss.Color("252"), lipgloss.Color("244"), lipgloss.Color("212")
	green, red := lipgloss.Color("42"), lipgloss.Color("203")
	if theme == "light" {
		fg, dim, accent = lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("127")
		green, red = lipgloss.Color("28"), lipgloss.Color("160")
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(fg),
		tab:      lipgloss.NewStyle().Padding(0, 1).Foreground(dim),
		tabOn:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(accent),
		muted:    lipgloss.NewStyle().Foreground(dim),
		income:   lipgloss.NewStyle().Foreground(green),
		expense:  lipgloss.NewStyle().Foreground(red),
		selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		bubble:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		errText:  lipgloss.NewStyle().Foreground(red),
	}
}

func swatch(color string) string {
	if color == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
