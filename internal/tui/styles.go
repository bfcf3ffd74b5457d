package tui

import "github.com/charmbracelet/lipgloss"

// Styles bundles the lipgloss styles used across views.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Row       lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Danger    lipgloss.Style
	Success   lipgloss.Style
	HelpBar   lipgloss.Style
	FormLabel lipgloss.Style
	Box       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#bd93f9")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f8f8f2")),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#44475a")).
			Foreground(lipgloss.Color("#f8f8f2")),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f8f8f2")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272a4")),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8be9fd")),
		Danger: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5555")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50fa7b")),
		HelpBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272a4")).
			Padding(0, 1),
		FormLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8be9fd")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6272a4")).
			Padding(1, 2),
	}
}
