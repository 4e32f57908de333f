package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 2)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)
	Bad   = lipgloss.NewStyle().Foreground(Red)

	Countdown = lipgloss.NewStyle().Foreground(Lavender).Bold(true).Padding(0, 1)
)

// StateStyle colours a focus session state name.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return Good.Bold(true)
	case "completed":
		return Title
	case "cancelled":
		return Bad
	}
	return Muted
}

// StressStyle colours a stress classification.
func StressStyle(stress string) lipgloss.Style {
	if stress == "Stressed" {
		return lipgloss.NewStyle().Foreground(Yellow)
	}
	return Good
}
