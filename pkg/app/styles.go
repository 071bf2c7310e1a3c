package app

import "github.com/charmbracelet/lipgloss"

// Common styles used across the panel.
var (
	BoldStyle = lipgloss.NewStyle().Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)

// RunStatusStyle returns the style for a run outcome.
func RunStatusStyle(success bool) lipgloss.Style {
	if success {
		return SuccessStyle
	}
	return ErrorStyle
}

// MarkerStyle colors a "✓"/"✗" project line.
func MarkerStyle(present bool) lipgloss.Style {
	if present {
		return SuccessStyle
	}
	return ErrorStyle
}
