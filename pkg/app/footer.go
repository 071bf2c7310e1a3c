package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const footerHeight = 2

var footerStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderTop(true).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var helpView = func() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	return h
}()

// GlobalBindings are shown after the active tab's bindings.
func GlobalBindings() []key.Binding {
	return []key.Binding{keys.Tabs, keys.NextTab, keys.Quit}
}

// HelpText renders bindings on one line, e.g. "d deploy  b build".
// Disabled bindings are skipped.
func HelpText(bindings []key.Binding) string {
	return helpView.ShortHelpView(bindings)
}

func renderFooter(tabBindings []key.Binding, width int) string {
	all := append(append([]key.Binding{}, tabBindings...), GlobalBindings()...)
	return footerStyle.Width(width).Render(HelpText(all))
}

// renderQuitPrompt replaces the footer after a first "q" during a run.
func renderQuitPrompt(width int) string {
	return footerStyle.Width(width).Render(
		WarningStyle.Render("A run is in progress.") + " " + HelpText([]key.Binding{keys.Quit}) + " anyway")
}
