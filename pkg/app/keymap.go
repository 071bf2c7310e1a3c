package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global key bindings of the panel.
type KeyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding

	// Tabs is for the footer only; tabs are selected by their own keys.
	Tabs key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "prev tab"),
		),
		Tabs: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "tabs"),
		),
	}
}

var keys = DefaultKeyMap()

// Keys returns the global key map.
func Keys() KeyMap {
	return keys
}

// ProjectKeyMap defines key bindings of the project tab.
type ProjectKeyMap struct {
	Deploy key.Binding
	Build  key.Binding
	Rescan key.Binding
	Clear  key.Binding
	Cancel key.Binding
	Scroll key.Binding
}

// DefaultProjectKeyMap returns default project tab key bindings.
func DefaultProjectKeyMap() ProjectKeyMap {
	return ProjectKeyMap{
		Deploy: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deploy"),
		),
		Build: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "build"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel run"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "scroll"),
		),
	}
}
