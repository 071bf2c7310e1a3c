package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// TabID identifies a tab.
type TabID int

const (
	TabProject TabID = iota
	TabHistory
	TabDoctor
)

// TabMeta names a tab and the key that selects it.
type TabMeta struct {
	ID   TabID
	Name string
	Key  string
}

// Tab is one screen of the panel.
type Tab interface {
	Meta() TabMeta

	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string

	// Focus is called when the tab becomes active; the returned command
	// usually refreshes its data.
	Focus() tea.Cmd
	Blur()
	SetSize(width, height int)

	// KeyBindings are shown in the footer while the tab is active.
	KeyBindings() []key.Binding

	// HasFocusedInput reports that the tab owns the keyboard (an open
	// dialog). Global keys are then passed through to the tab.
	HasFocusedInput() bool
}

// BaseTab carries a tab's metadata, size and focus state. Views embed it.
type BaseTab struct {
	meta    TabMeta
	width   int
	height  int
	focused bool
}

// NewBaseTab creates a BaseTab selected by shortKey.
func NewBaseTab(id TabID, name, shortKey string) BaseTab {
	return BaseTab{meta: TabMeta{ID: id, Name: name, Key: shortKey}}
}

func (t BaseTab) Meta() TabMeta   { return t.meta }
func (t BaseTab) Width() int      { return t.width }
func (t BaseTab) Height() int     { return t.height }
func (t BaseTab) IsFocused() bool { return t.focused }

func (t *BaseTab) SetSize(width, height int) {
	t.width, t.height = width, height
}

func (t *BaseTab) Focus() tea.Cmd {
	t.focused = true
	return nil
}

func (t *BaseTab) Blur() { t.focused = false }

func (t BaseTab) HasFocusedInput() bool { return false }
