// Package app provides the full-screen operator panel. It follows the
// Bubble Tea architecture with one tab per feature.
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Busy is implemented by tabs that run external tools. While a tab reports
// busy, quitting needs a second press.
type Busy interface {
	Busy() bool
}

// Model is the panel: a tab strip, the active tab and a help footer.
type Model struct {
	tabs   []Tab
	active int

	width, height int

	quitting  bool
	quitArmed bool // "q" was pressed once during a run

	err        error
	projectDir string
}

// New creates a panel for projectDir with no tabs.
func New(projectDir string) Model {
	return Model{projectDir: projectDir}
}

// WithTabs returns a copy of m showing tabs, in order.
func (m Model) WithTabs(tabs ...Tab) Model {
	m.tabs = tabs
	return m
}

// Init starts every tab so background tabs have data when first shown.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tabs))
	for _, t := range m.tabs {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, t := range m.tabs {
			t.SetSize(m.width, m.contentHeight())
		}
		return m, nil

	case error:
		m.err = msg
		return m, nil
	}

	// Everything else (run output, check results, spinner ticks) goes to
	// every tab: a run started on one tab keeps streaming after the user
	// switches away.
	cmds := make([]tea.Cmd, len(m.tabs))
	for i := range m.tabs {
		m.tabs[i], cmds[i] = m.tabs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	tab := m.current()
	if tab != nil && tab.HasFocusedInput() {
		var cmd tea.Cmd
		m.tabs[m.active], cmd = tab.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Quit) {
		if m.busy() && !m.quitArmed {
			m.quitArmed = true
			return m, nil
		}
		return m.quit()
	}
	m.quitArmed = false

	if n := len(m.tabs); n > 0 {
		switch {
		case key.Matches(msg, keys.NextTab):
			return m.switchTab((m.active + 1) % n)
		case key.Matches(msg, keys.PrevTab):
			return m.switchTab((m.active + n - 1) % n)
		}
		for i, t := range m.tabs {
			if msg.String() == t.Meta().Key {
				return m.switchTab(i)
			}
		}
	}

	if tab == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.tabs[m.active], cmd = tab.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) current() Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

// busy reports whether any tab is running an external tool.
func (m Model) busy() bool {
	for _, t := range m.tabs {
		if b, ok := t.(Busy); ok && b.Busy() {
			return true
		}
	}
	return false
}

func (m Model) switchTab(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.tabs) || idx == m.active {
		return m, nil
	}
	m.tabs[m.active].Blur()
	m.active = idx
	return m, m.tabs[idx].Focus()
}

func (m Model) contentHeight() int {
	return m.height - headerHeight - footerHeight
}

// View implements tea.Model.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case m.width == 0:
		return "Loading..."
	}

	var body string
	var bindings []key.Binding
	if tab := m.current(); tab != nil {
		body = tab.View()
		bindings = tab.KeyBindings()
	}

	footer := renderFooter(bindings, m.width)
	if m.quitArmed {
		footer = renderQuitPrompt(m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.tabs, m.active, m.width, headerInfo{projectDir: m.projectDir, running: m.busy()}),
		lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).Render(body),
		footer,
	)
}

// ActiveTab returns the index of the active tab.
func (m Model) ActiveTab() int { return m.active }

// SetActiveTab selects a tab without focus callbacks. Out-of-range
// indexes are ignored.
func (m *Model) SetActiveTab(idx int) {
	if idx >= 0 && idx < len(m.tabs) {
		m.active = idx
	}
}

// Error returns the last error message received.
func (m Model) Error() error { return m.err }

// ProjectDir returns the project folder shown in the header.
func (m Model) ProjectDir() string { return m.projectDir }
