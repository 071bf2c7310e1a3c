// Package history provides the run history view for the TUI application.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/shipctl/pkg/app"
	"github.com/jaspreet-dot-casa/shipctl/pkg/history"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

// ListLimit is the number of runs shown.
const ListLimit = 50

var (
	navigateKey = key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "navigate"))
	refreshKey  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

// RunsLoadedMsg carries the runs read from the store.
type RunsLoadedMsg struct {
	Runs []history.Run
	Err  error
}

// Model is the history view model.
type Model struct {
	app.BaseTab

	store      *history.Store
	runs       []history.Run
	table      table.Model
	err        error
	lastUpdate time.Time
}

// New creates a new history model.
func New(store *history.Store) *Model {
	m := &Model{
		BaseTab: app.NewBaseTab(app.TabHistory, "History", "2"),
		store:   store,
	}
	m.table = m.createTable()
	return m
}

func (m *Model) createTable() table.Model {
	columns := []table.Column{
		{Title: "WHEN", Width: 16},
		{Title: "KIND", Width: 8},
		{Title: "STATUS", Width: 8},
		{Title: "TIME", Width: 8},
		{Title: "COMMAND", Width: 48},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init loads the runs.
func (m *Model) Init() tea.Cmd {
	return m.loadRuns
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, refreshKey) {
			return m, m.loadRuns
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case RunsLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.runs = msg.Runs
			m.lastUpdate = time.Now()
			m.updateTableRows()
		}
	}

	return m, nil
}

func (m *Model) loadRuns() tea.Msg {
	if m.store == nil {
		return RunsLoadedMsg{}
	}
	runs, err := m.store.List(ListLimit)
	return RunsLoadedMsg{Runs: runs, Err: err}
}

func (m *Model) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			utils.FormatTimeAgo(r.StartedAt),
			string(r.Kind),
			r.Status(),
			r.Duration.Round(100 * time.Millisecond).String(),
			r.Command,
		}
	}
	m.table.SetRows(rows)
}

// Selected returns the run under the cursor, if any.
func (m *Model) Selected() *history.Run {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.runs) {
		return nil
	}
	return &m.runs[idx]
}

// View renders the history view.
func (m *Model) View() string {
	if m.Width() == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.err != nil:
		content = fmt.Sprintf("\n  Error: %v\n\n  Press 'r' to retry.\n", m.err)
	case len(m.runs) == 0:
		content = "\n  No runs recorded yet.\n\n  Press '1' and then 'd' or 'b' to deploy or build.\n"
	default:
		content = m.table.View() + m.renderDetail()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), content)
}

func (m *Model) renderHeader() string {
	left := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
		Render(fmt.Sprintf("Recent runs (%d)", len(m.runs)))

	right := ""
	if !m.lastUpdate.IsZero() {
		right = app.DimStyle.Render("Last update: " + m.lastUpdate.Format("15:04:05"))
	}

	gap := max(m.Width()-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return fmt.Sprintf("%s%s%s", left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

func (m *Model) renderDetail() string {
	r := m.Selected()
	if r == nil {
		return ""
	}
	return app.DimStyle.Render(fmt.Sprintf("\n  %s  dir %s  id %s",
		r.StartedAt.Format(time.RFC3339), r.Dir, r.ID))
}

// SetSize sets the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.BaseTab.SetSize(width, height)
	m.table.SetHeight(max(height-5, 3))
	m.table.SetWidth(width)
}

// Focus reloads the runs when the tab becomes active.
func (m *Model) Focus() tea.Cmd {
	m.BaseTab.Focus()
	return m.loadRuns
}

// KeyBindings returns the key bindings for this tab.
func (m *Model) KeyBindings() []key.Binding {
	return []key.Binding{navigateKey, refreshKey}
}
