// Package doctor provides the tool check view for the TUI application.
package doctor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/shipctl/pkg/app"
	"github.com/jaspreet-dot-casa/shipctl/pkg/doctor"
)

type (
	checksLoadedMsg struct {
		groups []doctor.CheckGroup
	}

	fixResultMsg struct {
		checkID string
		err     error
	}
)

// Dialog buttons.
const (
	buttonCancel = iota
	buttonRun
)

// keyMap lists the doctor tab's keys.
type keyMap struct {
	Up, Down, Fix, Refresh key.Binding
	Left, Right, Confirm   key.Binding
	Close                  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Fix:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fix")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "cancel")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "run")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Close:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
}

// FlatItem is one row of the list: a group header or a check.
type FlatItem struct {
	IsGroup bool
	Group   *doctor.CheckGroup
	Check   *doctor.Check
	GroupID string
}

// Model is the doctor view model.
type Model struct {
	app.BaseTab

	checker *doctor.Checker
	fixer   *doctor.Fixer
	groups  []doctor.CheckGroup
	items   []FlatItem

	spinner spinner.Model
	loading bool
	cursor  int
	message string

	showDialog    bool
	dialogCheckID string
	dialogFix     *doctor.FixCommand
	dialogCursor  int
	dialogRunning bool
	dialogMessage string
}

// New creates a doctor model that checks the real system.
func New() *Model {
	return NewWithChecker(doctor.NewChecker(), doctor.NewFixer())
}

// NewWithChecker creates a doctor model with the given checker and fixer.
func NewWithChecker(checker *doctor.Checker, fixer *doctor.Fixer) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = app.SpinnerStyle

	return &Model{
		BaseTab: app.NewBaseTab(app.TabDoctor, "Doctor", "3"),
		checker: checker,
		fixer:   fixer,
		spinner: s,
		loading: true,
	}
}

// Init runs the checks.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadChecks())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showDialog {
			return m.handleDialogKey(msg)
		}
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.loading && !m.dialogRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case checksLoadedMsg:
		m.loading = false
		m.groups = msg.groups
		m.flattenItems()

	case fixResultMsg:
		m.dialogRunning = false
		if msg.err != nil {
			m.dialogMessage = fmt.Sprintf("Fix failed: %v", msg.err)
			return m, nil
		}
		m.dialogMessage = "Fix completed successfully!"
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadChecks())
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Fix):
		m.openFixDialog()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.message = ""
		return m, tea.Batch(m.spinner.Tick, m.loadChecks())
	}
	return m, nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.dialogRunning {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Left):
		m.dialogCursor = buttonCancel
	case key.Matches(msg, keys.Right):
		m.dialogCursor = buttonRun
	case key.Matches(msg, keys.Confirm):
		if m.dialogCursor == buttonRun {
			m.dialogRunning = true
			m.dialogMessage = "Running fix..."
			return m, tea.Batch(m.spinner.Tick, m.runFix())
		}
		m.closeDialog()
	case key.Matches(msg, keys.Close):
		m.closeDialog()
	}
	return m, nil
}

func (m *Model) closeDialog() {
	m.showDialog = false
	m.dialogMessage = ""
}

// moveCursor moves the selection, skipping group headers.
func (m *Model) moveCursor(delta int) {
	pos := m.cursor + delta
	for pos >= 0 && pos < len(m.items) && m.items[pos].IsGroup {
		pos += delta
	}
	if pos >= 0 && pos < len(m.items) {
		m.cursor = pos
	}
}

func (m *Model) openFixDialog() {
	check := m.Selected()
	if check == nil {
		return
	}

	switch {
	case check.Status == doctor.StatusOK:
		m.message = check.Name + " is already installed"
	case check.FixCommand == nil:
		m.message = "No fix available for " + check.Name
	default:
		m.showDialog = true
		m.dialogCheckID = check.ID
		m.dialogFix = check.FixCommand
		m.dialogCursor = buttonRun
		m.dialogMessage = ""
		m.message = ""
	}
}

// Selected returns the check under the cursor, if any.
func (m *Model) Selected() *doctor.Check {
	if m.cursor < 0 || m.cursor >= len(m.items) || m.items[m.cursor].IsGroup {
		return nil
	}
	return m.items[m.cursor].Check
}

func (m *Model) loadChecks() tea.Cmd {
	checker := m.checker
	return func() tea.Msg {
		return checksLoadedMsg{groups: checker.CheckAllAsync(context.Background())}
	}
}

func (m *Model) runFix() tea.Cmd {
	fixer, fix, id := m.fixer, m.dialogFix, m.dialogCheckID
	return func() tea.Msg {
		return fixResultMsg{checkID: id, err: fixer.RunFix(context.Background(), fix, nil)}
	}
}

// flattenItems builds the navigable list and puts the cursor on the first check.
func (m *Model) flattenItems() {
	m.items = nil
	for i := range m.groups {
		group := &m.groups[i]
		m.items = append(m.items, FlatItem{IsGroup: true, Group: group, GroupID: group.ID})
		for j := range group.Checks {
			m.items = append(m.items, FlatItem{Check: &group.Checks[j], GroupID: group.ID})
		}
	}

	m.cursor = 0
	for i, item := range m.items {
		if !item.IsGroup {
			m.cursor = i
			break
		}
	}
}

// View renders the doctor view.
func (m *Model) View() string {
	if m.Width() == 0 {
		return "Loading..."
	}

	if m.showDialog {
		return lipgloss.Place(m.Width(), m.Height(), lipgloss.Center, lipgloss.Center,
			m.renderDialog(), lipgloss.WithWhitespaceChars(" "))
	}

	var content string
	switch {
	case m.loading && len(m.groups) == 0:
		content = fmt.Sprintf("\n  %s Checking tools...\n", m.spinner.View())
	case len(m.groups) == 0:
		content = "\n  No checks for this platform.\n"
	default:
		content = m.renderChecks()
	}

	status := ""
	if m.message != "" {
		status = app.DimStyle.Render("\n  " + m.message)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), content, status)
}

func (m *Model) renderHeader() string {
	title := "Tool Check"
	if m.loading {
		title += " " + m.spinner.View()
	}

	left := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(title)
	right := m.renderSummary()

	gap := max(m.Width()-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return fmt.Sprintf("%s%s%s", left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

func (m *Model) renderSummary() string {
	if len(m.groups) == 0 {
		return ""
	}

	summary := doctor.GetSummary(m.groups)
	var parts []string
	if summary.OK > 0 {
		parts = append(parts, app.SuccessStyle.Render(fmt.Sprintf("✓ %d ", summary.OK)))
	}
	if n := summary.Missing + summary.Errors; n > 0 {
		parts = append(parts, app.ErrorStyle.Render(fmt.Sprintf("✗ %d ", n)))
	}
	if summary.Warnings > 0 {
		parts = append(parts, app.WarningStyle.Render(fmt.Sprintf("⚠ %d", summary.Warnings)))
	}
	if len(parts) == 0 {
		return app.DimStyle.Render("No checks")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func statusIcon(status doctor.CheckStatus) string {
	style := app.ErrorStyle
	switch status {
	case doctor.StatusOK:
		style = app.SuccessStyle
	case doctor.StatusWarning:
		style = app.WarningStyle
	}
	return style.Render(status.Mark())
}

func (m *Model) renderChecks() string {
	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	lines := make([]string, 0, len(m.items))
	for i, item := range m.items {
		if item.IsGroup {
			lines = append(lines, "\n  "+groupStyle.Render(item.Group.Name))
			continue
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("    %s%s %-14s %s", cursor, statusIcon(item.Check.Status),
			item.Check.Name, app.DimStyle.Render(item.Check.Message))
		if i == m.cursor {
			line = app.SelectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderDialog() string {
	if m.dialogFix == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(1, 2).
		Width(60)
	cmdStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	content := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
		Render("Install "+m.dialogCheckID) +
		"\n\n" + m.dialogFix.Description + "\n\n" +
		cmdStyle.Render(m.dialogFix.Command) + "\n"

	if m.dialogFix.Sudo {
		content += "\n" + app.WarningStyle.Render("Note: Requires sudo password") + "\n"
	}
	if m.dialogMessage != "" {
		msg := m.dialogMessage
		if m.dialogRunning {
			msg = m.spinner.View() + " " + msg
		}
		content += "\n" + app.DimStyle.Render(msg) + "\n"
	}

	return boxStyle.Render(content + "\n" + m.renderDialogButtons())
}

func (m *Model) renderDialogButtons() string {
	normal := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	selected := normal.
		BorderForeground(lipgloss.Color("39")).
		Bold(true)

	labels := []string{"Cancel", "Run"}
	rendered := make([]string, len(labels))
	for i, label := range labels {
		if i == m.dialogCursor {
			rendered[i] = selected.Render(label)
		} else {
			rendered[i] = normal.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

// Focus reruns the checks when the tab becomes active.
func (m *Model) Focus() tea.Cmd {
	m.BaseTab.Focus()
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadChecks())
}

// KeyBindings returns the key bindings for this tab.
func (m *Model) KeyBindings() []key.Binding {
	if m.showDialog {
		return []key.Binding{keys.Left, keys.Right, keys.Confirm, keys.Close}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Fix, keys.Refresh}
}

// HasFocusedInput returns true while the fix dialog is open.
func (m *Model) HasFocusedInput() bool {
	return m.showDialog
}
