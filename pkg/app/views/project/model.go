// Package project provides the project tab: folder contents, deploy and
// build actions, and a live log of the running tool.
package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/shipctl/pkg/app"
	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/history"
	"github.com/jaspreet-dot-casa/shipctl/pkg/ops"
	"github.com/jaspreet-dot-casa/shipctl/pkg/project"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

// MaxLogLines bounds the in-memory log.
const MaxLogLines = 2000

// MessageBusy is logged when a run is requested while another is active.
const MessageBusy = "A run is already in progress."

// infoHeight is the number of rows reserved above the log.
const infoHeight = 11

type (
	// infoLoadedMsg carries a fresh scan of the project folder.
	infoLoadedMsg struct {
		info       project.Info
		lastDeploy *history.Run
		lastBuild  *history.Run
	}

	// runEventMsg is one progress event of the active run.
	runEventMsg struct {
		event deploy.ProgressEvent
	}

	// runDoneMsg ends the active run.
	runDoneMsg struct {
		kind     history.Kind
		command  string
		exitCode int
		err      error
	}
)

// Model is the project view model.
type Model struct {
	app.BaseTab

	svc   *ops.Service
	store *history.Store
	keys  app.ProjectKeyMap

	info       project.Info
	lastDeploy *history.Run
	lastBuild  *history.Run

	log     viewport.Model
	lines   []string
	spinner spinner.Model

	running bool
	runKind history.Kind
	events  chan tea.Msg
	cancel  context.CancelFunc
}

// New creates a new project model. store may be nil.
func New(svc *ops.Service, store *history.Store) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = app.SpinnerStyle

	return &Model{
		BaseTab: app.NewBaseTab(app.TabProject, "Project", "1"),
		svc:     svc,
		store:   store,
		keys:    app.DefaultProjectKeyMap(),
		log:     viewport.New(80, 10),
		spinner: s,
	}
}

// Init scans the project folder.
func (m *Model) Init() tea.Cmd {
	return m.loadInfo()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case infoLoadedMsg:
		m.info = msg.info
		m.lastDeploy = msg.lastDeploy
		m.lastBuild = msg.lastBuild
		return m, nil

	case runEventMsg:
		m.appendEvent(msg.event)
		return m, waitForEvent(m.events)

	case runDoneMsg:
		m.running = false
		m.events = nil
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		switch {
		case msg.command != "":
			m.appendLine(fmt.Sprintf("%s finished with code %d.", msg.command, msg.exitCode))
		case msg.err != nil:
			m.appendLine(app.ErrorStyle.Render(msg.err.Error()))
		}
		return m, m.loadInfo()
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Deploy):
		return m, m.startDeploy()
	case key.Matches(msg, m.keys.Build):
		return m, m.startBuild()
	case key.Matches(msg, m.keys.Rescan):
		return m, m.loadInfo()
	case key.Matches(msg, m.keys.Clear):
		if !m.running {
			m.lines = nil
			m.log.SetContent("")
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.running && m.cancel != nil {
			m.appendLine(app.WarningStyle.Render("Cancelling..."))
			m.cancel()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// Busy reports whether a tool is running.
func (m *Model) Busy() bool {
	return m.running
}

// Shutdown cancels an active run. Called when the panel exits.
func (m *Model) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Lines returns the log lines.
func (m *Model) Lines() []string {
	return m.lines
}

func (m *Model) startDeploy() tea.Cmd {
	if m.running {
		m.appendLine(MessageBusy)
		return nil
	}

	opts, err := m.svc.DeployOptions(ops.DeployOverrides{})
	if err != nil {
		m.appendLine(app.ErrorStyle.Render("Error: " + err.Error()))
		return nil
	}

	return m.start(history.KindDeploy, func(ctx context.Context, progress deploy.ProgressCallback) runDoneMsg {
		res, err := m.svc.Deploy(ctx, opts, progress)
		done := runDoneMsg{kind: history.KindDeploy, err: err}
		if res != nil {
			done.command = res.Command
			done.exitCode = res.ExitCode
		}
		return done
	})
}

func (m *Model) startBuild() tea.Cmd {
	if m.running {
		m.appendLine(MessageBusy)
		return nil
	}

	opts := m.svc.BuildOptions(ops.BuildOverrides{})
	return m.start(history.KindBuild, func(ctx context.Context, progress deploy.ProgressCallback) runDoneMsg {
		res, err := m.svc.Build(ctx, opts, progress)
		done := runDoneMsg{kind: history.KindBuild, err: err}
		if res != nil && res.Command != "" {
			done.command = res.Command
			done.exitCode = res.BuildExitCode
		}
		return done
	})
}

// start launches run in the background. Progress events and the final
// runDoneMsg are delivered through m.events in order.
func (m *Model) start(kind history.Kind, run func(context.Context, deploy.ProgressCallback) runDoneMsg) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 64)

	m.running = true
	m.runKind = kind
	m.events = events
	m.cancel = cancel
	m.appendLine(app.AccentStyle.Render(fmt.Sprintf("── %s ──", kind)))

	go func() {
		defer close(events)
		done := run(ctx, func(e deploy.ProgressEvent) {
			events <- runEventMsg{event: e}
		})
		events <- done
	}()

	return tea.Batch(m.spinner.Tick, waitForEvent(events))
}

// waitForEvent reads the next message of a run.
func waitForEvent(events chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) appendEvent(e deploy.ProgressEvent) {
	switch {
	case e.Stage == deploy.StageOutput:
		m.appendLine(e.Detail)
	case e.IsError:
		m.appendLine(app.ErrorStyle.Render(e.Message))
	case e.IsWarning:
		m.appendLine(app.WarningStyle.Render(e.Message))
	case e.Stage == deploy.StageComplete:
		m.appendLine(app.SuccessStyle.Render(e.Message))
	default:
		m.appendLine(app.DimStyle.Render("» " + e.Message))
	}
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > MaxLogLines {
		m.lines = m.lines[len(m.lines)-MaxLogLines:]
	}
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

func (m *Model) loadInfo() tea.Cmd {
	cfg := m.svc.Config()
	store := m.store
	return func() tea.Msg {
		msg := infoLoadedMsg{info: project.Inspect(cfg.ProjectPath, cfg.Project.Markers)}
		if store != nil {
			msg.lastDeploy, _ = store.Last(history.KindDeploy)
			msg.lastBuild, _ = store.Last(history.KindBuild)
		}
		return msg
	}
}

// View renders the project view.
func (m *Model) View() string {
	if m.Width() == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderInfo(),
		app.BoxStyle.Width(m.Width()-2).Render(m.log.View()),
	)
}

func (m *Model) renderInfo() string {
	cfg := m.svc.Config()
	var b strings.Builder

	fmt.Fprintf(&b, "  %s %s\n", app.BoldStyle.Render("Project folder:"), m.info.Dir)
	if !m.info.Exists {
		b.WriteString("  " + app.ErrorStyle.Render("Folder does not exist. Run `shipctl init <path>`.") + "\n")
	} else {
		for i, line := range m.info.Lines() {
			b.WriteString("    " + app.MarkerStyle(m.info.Markers[i].Present).Render(line) + "\n")
		}
	}

	fmt.Fprintf(&b, "\n  %s %s up --service %s   %s %s\n",
		app.BoldStyle.Render("Deploy:"), cfg.Deploy.CLI, cfg.Deploy.Service,
		app.DimStyle.Render("last"), renderLast(m.lastDeploy))
	fmt.Fprintf(&b, "  %s %s → %s/   %s %s\n",
		app.BoldStyle.Render("Build:"), cfg.Build.Source, cfg.Build.DistDir,
		app.DimStyle.Render("last"), renderLast(m.lastBuild))

	if m.running {
		fmt.Fprintf(&b, "\n  %s %s running...\n", m.spinner.View(), m.runKind)
	}

	return b.String()
}

func renderLast(run *history.Run) string {
	if run == nil {
		return app.DimStyle.Render("never")
	}
	return app.RunStatusStyle(run.Success).Render(run.Status()) +
		app.DimStyle.Render(" "+utils.FormatTimeAgo(run.StartedAt))
}

// SetSize sets the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.BaseTab.SetSize(width, height)
	m.log.Width = width - 4
	m.log.Height = max(height-infoHeight-2, 3)
}

// Focus rescans when the tab becomes active.
func (m *Model) Focus() tea.Cmd {
	m.BaseTab.Focus()
	return m.loadInfo()
}

// KeyBindings returns the key bindings for this tab.
func (m *Model) KeyBindings() []key.Binding {
	if m.running {
		return []key.Binding{m.keys.Cancel, m.keys.Scroll}
	}
	return []key.Binding{m.keys.Deploy, m.keys.Build, m.keys.Rescan, m.keys.Clear, m.keys.Scroll}
}
