package doctor

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/shipctl/pkg/app"
	"github.com/jaspreet-dot-casa/shipctl/pkg/doctor"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// newTestModel returns a model where only railway and python are installed.
func newTestModel(t *testing.T) (*Model, *runner.MockExecutor) {
	t.Helper()
	installed := map[string]string{
		"railway": "railway 3.11.0",
		"python":  "Python 3.12.1",
	}
	exec := &runner.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if _, ok := installed[file]; ok {
				return "/usr/bin/" + file, nil
			}
			return "", runner.ErrNotFound
		},
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			bin := cmd.Name[strings.LastIndex(cmd.Name, "/")+1:]
			if onLine != nil {
				onLine(installed[bin])
			}
			return runner.Result{}, nil
		},
	}

	checker := doctor.NewCheckerWithExecutor(exec)
	checker.SetPlatform(doctor.PlatformLinux)
	fixer := doctor.NewFixerWithExecutor(exec)
	fixer.SetPlatform(doctor.PlatformLinux)

	m := NewWithChecker(checker, fixer)
	m.SetSize(100, 30)
	m.Update(m.loadChecks()())
	return m, exec
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadsChecks(t *testing.T) {
	m, _ := newTestModel(t)

	assert.False(t, m.loading)
	require.Len(t, m.groups, 2)

	view := m.View()
	assert.Contains(t, view, "Deploy")
	assert.Contains(t, view, "Build")
	assert.Contains(t, view, "3.11.0")
	assert.Contains(t, view, "not installed")

	sel := m.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, doctor.IDRailway, sel.ID)
}

func TestModel_CursorSkipsGroupHeaders(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(press("down"))
	assert.Equal(t, doctor.IDPython, m.Selected().ID)

	m.Update(press("k"))
	m.Update(press("k"))
	assert.Equal(t, doctor.IDRailway, m.Selected().ID, "cursor stays on first check")
}

func TestModel_EnterOnInstalledTool(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(press("enter"))

	assert.False(t, m.showDialog)
	assert.Contains(t, m.View(), "already installed")
}

func TestModel_FixDialogRun(t *testing.T) {
	m, exec := newTestModel(t)
	for i := 0; i < 3; i++ {
		m.Update(press("down"))
	}
	require.Equal(t, doctor.IDPyInstaller, m.Selected().ID)

	m.Update(press("enter"))
	require.True(t, m.showDialog)
	assert.True(t, m.HasFocusedInput())
	assert.Contains(t, m.View(), "pip install --user pyinstaller")
	assert.Contains(t, m.View(), "Run")

	_, cmd := m.Update(press("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.dialogRunning)

	calls := len(exec.Calls)
	msg := m.runFix()()
	require.Len(t, exec.Calls, calls+1)
	assert.Equal(t, "sh", exec.Calls[calls].Name)

	_, cmd = m.Update(msg)
	assert.False(t, m.dialogRunning)
	assert.Equal(t, "Fix completed successfully!", m.dialogMessage)
	assert.NotNil(t, cmd, "checks reload after a fix")
}

func TestModel_FixFailureShownInDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m.showDialog = true
	m.dialogRunning = true

	m.Update(fixResultMsg{checkID: doctor.IDPip, err: errors.New("boom")})

	assert.False(t, m.dialogRunning)
	assert.Equal(t, "Fix failed: boom", m.dialogMessage)
}

func TestModel_DialogCancel(t *testing.T) {
	m, exec := newTestModel(t)
	m.Update(press("down"))
	m.Update(press("down"))
	require.Equal(t, doctor.IDPip, m.Selected().ID)

	m.Update(press("enter"))
	require.True(t, m.showDialog)

	calls := len(exec.Calls)
	m.Update(press("left"))
	_, cmd := m.Update(press("enter"))

	assert.Nil(t, cmd)
	assert.False(t, m.showDialog)
	assert.Len(t, exec.Calls, calls)

	m.Update(press("enter"))
	m.Update(press("esc"))
	assert.False(t, m.showDialog)
}

func TestModel_KeyBindings(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, app.HelpText(m.KeyBindings()), "r refresh")

	m.showDialog = true
	assert.Contains(t, app.HelpText(m.KeyBindings()), "esc close")
}
