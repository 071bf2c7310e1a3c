package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{
			name:     "plain args",
			cmd:      Command{Name: "railway", Args: []string{"up", "--service", "fc-bot"}},
			expected: "railway up --service fc-bot",
		},
		{
			name:     "arg with space",
			cmd:      Command{Name: "pyinstaller", Args: []string{"--onefile", "my app.py"}},
			expected: `pyinstaller --onefile "my app.py"`,
		},
		{
			name:     "empty arg",
			cmd:      Command{Name: "echo", Args: []string{""}},
			expected: `echo ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cmd.String())
		})
	}
}

func TestRealExecutor_Run_StreamsMergedOutput(t *testing.T) {
	skipWithoutShell(t)

	var lines []string
	exec := &RealExecutor{}
	res, err := exec.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo one; echo two 1>&2; printf three"},
	}, func(line string) {
		lines = append(lines, line)
	})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
	assert.ElementsMatch(t, []string{"one", "two", "three"}, lines)
}

func TestRealExecutor_Run_NonZeroExitIsNotAnError(t *testing.T) {
	skipWithoutShell(t)

	exec := &RealExecutor{}
	res, err := exec.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
}

func TestRealExecutor_Run_UsesDir(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644))

	var lines []string
	exec := &RealExecutor{}
	res, err := exec.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "ls"},
		Dir:  dir,
	}, func(line string) { lines = append(lines, line) })

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, lines, "marker.txt")
}

func TestRealExecutor_Run_NotFound(t *testing.T) {
	exec := &RealExecutor{}
	res, err := exec.Run(context.Background(), Command{Name: "shipctl-definitely-not-a-tool"}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, -1, res.ExitCode)
}

func TestRealExecutor_Run_Cancelled(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &RealExecutor{}
	_, err := exec.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRealExecutor_FileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bot.py")
	require.NoError(t, os.WriteFile(file, []byte("print()"), 0644))

	exec := &RealExecutor{}

	assert.True(t, exec.FileExists(file))
	assert.False(t, exec.FileExists(dir))
	assert.False(t, exec.FileExists(filepath.Join(dir, "missing.py")))

	assert.True(t, exec.DirExists(dir))
	assert.False(t, exec.DirExists(file))
	assert.False(t, exec.DirExists(filepath.Join(dir, "nope")))
}

func TestRealExecutor_LookPath_Missing(t *testing.T) {
	exec := &RealExecutor{}
	_, err := exec.LookPath("shipctl-definitely-not-a-tool")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, 0, ExitCodeOf(nil))
	assert.Equal(t, 1, ExitCodeOf(errors.New("boom")))
	assert.Equal(t, 7, ExitCodeOf(&ExitError{Command: "railway up", Code: 7}))

	wrapped := errors.Join(errors.New("deploy"), &ExitError{Command: "railway up", Code: 42})
	assert.Equal(t, 42, ExitCodeOf(wrapped))

	assert.Equal(t, 1, ExitCodeOf(&ExitError{Command: "railway up", Code: -1}), "no usable status")
}

func TestExitError_Error(t *testing.T) {
	err := &ExitError{Command: "pyinstaller --onefile app.py", Code: 2}
	assert.Equal(t, "pyinstaller --onefile app.py exited with code 2", err.Error())
}

func TestMockExecutor_RecordsCalls(t *testing.T) {
	m := &MockExecutor{}

	_, _ = m.Run(context.Background(), Command{Name: "a"}, nil)
	_, _ = m.Run(context.Background(), Command{Name: "b"}, nil)

	assert.Equal(t, []string{"a", "b"}, m.CallNames())
}

func TestRealExecutor_Run_KilledBySignal(t *testing.T) {
	skipWithoutShell(t)

	exec := &RealExecutor{}
	res, err := exec.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "kill -KILL $$"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, 128+9, res.ExitCode)
	assert.False(t, res.Success())
}

func TestRealExecutor_Run_CancelTerminatesTool(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lines []string
	script := `trap 'echo stopping; exit 3' TERM; echo ready; while :; do sleep 0.1; done`
	exec := &RealExecutor{}
	res, err := exec.Run(ctx, Command{Name: "sh", Args: []string{"-c", script}}, func(line string) {
		lines = append(lines, line)
		if line == "ready" {
			cancel()
		}
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"ready", "stopping"}, lines)
	assert.Equal(t, 3, res.ExitCode)
}
