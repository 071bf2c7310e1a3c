package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

func TestNewFixer(t *testing.T) {
	fixer := NewFixer()
	assert.NotNil(t, fixer)
	assert.NotNil(t, fixer.executor)
}

func TestGetFixCommand(t *testing.T) {
	for _, id := range []string{IDRailway, IDPython, IDPip, IDPyInstaller} {
		for _, platform := range []string{PlatformDarwin, PlatformLinux, PlatformWindows} {
			fix := GetFixCommand(id, platform)
			require.NotNil(t, fix, "%s on %s", id, platform)
			assert.Equal(t, platform, fix.Platform)
			assert.NotEmpty(t, fix.Command)
		}
	}

	assert.Nil(t, GetFixCommand("unknown", PlatformLinux))
	assert.Nil(t, GetFixCommand(IDRailway, "plan9"))
}

func TestShellCommand(t *testing.T) {
	unix := ShellCommand(PlatformLinux, "echo hi")
	assert.Equal(t, "sh", unix.Name)
	assert.Equal(t, []string{"-c", "echo hi"}, unix.Args)

	win := ShellCommand(PlatformWindows, "echo hi")
	assert.Equal(t, "cmd", win.Name)
	assert.Equal(t, []string{"/C", "echo hi"}, win.Args)
}

func TestFixer_RunFix_Success(t *testing.T) {
	mockExec := &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			onLine("hello")
			return runner.Result{}, nil
		},
	}
	fixer := NewFixerWithExecutor(mockExec)
	fixer.SetPlatform(PlatformLinux)

	var lines []string
	err := fixer.RunFix(context.Background(), &FixCommand{Command: "echo hello"}, func(l string) {
		lines = append(lines, l)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, lines)
	require.Len(t, mockExec.Calls, 1)
	assert.Equal(t, "sh", mockExec.Calls[0].Name)
	assert.Equal(t, []string{"-c", "echo hello"}, mockExec.Calls[0].Args)
}

func TestFixer_RunFix_NonZeroExit(t *testing.T) {
	mockExec := &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			onLine("npm ERR! code EACCES")
			return runner.Result{ExitCode: 243}, nil
		},
	}
	fixer := NewFixerWithExecutor(mockExec)

	err := fixer.RunFix(context.Background(), &FixCommand{Command: "npm install -g @railway/cli"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fix failed")
	assert.Contains(t, err.Error(), "npm ERR! code EACCES")
	assert.Equal(t, 243, runner.ExitCodeOf(err))
}

func TestFixer_RunFix_CannotStart(t *testing.T) {
	mockExec := &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			return runner.Result{ExitCode: -1}, runner.ErrNotFound
		},
	}
	fixer := NewFixerWithExecutor(mockExec)

	err := fixer.RunFix(context.Background(), &FixCommand{Command: "brew install railway"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, runner.ErrNotFound)
}

func TestFixer_RunFix_NilFix(t *testing.T) {
	fixer := NewFixerWithExecutor(&runner.MockExecutor{})

	err := fixer.RunFix(context.Background(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fix command available")
}
