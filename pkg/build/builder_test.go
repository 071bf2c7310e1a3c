package build

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

func testOptions() *Options {
	return &Options{
		Dir:            "/srv/bot",
		Source:         "cheshire_admin_gui.py",
		Packager:       "pyinstaller",
		ProbeArgs:      []string{"--help"},
		InstallCommand: []string{"python", "-m", "pip", "install", "pyinstaller"},
		NoConsole:      true,
		DistDir:        "dist",
	}
}

// probeExec returns a mock whose pyinstaller probe exits with probeCode and
// whose build exits with buildCode.
func probeExec(probeCode, buildCode int) *runner.MockExecutor {
	return &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			if cmd.Name == "pyinstaller" && len(cmd.Args) == 1 && cmd.Args[0] == "--help" {
				return runner.Result{ExitCode: probeCode}, nil
			}
			if cmd.Name == "pyinstaller" {
				if onLine != nil {
					onLine("INFO: Building EXE from EXE-00.toc completed successfully.")
				}
				return runner.Result{ExitCode: buildCode}, nil
			}
			return runner.Result{}, nil
		},
	}
}

func TestBuildArgs(t *testing.T) {
	opts := testOptions()
	assert.Equal(t, []string{"--onefile", "--noconsole", "cheshire_admin_gui.py"}, BuildArgs(opts))

	opts.NoConsole = false
	assert.Equal(t, []string{"--onefile", "cheshire_admin_gui.py"}, BuildArgs(opts))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "cheshire_admin_gui.exe", ArtifactName("cheshire_admin_gui.py", "windows"))
	assert.Equal(t, "cheshire_admin_gui", ArtifactName("cheshire_admin_gui.py", "linux"))
	assert.Equal(t, "tool", ArtifactName("scripts/tool.py", "darwin"))
}

func TestCompletionMessage(t *testing.T) {
	assert.Equal(t, "Done. Look in dist/ for app.exe", CompletionMessage("dist", "app.exe"))
}

func TestBuild_MissingSourceStopsEverything(t *testing.T) {
	exec := &runner.MockExecutor{
		FileExistsFunc: func(path string) bool { return false },
	}
	b := NewBuilderWithExecutor(exec, nil)
	tracker := deploy.NewProgressTracker()

	result, err := b.Build(context.Background(), testOptions(), tracker.Callback())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceMissing))
	assert.Nil(t, result)
	assert.Empty(t, exec.Calls, "no probe, install or build")
	require.True(t, tracker.HasErrors())
	assert.Equal(t, "Error: cheshire_admin_gui.py not found.", tracker.Errors()[0].Message)
}

func TestBuild_ChecksSourceRelativeToDir(t *testing.T) {
	var checked string
	exec := probeExec(0, 0)
	exec.FileExistsFunc = func(path string) bool {
		checked = path
		return true
	}
	b := NewBuilderWithExecutor(exec, nil)

	_, err := b.Build(context.Background(), testOptions(), nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/bot", "cheshire_admin_gui.py"), checked)
}

func TestBuild_ProbeSucceedsSkipsInstall(t *testing.T) {
	exec := probeExec(0, 0)
	b := NewBuilderWithExecutor(exec, nil)
	b.SetPlatform("windows")
	tracker := deploy.NewProgressTracker()

	result, err := b.Build(context.Background(), testOptions(), tracker.Callback())

	require.NoError(t, err)
	assert.Equal(t, []string{"pyinstaller", "pyinstaller"}, exec.CallNames(), "probe then build, no install")
	assert.True(t, result.ProbeOK)
	assert.False(t, result.Installed)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, filepath.Join("dist", "cheshire_admin_gui.exe"), result.Artifact)
	assert.Equal(t, "pyinstaller --onefile --noconsole cheshire_admin_gui.py", result.Command)
	assert.NoError(t, result.Err())

	last := tracker.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, "Done. Look in dist/ for cheshire_admin_gui.exe", last.Message)
}

func TestBuild_ProbeFailsInstallsBeforeBuild(t *testing.T) {
	exec := probeExec(1, 0)
	b := NewBuilderWithExecutor(exec, nil)

	result, err := b.Build(context.Background(), testOptions(), nil)

	require.NoError(t, err)
	require.Len(t, exec.Calls, 3)
	assert.Equal(t, "pyinstaller", exec.Calls[0].Name)
	assert.Equal(t, []string{"--help"}, exec.Calls[0].Args)
	assert.Equal(t, "python", exec.Calls[1].Name)
	assert.Equal(t, []string{"-m", "pip", "install", "pyinstaller"}, exec.Calls[1].Args)
	assert.Equal(t, "pyinstaller", exec.Calls[2].Name)
	assert.Equal(t, []string{"--onefile", "--noconsole", "cheshire_admin_gui.py"}, exec.Calls[2].Args)

	assert.False(t, result.ProbeOK)
	assert.True(t, result.Installed)
	assert.True(t, result.Success)
}

func TestBuild_PackagerNotOnPathInstalls(t *testing.T) {
	exec := probeExec(0, 0)
	exec.LookPathFunc = func(file string) (string, error) {
		return "", runner.ErrNotFound
	}
	b := NewBuilderWithExecutor(exec, nil)

	result, err := b.Build(context.Background(), testOptions(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"python", "pyinstaller"}, exec.CallNames(), "probe short-circuits on LookPath")
	assert.False(t, result.ProbeOK)
	assert.True(t, result.Installed)
}

func TestBuild_InstallFailureStillBuildsOnce(t *testing.T) {
	exec := &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			switch {
			case cmd.Name == "python":
				return runner.Result{ExitCode: 1}, nil
			case len(cmd.Args) == 1:
				return runner.Result{ExitCode: 127}, nil
			default:
				return runner.Result{ExitCode: 0}, nil
			}
		},
	}
	b := NewBuilderWithExecutor(exec, nil)
	tracker := deploy.NewProgressTracker()

	result, err := b.Build(context.Background(), testOptions(), tracker.Callback())

	require.NoError(t, err)
	builds := 0
	for _, c := range exec.Calls {
		if c.Name == "pyinstaller" && len(c.Args) > 1 {
			builds++
		}
	}
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, result.InstallExitCode)
	assert.Contains(t, tracker.Messages(), "Install exited with code 1")
}

func TestBuild_SkipInstall(t *testing.T) {
	exec := probeExec(1, 0)
	b := NewBuilderWithExecutor(exec, nil)
	opts := testOptions()
	opts.SkipInstall = true

	result, err := b.Build(context.Background(), opts, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"pyinstaller", "pyinstaller"}, exec.CallNames())
	assert.False(t, result.Installed)
}

func TestBuild_FailureReportsExitCode(t *testing.T) {
	exec := probeExec(0, 2)
	b := NewBuilderWithExecutor(exec, nil)
	tracker := deploy.NewProgressTracker()

	result, err := b.Build(context.Background(), testOptions(), tracker.Callback())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.BuildExitCode)
	assert.Equal(t, 2, runner.ExitCodeOf(result.Err()))
	assert.Equal(t, "Build failed (exit code 2).", tracker.LastEvent().Message)
}

func TestBuild_PackagerCannotStart(t *testing.T) {
	exec := &runner.MockExecutor{
		RunFunc: func(ctx context.Context, cmd runner.Command, onLine runner.LineHandler) (runner.Result, error) {
			if cmd.Name == "pyinstaller" && len(cmd.Args) > 1 {
				return runner.Result{ExitCode: -1}, runner.ErrNotFound
			}
			return runner.Result{}, nil
		},
	}
	b := NewBuilderWithExecutor(exec, nil)

	result, err := b.Build(context.Background(), testOptions(), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, runner.ErrNotFound))
	require.NotNil(t, result)
	assert.False(t, result.Success)
}

func TestBuild_InvalidOptions(t *testing.T) {
	b := NewBuilderWithExecutor(&runner.MockExecutor{}, nil)

	_, err := b.Build(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = b.Build(context.Background(), &Options{Packager: "pyinstaller"}, nil)
	assert.Error(t, err)
}
