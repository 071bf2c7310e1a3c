package doctor

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// Platform constants.
const (
	PlatformDarwin  = "darwin"
	PlatformLinux   = "linux"
	PlatformWindows = "windows"
)

// fixCommands defines platform-specific fix commands for each tool.
var fixCommands = map[string]map[string]*FixCommand{
	IDRailway: {
		PlatformDarwin: {
			Description: "Install via Homebrew",
			Command:     "brew install railway",
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via npm",
			Command:     "npm install -g @railway/cli",
			Platform:    PlatformLinux,
		},
		PlatformWindows: {
			Description: "Install via npm",
			Command:     "npm install -g @railway/cli",
			Platform:    PlatformWindows,
		},
	},
	IDPython: {
		PlatformDarwin: {
			Description: "Install via Homebrew",
			Command:     "brew install python",
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via apt",
			Command:     "sudo apt install -y python3 python3-pip python-is-python3",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
		PlatformWindows: {
			Description: "Install via winget",
			Command:     "winget install -e --id Python.Python.3.12",
			Platform:    PlatformWindows,
		},
	},
	IDPip: {
		PlatformDarwin: {
			Description: "Bootstrap pip with ensurepip",
			Command:     "python3 -m ensurepip --upgrade",
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via apt",
			Command:     "sudo apt install -y python3-pip",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
		PlatformWindows: {
			Description: "Bootstrap pip with ensurepip",
			Command:     "python -m ensurepip --upgrade",
			Platform:    PlatformWindows,
		},
	},
	IDPyInstaller: {
		PlatformDarwin: {
			Description: "Install via pipx",
			Command:     "pipx install pyinstaller",
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via pip",
			Command:     "python3 -m pip install --user pyinstaller",
			Platform:    PlatformLinux,
		},
		PlatformWindows: {
			Description: "Install via pip",
			Command:     "python -m pip install pyinstaller",
			Platform:    PlatformWindows,
		},
	},
}

// GetFixCommand returns the fix command for a tool on the given platform.
func GetFixCommand(toolID, platform string) *FixCommand {
	toolFixes, ok := fixCommands[toolID]
	if !ok {
		return nil
	}

	fix, ok := toolFixes[platform]
	if !ok {
		return nil
	}

	return fix
}

// ShellCommand wraps a fix command line in the platform shell.
func ShellCommand(platform, line string) runner.Command {
	if platform == PlatformWindows {
		return runner.Command{Name: "cmd", Args: []string{"/C", line}}
	}
	return runner.Command{Name: "sh", Args: []string{"-c", line}}
}

// Fixer provides functionality to run fix commands.
type Fixer struct {
	executor runner.Executor
	platform string
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return NewFixerWithExecutor(&runner.RealExecutor{})
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(exec runner.Executor) *Fixer {
	return &Fixer{
		executor: exec,
		platform: runtime.GOOS,
	}
}

// SetPlatform overrides the platform used to pick the shell.
func (f *Fixer) SetPlatform(platform string) {
	f.platform = platform
}

// RunFix executes a fix command through the platform shell. Output lines go
// to onLine when it is non-nil; on failure the captured output is included
// in the error.
func (f *Fixer) RunFix(ctx context.Context, fix *FixCommand, onLine runner.LineHandler) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	var output []string
	cmd := ShellCommand(f.platform, fix.Command)
	res, err := f.executor.Run(ctx, cmd, func(line string) {
		output = append(output, line)
		if onLine != nil {
			onLine(line)
		}
	})
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}
	if !res.Success() {
		return fmt.Errorf("fix failed: %w\nOutput: %s",
			&runner.ExitError{Command: fix.Command, Code: res.ExitCode},
			strings.Join(output, "\n"))
	}

	return nil
}
