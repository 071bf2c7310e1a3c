package doctor

import (
	"context"
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

var defaultVersionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)

// toolSpec describes how to find and version one tool.
type toolSpec struct {
	id           string
	name         string
	desc         string
	binaries     []string // Candidates tried in order with LookPath
	versionArgs  []string
	versionRegex *regexp.Regexp
}

var toolSpecs = map[string]toolSpec{
	IDRailway: {
		id:           IDRailway,
		name:         "Railway CLI",
		desc:         "Deploys the bot service",
		binaries:     []string{"railway"},
		versionArgs:  []string{"--version"},
		versionRegex: regexp.MustCompile(`railway(?:app)?\s+v?(\d+\.\d+\.\d+)`),
	},
	IDPython: {
		id:           IDPython,
		name:         "Python",
		desc:         "Runs pip and the packaging tool",
		binaries:     []string{"python", "python3", "py"},
		versionArgs:  []string{"--version"},
		versionRegex: regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`),
	},
	IDPip: {
		id:           IDPip,
		name:         "pip",
		desc:         "Installs the packaging tool",
		binaries:     []string{"pip", "pip3"},
		versionArgs:  []string{"--version"},
		versionRegex: regexp.MustCompile(`pip\s+(\d+\.\d+(?:\.\d+)?)`),
	},
	IDPyInstaller: {
		id:          IDPyInstaller,
		name:        "PyInstaller",
		desc:        "Bundles a script into one executable",
		binaries:    []string{"pyinstaller"},
		versionArgs: []string{"--version"},
	},
}

// checkTool checks if a tool is installed and gets its version.
func checkTool(ctx context.Context, exec runner.Executor, tool toolSpec, fixCmd *FixCommand) Check {
	check := Check{
		ID:          tool.id,
		Name:        tool.name,
		Description: tool.desc,
		FixCommand:  fixCmd,
	}

	var path string
	for _, bin := range tool.binaries {
		if p, err := exec.LookPath(bin); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}
	check.Path = path

	var out strings.Builder
	res, err := exec.Run(ctx, runner.Command{Name: path, Args: tool.versionArgs}, func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
	})
	if err != nil {
		check.Status = StatusError
		check.Message = "found but could not run: " + err.Error()
		return check
	}
	if !res.Success() {
		// Tool exists but the version probe failed; the build helper would
		// treat this as missing and reinstall.
		check.Status = StatusWarning
		check.Message = "installed (version check failed)"
		return check
	}

	check.Status = StatusOK
	if version := extractVersion(out.String(), tool.versionRegex); version != "" {
		check.Message = version
	} else {
		check.Message = "installed"
	}
	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = defaultVersionRegex
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckRailway checks if the Railway CLI is installed.
func CheckRailway(ctx context.Context, exec runner.Executor, platform string) Check {
	return checkTool(ctx, exec, toolSpecs[IDRailway], GetFixCommand(IDRailway, platform))
}

// CheckPython checks if a Python interpreter is installed.
func CheckPython(ctx context.Context, exec runner.Executor, platform string) Check {
	return checkTool(ctx, exec, toolSpecs[IDPython], GetFixCommand(IDPython, platform))
}

// CheckPip checks if pip is installed.
func CheckPip(ctx context.Context, exec runner.Executor, platform string) Check {
	return checkTool(ctx, exec, toolSpecs[IDPip], GetFixCommand(IDPip, platform))
}

// CheckPyInstaller checks if PyInstaller is installed.
func CheckPyInstaller(ctx context.Context, exec runner.Executor, platform string) Check {
	return checkTool(ctx, exec, toolSpecs[IDPyInstaller], GetFixCommand(IDPyInstaller, platform))
}
