// Package doctor checks that the deploy and build tools shipctl wraps are
// installed, and knows how to install the ones that are not.
package doctor

// CheckStatus is the outcome of one tool check.
type CheckStatus int

const (
	StatusOK      CheckStatus = iota // Found and the version probe passed
	StatusMissing                    // Not on PATH
	StatusError                      // Found but could not be run
	StatusWarning                    // Found, version probe exited non-zero
)

var statusNames = map[CheckStatus]string{
	StatusOK:      "ok",
	StatusMissing: "missing",
	StatusError:   "error",
	StatusWarning: "warning",
}

func (s CheckStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Mark returns the one-character symbol used in listings.
func (s CheckStatus) Mark() string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusMissing:
		return "✗"
	case StatusWarning:
		return "⚠"
	default:
		return "!"
	}
}

// Check is the result of checking one tool.
type Check struct {
	ID          string
	Name        string
	Description string
	Status      CheckStatus
	Message     string      // Version, or why the check failed
	Path        string      // Resolved executable, "" when missing
	FixCommand  *FixCommand // nil when shipctl cannot install the tool
}

// FixCommand is a shell line that installs a tool on one platform.
type FixCommand struct {
	Description string
	Command     string
	Sudo        bool
	Platform    string
}

// CheckGroup holds the checks one shipctl command depends on.
type CheckGroup struct {
	ID          string
	Name        string
	Description string
	Platform    string // "" for all platforms
	Checks      []Check
}

// Group IDs.
const (
	GroupDeploy = "deploy"
	GroupBuild  = "build"
)

// Tool IDs.
const (
	IDRailway     = "railway"
	IDPython      = "python"
	IDPip         = "pip"
	IDPyInstaller = "pyinstaller"
)
