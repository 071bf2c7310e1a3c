// Package deploy provides the deploy helper abstraction: enter the project
// folder, run a deployment CLI once, report its exit status.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// ErrProjectDir is returned when the project directory cannot be entered.
// The deployment CLI is never invoked in that case.
var ErrProjectDir = errors.New("could not enter project directory")

// Messages printed after the deployment CLI exits.
const (
	MessageSuccess = "Deploy succeeded."
	MessageFailure = "Deploy failed (exit code %d)."
)

// Options contains configuration for one deployment.
type Options struct {
	ProjectDir string   // Working directory for the deployment CLI
	Service    string   // Remote service identifier
	CLI        string   // Deployment CLI executable
	ExtraArgs  []string // Appended after the service arguments
	Env        []string // Full environment for the CLI; nil inherits
}

// Result represents the outcome of a deployment.
type Result struct {
	RunID    string
	Success  bool
	ExitCode int
	Command  string
	Duration time.Duration
	Logs     []string // Captured output lines
}

// Message returns the operator-facing outcome line.
func (r *Result) Message() string {
	if r.Success {
		return MessageSuccess
	}
	return fmt.Sprintf(MessageFailure, r.ExitCode)
}

// Err returns a *runner.ExitError for a failed deployment, nil otherwise.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return &runner.ExitError{Command: r.Command, Code: r.ExitCode}
}

// Deployer executes a deployment.
type Deployer interface {
	// Name returns a human-readable name for the deployer.
	Name() string

	// Validate checks if deployment can proceed with the given options.
	Validate(opts *Options) error

	// Deploy runs the deployment once with progress updates. A non-zero
	// exit status is reported in Result, not as an error.
	Deploy(ctx context.Context, opts *Options, progress ProgressCallback) (*Result, error)
}
