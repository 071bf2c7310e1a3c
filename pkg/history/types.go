// Package history keeps a small on-disk log of deploy and build runs.
package history

import (
	"fmt"
	"time"
)

// Version is the current history file schema version.
const Version = "1.0"

// MaxRuns is the maximum number of runs kept on disk.
const MaxRuns = 100

// Kind identifies which helper produced a run.
type Kind string

const (
	KindDeploy Kind = "deploy"
	KindBuild  Kind = "build"
)

// Run is one completed deploy or build attempt.
type Run struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Dir       string        `json:"dir"`
	Command   string        `json:"command"`
	ExitCode  int           `json:"exit_code"`
	Success   bool          `json:"success"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Status returns "ok" or "exit N".
func (r Run) Status() string {
	if r.Success {
		return "ok"
	}
	return fmt.Sprintf("exit %d", r.ExitCode)
}

// File is the on-disk representation of the history.
type File struct {
	Version string `json:"version"`
	Runs    []Run  `json:"runs"` // Oldest first
}

// NewFile creates an empty history file.
func NewFile() *File {
	return &File{
		Version: Version,
		Runs:    []Run{},
	}
}
