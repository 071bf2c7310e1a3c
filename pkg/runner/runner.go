// Package runner executes the external tools shipctl wraps.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"
)

// StopGrace is how long a cancelled tool gets to exit after SIGTERM before
// it is killed.
const StopGrace = 5 * time.Second

// ErrNotFound is returned when the requested executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// Command describes one external process invocation.
type Command struct {
	Name string   // Executable name or path
	Args []string // Arguments, not including Name
	Dir  string   // Working directory ("" = current)
	Env  []string // Full environment; nil inherits the parent's
}

// String renders the command as it would be typed in a shell.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Result describes a finished process.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// LineHandler receives process output one line at a time.
type LineHandler func(line string)

// Executor is an interface for executing commands, allowing for testing.
type Executor interface {
	LookPath(file string) (string, error)
	// Run starts the command and waits for it. A non-zero exit status is
	// reported in Result, not as an error.
	Run(ctx context.Context, cmd Command, onLine LineHandler) (Result, error)
	FileExists(path string) bool
	DirExists(path string) bool
}

// RealExecutor is the default executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	return path, nil
}

// Run executes a command with stderr merged into stdout, delivering every
// line to onLine in order.
func (e *RealExecutor) Run(ctx context.Context, c Command, onLine LineHandler) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}
	cmd.Cancel = func() error { return stop(cmd.Process) }
	cmd.WaitDelay = StopGrace

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanLines(pr, onLine)
	}()

	start := time.Now()
	err := cmd.Run()
	_ = pw.Close()
	wg.Wait()

	res := Result{Duration: time.Since(start)}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	exited := errors.As(err, &exitErr)

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if exited {
			res.ExitCode = exitStatus(exitErr)
		}
		return res, fmt.Errorf("%s: %w", c.Name, ctxErr)
	}

	if exited {
		res.ExitCode = exitStatus(exitErr)
		return res, nil
	}

	res.ExitCode = -1
	if errors.Is(err, exec.ErrNotFound) {
		return res, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	}
	return res, fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// stop asks a cancelled tool to exit. Windows has no SIGTERM, so the
// process is killed outright there.
func stop(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}

// exitStatus returns the status of a finished process. A process killed by
// a signal reports 128 plus the signal number, as shells do.
func exitStatus(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}

// scanLines reads r until EOF. A trailing line without a newline is still
// delivered.
func scanLines(r io.ReadCloser, onLine LineHandler) {
	defer r.Close()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 && onLine != nil {
			onLine(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			// Drain so the writer never blocks.
			_, _ = io.Copy(io.Discard, reader)
			return
		}
	}
}

// FileExists checks if a regular file exists.
func (e *RealExecutor) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists checks if a directory exists and can be listed.
func (e *RealExecutor) DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// ExitError is the error form of a wrapped tool's non-zero exit status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// ExitCodeOf extracts a process exit code from err. It returns 0 for a nil
// error and 1 when err carries no usable exit status.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}

	var shipErr *ExitError
	if errors.As(err, &shipErr) && shipErr.Code > 0 {
		return shipErr.Code
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitStatus(exitErr); code > 0 {
			return code
		}
	}

	return 1
}
