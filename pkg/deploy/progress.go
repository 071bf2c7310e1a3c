package deploy

import (
	"sync"
	"time"
)

// Stage represents a deployment or build stage.
type Stage string

const (
	StageValidating Stage = "validating"
	StageProbing    Stage = "probing"
	StageInstalling Stage = "installing"
	StageDeploying  Stage = "deploying"
	StageBuilding   Stage = "building"
	StageOutput     Stage = "output"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageProbing:
		return "Probing"
	case StageInstalling:
		return "Installing"
	case StageDeploying:
		return "Deploying"
	case StageBuilding:
		return "Building"
	case StageOutput:
		return "Output"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Stage     Stage     // Current stage
	Message   string    // Human-readable message
	Command   string    // Command being executed (e.g., "railway up --service fc-bot")
	Detail    string    // Additional detail or output
	IsError   bool      // True if this is an error message
	IsWarning bool      // True if this is a non-fatal problem
	Timestamp time.Time // When this event occurred
}

// NewProgressEvent creates a new progress event.
func NewProgressEvent(stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewProgressEventWithCommand creates a progress event with a command.
func NewProgressEventWithCommand(stage Stage, message, command string) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Message:   message,
		Command:   command,
		Timestamp: time.Now(),
	}
}

// NewOutputEvent wraps one line of tool output.
func NewOutputEvent(line string) ProgressEvent {
	return ProgressEvent{
		Stage:     StageOutput,
		Detail:    line,
		Timestamp: time.Now(),
	}
}

// NewWarningEvent creates a non-fatal warning event.
func NewWarningEvent(stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Message:   message,
		IsWarning: true,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates a new error progress event.
func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{
		Stage:     StageError,
		Message:   message,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// NewErrorEventWithDetail creates an error event with detail.
func NewErrorEventWithDetail(message, detail string) ProgressEvent {
	return ProgressEvent{
		Stage:     StageError,
		Message:   message,
		Detail:    detail,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// ProgressCallback is called with progress updates.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// OrNoOp returns cb, or NoOpProgress when cb is nil.
func OrNoOp(cb ProgressCallback) ProgressCallback {
	if cb == nil {
		return NoOpProgress
	}
	return cb
}

// ProgressTracker collects progress events for later review. It is safe to
// use from the goroutine streaming tool output.
type ProgressTracker struct {
	mu     sync.Mutex
	events []ProgressEvent
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		events: make([]ProgressEvent, 0),
	}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.mu.Lock()
		t.events = append(t.events, e)
		t.mu.Unlock()
	}
}

// Events returns a copy of all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ProgressEvent(nil), t.events...)
}

// LastEvent returns the most recent event, or nil if none.
func (t *ProgressTracker) LastEvent() *ProgressEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return nil
	}
	e := t.events[len(t.events)-1]
	return &e
}

// Messages returns the Message of every non-output event, in order.
func (t *ProgressTracker) Messages() []string {
	var msgs []string
	for _, e := range t.Events() {
		if e.Stage != StageOutput {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// HasErrors returns true if any error events were recorded.
func (t *ProgressTracker) HasErrors() bool {
	for _, e := range t.Events() {
		if e.IsError {
			return true
		}
	}
	return false
}

// Errors returns all error events.
func (t *ProgressTracker) Errors() []ProgressEvent {
	var errors []ProgressEvent
	for _, e := range t.Events() {
		if e.IsError {
			errors = append(errors, e)
		}
	}
	return errors
}
