package main

import (
	"fmt"
	"runtime"
)

// Process exit codes. A wrapped tool's own non-zero status is passed
// through as is.
const (
	ExitOK    = 0
	ExitError = 1
)

// statusError ends the process with code after the command has already
// printed its own message.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitWith returns nil for code 0 and a statusError otherwise. Codes a
// Unix process cannot exit with become ExitError.
func exitWith(code int) error {
	if code == ExitOK {
		return nil
	}
	if code < 0 || (code > 255 && runtime.GOOS != "windows") {
		code = ExitError
	}
	return &statusError{code: code}
}
