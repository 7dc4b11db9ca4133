// Package errors defines the stable error code system for tinman.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract: scripts may match on these.
const (
	EUsage Code = "E_USAGE"

	// Configuration errors. Fatal to the run that hit them; no log entry
	// is written because there is no trusted log target yet.
	EInvalidConfig Code = "E_INVALID_CONFIG"

	// Checklist errors. The checklist file exists but cannot be read.
	EChecklistUnreadable Code = "E_CHECKLIST_UNREADABLE"

	// Scheduler errors. Fatal to install/uninstall/status commands only;
	// heartbeat runs never see them.
	ESchedulerFailed     Code = "E_SCHEDULER_FAILED"
	EUnsupportedPlatform Code = "E_UNSUPPORTED_PLATFORM"

	// Heartbeat outcome used by single-shot mode to signal a bad beat
	// (agent_error / timeout) through the process exit code.
	EHeartbeatFailed Code = "E_HEARTBEAT_FAILED"

	EInternal Code = "E_INTERNAL"
)

// TinManError is the standard error type for tinman errors.
type TinManError struct {
	Code  Code
	Msg   string
	Cause error
}

// Error returns the stable error format: "CODE: message".
func (e *TinManError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *TinManError) Unwrap() error {
	return e.Cause
}

// ExitCodeError wraps an error with an explicit process exit code.
type ExitCodeError struct {
	Err  error
	Code int
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func (e *ExitCodeError) ExitCode() int {
	return e.Code
}

// WithExitCode wraps err with a specific process exit code.
func WithExitCode(err error, code int) error {
	return &ExitCodeError{Err: err, Code: code}
}

// New creates a new TinManError with the given code and message.
func New(code Code, msg string) error {
	return &TinManError{Code: code, Msg: msg}
}

// Wrap creates a new TinManError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &TinManError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not a TinManError.
func GetCode(err error) Code {
	var te *TinManError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		return ec.ExitCode()
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var te *TinManError
	if errors.As(err, &te) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", te.Code)
		_, _ = fmt.Fprintln(w, te.Msg)
		if te.Cause != nil {
			_, _ = fmt.Fprintf(w, "cause: %v\n", te.Cause)
		}
	} else {
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
