package main

import "fmt"

// Exit codes for kpimatrix CLI.
const (
	ExitOK             = 0 // Every table converted.
	ExitInvalidArgs    = 1 // Invalid arguments, config or settings.
	ExitPartialFailure = 2 // Some tables failed, partial output written.
	ExitTotalFailure   = 3 // No output produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "kpimatrix: some tables failed to convert"
		case ExitTotalFailure:
			msg = "kpimatrix: all tables failed to convert"
		default:
			msg = "kpimatrix: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
