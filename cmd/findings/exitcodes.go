package main

import "fmt"

// Exit codes for the findings CLI.
const (
	ExitOK      = 0
	ExitError   = 1 // Invalid arguments, bad configuration or a failed server.
	ExitInvalid = 2 // The CSV given to validate was rejected.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	return e.msg
}

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
