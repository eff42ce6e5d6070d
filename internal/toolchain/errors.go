package toolchain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInstalled indicates the tool could not be launched at all.
	ErrNotInstalled = errors.New("toolchain not installed")

	// ErrBroken indicates the tool launched but its version probe failed.
	ErrBroken = errors.New("toolchain install is broken")
)

// ExitError reports a tool command that ran and exited non-zero.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s command failed with exit code %d", e.Tool, e.Code)
}

// diagnosticError carries a user-facing availability message and the
// sentinel that classifies it.
type diagnosticError struct {
	msg  string
	kind error
}

func (e *diagnosticError) Error() string { return e.msg }

func (e *diagnosticError) Unwrap() error { return e.kind }
