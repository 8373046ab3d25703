// Package examples walks the examples tree and runs every check against it.
package examples

import "fmt"

// SetupError means a run could not start, e.g. the examples root is missing.
// Setup errors abort the run instead of becoming findings.
type SetupError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SetupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("setup error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("setup error for %s: %s", e.Path, e.Message)
}

func (e *SetupError) Unwrap() error {
	return e.Cause
}
