// Package manifest loads the templates manifest and checks it against the
// discovered example directories.
package manifest

import "fmt"

// LoadError means the manifest could not be read or decoded. It is fatal:
// no cross-validation can run without the manifest.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest error in %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("manifest error in %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
