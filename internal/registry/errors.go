// Package registry checks that container images exist in a registry
// using the token-exchange and manifest-lookup protocol.
package registry

import "fmt"

// AuthError means the token endpoint refused or could not be read.
// The existence check cannot proceed without a token.
type AuthError struct {
	Image   string
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("registry auth error for %s: %s: %v", e.Image, e.Message, e.Cause)
	}
	return fmt.Sprintf("registry auth error for %s: %s", e.Image, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// TransportError means the registry could not be reached at all,
// as opposed to answering that an image does not exist.
type TransportError struct {
	Image   string
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("registry unreachable for %s: %s: %v", e.Image, e.Message, e.Cause)
	}
	return fmt.Sprintf("registry unreachable for %s: %s", e.Image, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ReferenceError means an image reference could not be parsed as name:tag.
type ReferenceError struct {
	Reference string
	Message   string
	Cause     error
}

func (e *ReferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid image reference %q: %s: %v", e.Reference, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid image reference %q: %s", e.Reference, e.Message)
}

func (e *ReferenceError) Unwrap() error {
	return e.Cause
}
