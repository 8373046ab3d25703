// Package recipe parses per-example recipe documents and checks them
// against the JSON Schema and the business rules the schema cannot express.
package recipe

import "fmt"

// ParseError represents a recipe document that is not a JSON object.
type ParseError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("recipe parse error in %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("recipe parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
