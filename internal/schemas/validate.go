// Package schemas provides JSON Schema validation for recipe documents.
package schemas

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/saturncloud/examples/internal/fetch"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (fe FieldError) String() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Schema is a compiled JSON Schema. It is immutable once compiled and
// safe for concurrent validation.
type Schema struct {
	source   string
	compiled *gojsonschema.Schema
}

// Source returns where the schema was loaded from.
func (s *Schema) Source() string {
	return s.source
}

// Compile compiles raw schema bytes. source is used in error messages.
func Compile(source string, raw []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    source,
			Message: "schema failed to compile",
			Cause:   err,
		}
	}
	return &Schema{source: source, compiled: compiled}, nil
}

// Fetch downloads and compiles the schema at schemaURL.
// Callers fetch once per run and share the result.
func Fetch(ctx context.Context, schemaURL string, opts *fetch.Options) (*Schema, error) {
	log.Printf("[SCHEMA] Fetching %s", schemaURL)
	result, err := fetch.URL(ctx, schemaURL, opts)
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    schemaURL,
			Message: "schema download failed",
			Cause:   err,
		}
	}
	return Compile(schemaURL, result.Body)
}

// Load reads and compiles a schema from a local file.
func Load(path string) (*Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path: %w", err)
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    absPath,
			Message: "schema file could not be read",
			Cause:   err,
		}
	}
	return Compile(absPath, raw)
}

// Validate validates a JSON document. It returns nil when the document is valid,
// a *ValidationError listing every failing field, or an error when the
// document is not JSON at all.
func (s *Schema) Validate(doc []byte) error {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toValidationError(result)
}

// toValidationError builds the structured error for an invalid result.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
