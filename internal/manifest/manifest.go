package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
)

// Template is one user-facing entry of the manifest.
type Template struct {
	Index             int    `json:"-"` // position in the templates list
	Title             string `json:"title" validate:"required"`
	Weight            *int   `json:"weight" validate:"required"`
	ThumbnailImageURL string `json:"thumbnail_image_url" validate:"required,url"`
	RecipePath        string `json:"recipe_path" validate:"required"`
}

// InvalidEntry is a template entry whose fields have the wrong JSON types.
// It is reported as a finding and left out of the cross checks.
type InvalidEntry struct {
	Index int
	Err   error
}

// Manifest is the decoded templates manifest. Entries keeps each template
// as decoded JSON so it can be re-rendered with every original key.
type Manifest struct {
	Path      string
	Templates []Template
	Invalid   []InvalidEntry
	Entries   []map[string]any
}

type document struct {
	Templates []json.RawMessage `json:"templates"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, raw)
}

// Parse decodes manifest bytes. Only an unreadable document or a missing
// templates list is an error; badly typed entries are collected in Invalid.
func Parse(path string, raw []byte) (*Manifest, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid JSON", Cause: err}
	}
	if doc.Templates == nil {
		return nil, &LoadError{Path: path, Message: "missing 'templates' list"}
	}

	m := &Manifest{
		Path:      path,
		Templates: make([]Template, 0, len(doc.Templates)),
		Entries:   make([]map[string]any, 0, len(doc.Templates)),
	}
	for i, item := range doc.Templates {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil || entry == nil {
			m.Entries = append(m.Entries, nil)
			m.Invalid = append(m.Invalid, InvalidEntry{Index: i, Err: errors.New("entry is not a JSON object")})
			continue
		}
		m.Entries = append(m.Entries, entry)

		tmpl := Template{Index: i}
		if err := json.Unmarshal(item, &tmpl); err != nil {
			m.Invalid = append(m.Invalid, InvalidEntry{Index: i, Err: describeTypeError(err)})
			continue
		}
		m.Templates = append(m.Templates, tmpl)
	}
	return m, nil
}

// describeTypeError turns a decode error into a message naming the field.
func describeTypeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return err
	}
	want := typeErr.Type.String()
	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int64, reflect.Pointer:
		want = "an integer"
	case reflect.String:
		want = "a string"
	}
	return fmt.Errorf("%s must be %s, got %s", typeErr.Field, want, typeErr.Value)
}
