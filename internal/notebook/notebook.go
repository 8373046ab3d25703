// Package notebook inspects Jupyter notebooks committed as examples.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
)

// Extension identifies notebook files.
const Extension = ".ipynb"

// Notebook is the subset of nbformat the checks need.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Cell is a single notebook cell.
type Cell struct {
	CellType       string            `json:"cell_type"`
	Source         Source            `json:"source"`
	Outputs        []json.RawMessage `json:"outputs,omitempty"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
}

// Source holds cell source lines. nbformat allows either a single string or
// a list of strings; both decode to lines that already carry their newlines.
type Source []string

// UnmarshalJSON accepts a string or an array of strings.
func (s *Source) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = lines
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("cell source must be a string or list of strings: %w", err)
	}
	*s = Source{text}
	return nil
}

// IsCode reports whether the cell is executable code.
func (c Cell) IsCode() bool {
	return c.CellType == "code"
}

// Dirty reports whether the cell carries execution state.
func (c Cell) Dirty() bool {
	return len(c.Outputs) > 0 || (c.ExecutionCount != nil && *c.ExecutionCount != 0)
}

// Parse decodes notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, err
	}
	return &nb, nil
}

// Load reads and decodes a notebook file.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
