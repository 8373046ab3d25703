package examples

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/saturncloud/examples/internal/naming"
	"github.com/saturncloud/examples/internal/recipe"
)

// UpdateReferences points the git repositories of every example recipe below
// examplesDir at ref and sets the recipe version from it. An empty ref removes
// both. Examples without a recipe are skipped. It returns the rewritten paths.
func UpdateReferences(examplesDir, ref string) ([]string, error) {
	entries, err := os.ReadDir(examplesDir)
	if err != nil {
		return nil, &SetupError{Path: examplesDir, Message: "examples directory could not be read", Cause: err}
	}

	var updated []string
	for _, e := range entries {
		if naming.Hidden(e.Name()) || !isDir(filepath.Join(examplesDir, e.Name()), e) {
			continue
		}
		path := filepath.Join(examplesDir, e.Name(), recipe.DirName, recipe.FileName)
		r, err := recipe.Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("[EXAMPLES] Skipping %s: no recipe", e.Name())
				continue
			}
			return updated, err
		}

		r.SetReference(ref)
		data, err := r.Marshal()
		if err != nil {
			return updated, fmt.Errorf("failed to encode %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return updated, fmt.Errorf("failed to write %s: %w", path, err)
		}
		updated = append(updated, path)
	}
	return updated, nil
}
