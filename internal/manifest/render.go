package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/saturncloud/examples/internal/recipe"
)

// DefaultRepoSlug identifies the examples repository in recipe git URLs.
const DefaultRepoSlug = "saturncloud/examples"

// Render produces the published templates document: every entry's recipe_path
// is replaced by the recipe it points to, with repositories matching repoSlug
// pinned to commit. Output is 2-space indented JSON with a trailing newline.
func Render(m *Manifest, repoRoot, repoSlug, commit string) ([]byte, error) {
	if len(m.Invalid) > 0 {
		inv := m.Invalid[0]
		return nil, fmt.Errorf("template %d: %w", inv.Index, inv.Err)
	}
	templates := make([]map[string]any, 0, len(m.Entries))
	for i, entry := range m.Entries {
		recipePath, _ := entry["recipe_path"].(string)
		if recipePath == "" {
			return nil, fmt.Errorf("template %d has no recipe_path", i)
		}

		r, err := recipe.Load(filepath.Join(repoRoot, filepath.FromSlash(recipePath)))
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		r.PinCommit(repoSlug, commit)

		out := make(map[string]any, len(entry))
		for k, v := range entry {
			if k != "recipe_path" {
				out[k] = v
			}
		}
		out["recipe"] = r.Fields
		templates = append(templates, out)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"templates": templates}); err != nil {
		return nil, fmt.Errorf("failed to encode templates: %w", err)
	}
	return buf.Bytes(), nil
}
