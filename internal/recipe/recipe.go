package recipe

import (
	"bytes"
	"encoding/json"
	"os"
)

// Directory and file name of the recipe inside an example.
const (
	DirName  = ".saturn"
	FileName = "saturn.json"
)

// Recipe is a parsed recipe document. Fields keeps every key, including ones
// this package does not interpret, so documents can be rewritten losslessly.
type Recipe struct {
	Path   string
	Raw    []byte
	Fields map[string]any
}

// Parse decodes raw recipe bytes. Numbers are kept as json.Number.
func Parse(path string, raw []byte) (*Recipe, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &ParseError{Path: path, Message: "invalid JSON", Cause: err}
	}
	if fields == nil {
		return nil, &ParseError{Path: path, Message: "document is not a JSON object"}
	}
	return &Recipe{Path: path, Raw: raw, Fields: fields}, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, raw)
}

// Image returns the declared image reference. image_uri is preferred;
// the legacy image key is read when image_uri is absent.
func (r *Recipe) Image() (string, bool) {
	for _, key := range []string{"image_uri", "image"} {
		if v, ok := r.Fields[key]; ok {
			s, isString := v.(string)
			return s, isString
		}
	}
	return "", false
}

// WorkingDirectory returns the raw working_directory value.
func (r *Recipe) WorkingDirectory() (any, bool) {
	v, ok := r.Fields["working_directory"]
	return v, ok
}

// DaskCluster returns the dask_cluster block when present and an object.
func (r *Recipe) DaskCluster() (map[string]any, bool) {
	v, ok := r.Fields["dask_cluster"]
	if !ok || v == nil {
		return nil, false
	}
	block, isObject := v.(map[string]any)
	return block, isObject
}

// GitRepositories returns the git_repositories entries that are objects.
func (r *Recipe) GitRepositories() []map[string]any {
	list, _ := r.Fields["git_repositories"].([]any)
	repos := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if repo, ok := item.(map[string]any); ok {
			repos = append(repos, repo)
		}
	}
	return repos
}

// Marshal renders the recipe as 2-space indented JSON with a trailing newline.
func (r *Recipe) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
