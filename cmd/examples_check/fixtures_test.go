package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes content to root/rel, creating parent directories.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

const testSchema = `{
	"type": "object",
	"required": ["name", "working_directory"],
	"properties": {
		"name": {"type": "string"},
		"working_directory": {"type": "string"}
	}
}`

const cleanNotebook = `{"cells": [{"cell_type": "code", "source": ["print(1)\n"], "outputs": [], "execution_count": null}], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`

// writeRepo builds a small repository with one conforming example and a local
// schema file, and returns its root.
func writeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "schema.json", testSchema)
	writeFile(t, root, "examples/dask/README.md", "# dask")
	writeFile(t, root, "examples/dask/dask.ipynb", cleanNotebook)
	writeFile(t, root, "examples/dask/.saturn/saturn.json", `{
		"name": "dask",
		"image_uri": "saturncloud/saturn:2023.01.01",
		"working_directory": "/home/jovyan/examples/examples/dask",
		"git_repositories": [{"url": "https://github.com/saturncloud/examples", "path": "/home/jovyan/examples"}]
	}`)
	writeFile(t, root, ".saturn/templates.json", `{"templates": [
		{"title": "Dask", "weight": 10, "thumbnail_image_url": "https://example.com/dask.png", "recipe_path": "examples/dask/.saturn/saturn.json"}
	]}`)
	return root
}
