package examples

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saturncloud/examples/internal/naming"
	"github.com/saturncloud/examples/internal/notebook"
	"github.com/saturncloud/examples/internal/recipe"
)

// ReadmeName is the file every example and first-level subdirectory needs.
const ReadmeName = "README.md"

// Directory is one example directory as found at the start of a run.
// It is not modified afterwards.
type Directory struct {
	Name         string
	Path         string   // absolute
	Files        []string // relative, slash-separated, sorted; hidden entries excluded
	Subdirs      []string // first-level, non-hidden, sorted
	Empty        bool
	HasReadme    bool
	HasRecipeDir bool
	HasRecipe    bool
}

// Discover reads the example directory at path. Unreadable entries are
// left out; the naming walk reports them.
func Discover(path string) Directory {
	dir := Directory{Name: filepath.Base(path), Path: path}

	entries, err := os.ReadDir(path)
	if err == nil && len(entries) == 0 {
		dir.Empty = true
		return dir
	}
	for _, e := range entries {
		if e.IsDir() && !naming.Hidden(e.Name()) {
			dir.Subdirs = append(dir.Subdirs, e.Name())
		}
	}

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != path {
				return fs.SkipDir
			}
			return nil
		}
		if p == path {
			return nil
		}
		if naming.Hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(path, p)
		if relErr == nil {
			dir.Files = append(dir.Files, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(dir.Files)
	sort.Strings(dir.Subdirs)

	dir.HasReadme = dir.HasFile(ReadmeName)
	if info, err := os.Stat(filepath.Join(path, recipe.DirName)); err == nil && info.IsDir() {
		dir.HasRecipeDir = true
	}
	if info, err := os.Stat(dir.RecipePath()); err == nil && !info.IsDir() {
		dir.HasRecipe = true
	}
	return dir
}

// HasFile reports whether rel (slash-separated) is one of the directory's files.
func (d Directory) HasFile(rel string) bool {
	i := sort.SearchStrings(d.Files, rel)
	return i < len(d.Files) && d.Files[i] == rel
}

// Notebooks returns the absolute paths of every notebook in the directory.
func (d Directory) Notebooks() []string {
	var out []string
	for _, f := range d.Files {
		if strings.HasSuffix(f, notebook.Extension) {
			out = append(out, filepath.Join(d.Path, filepath.FromSlash(f)))
		}
	}
	return out
}

// RecipeDir returns the path of the recipe directory.
func (d Directory) RecipeDir() string {
	return filepath.Join(d.Path, recipe.DirName)
}

// RecipePath returns the path of the recipe document.
func (d Directory) RecipePath() string {
	return filepath.Join(d.Path, recipe.DirName, recipe.FileName)
}
