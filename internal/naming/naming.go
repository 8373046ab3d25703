// Package naming classifies file and directory names in the examples tree.
package naming

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/saturncloud/examples/internal/findings"
)

var (
	directoryPattern = regexp.MustCompile(`^[0-9a-z-]+$`)
	filenamePattern  = regexp.MustCompile(`^[0-9A-Za-z.-]+$`)
)

// Rules holds the naming policy for one run.
type Rules struct {
	AdminDirs []string // directory names exempt from the directory pattern
}

// NewRules creates Rules with the given admin allow-list.
func NewRules(adminDirs []string) Rules {
	return Rules{AdminDirs: append([]string(nil), adminDirs...)}
}

// ValidDirName reports whether name is an acceptable directory basename.
func (r Rules) ValidDirName(name string) bool {
	return directoryPattern.MatchString(name) || slices.Contains(r.AdminDirs, name)
}

// ValidExampleName reports whether name is an acceptable top-level example
// directory. The admin allow-list does not apply at the top level.
func ValidExampleName(name string) bool {
	return directoryPattern.MatchString(name)
}

// ValidFileName reports whether name is an acceptable file basename.
func ValidFileName(name string) bool {
	return filenamePattern.MatchString(name)
}

// Classify returns a finding when the basename of path breaks the naming rules.
func (r Rules) Classify(path string, isDir bool) *findings.Finding {
	base := filepath.Base(filepath.Clean(path))
	if isDir {
		if r.ValidDirName(base) {
			return nil
		}
		f := findings.Newf(findings.KindStructural, path,
			"All directories should be named with only lower alphanumeric characters and dashes. '%s' violates this rule.", path)
		return &f
	}
	if ValidFileName(base) {
		return nil
	}
	f := findings.Newf(findings.KindStructural, path,
		"All files should be named with only alphanumeric characters, dashes, and periods. '%s' violates this rule.", path)
	return &f
}

// Hidden reports whether a basename is a dot-entry (.saturn, .ipynb_checkpoints).
// Hidden entries are not subject to naming rules.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// CheckTree classifies every non-hidden path below root (root itself excluded).
// Paths that cannot be read are reported as findings rather than aborting the walk.
func (r Rules) CheckTree(root string) []findings.Finding {
	var out []findings.Finding
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			out = append(out, findings.Newf(findings.KindStructural, path, "Could not read '%s': %v", path, err))
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if Hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		isDir := d.IsDir()
		if d.Type()&os.ModeSymlink != 0 {
			if info, statErr := os.Stat(path); statErr == nil {
				isDir = info.IsDir()
			}
		}
		if f := r.Classify(path, isDir); f != nil {
			out = append(out, *f)
		}
		return nil
	})
	return out
}
