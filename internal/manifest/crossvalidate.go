package manifest

import (
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/saturncloud/examples/internal/findings"
)

// CrossValidate checks the manifest against the discovered example
// directories. examplesRel is the examples root relative to the repository
// root in slash form (e.g. "examples"); dirs are example directory names.
func CrossValidate(m *Manifest, examplesRel string, dirs []string) []findings.Finding {
	var out []findings.Finding
	out = append(out, invalidEntries(m)...)
	out = append(out, validateEntries(m)...)
	out = append(out, checkWeights(m, examplesRel)...)
	out = append(out, checkReferences(m, examplesRel, dirs)...)
	return out
}

// invalidEntries reports entries that could not be decoded into a Template.
func invalidEntries(m *Manifest) []findings.Finding {
	out := make([]findings.Finding, 0, len(m.Invalid))
	for _, inv := range m.Invalid {
		out = append(out, findings.Newf(findings.KindManifest, m.Path,
			"'%s' template %d %v", m.Path, inv.Index, inv.Err))
	}
	return out
}

// validateEntries applies the struct-tag constraints of Template.
func validateEntries(m *Manifest) []findings.Finding {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})

	var out []findings.Finding
	for _, tmpl := range m.Templates {
		err := validate.Struct(tmpl)
		if err == nil {
			continue
		}
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			out = append(out, findings.Newf(findings.KindManifest, m.Path,
				"'%s' template %d could not be validated: %v", m.Path, tmpl.Index, err))
			continue
		}
		for _, fe := range fieldErrs {
			out = append(out, findings.Newf(findings.KindManifest, m.Path,
				"'%s' template %d (%q) has an invalid %s: failed '%s' check",
				m.Path, tmpl.Index, tmpl.Title, fe.Field(), fe.Tag()))
		}
	}
	return out
}

// checkWeights reports one finding per shared weight, naming every entry that shares it.
func checkWeights(m *Manifest, examplesRel string) []findings.Finding {
	byWeight := make(map[int][]string)
	for _, tmpl := range m.Templates {
		if tmpl.Weight == nil {
			continue
		}
		label := fmt.Sprintf("'%s' (%s)", tmpl.Title, exampleLabel(tmpl.RecipePath, examplesRel))
		byWeight[*tmpl.Weight] = append(byWeight[*tmpl.Weight], label)
	}

	weights := make([]int, 0, len(byWeight))
	for w, labels := range byWeight {
		if len(labels) > 1 {
			weights = append(weights, w)
		}
	}
	sort.Ints(weights)

	out := make([]findings.Finding, 0, len(weights))
	for _, w := range weights {
		out = append(out, findings.Newf(findings.KindManifest, m.Path,
			"Weight (%d) is non-unique. It is shared by %s.", w, strings.Join(byWeight[w], ", ")))
	}
	return out
}

// checkReferences reports entries whose recipe_path does not name a discovered example.
func checkReferences(m *Manifest, examplesRel string, dirs []string) []findings.Finding {
	known := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		known[d] = true
	}

	var out []findings.Finding
	for _, tmpl := range m.Templates {
		if tmpl.RecipePath == "" {
			continue // reported by validateEntries
		}
		dir, ok := ExampleDir(tmpl.RecipePath, examplesRel)
		if !ok {
			out = append(out, findings.Newf(findings.KindManifest, m.Path,
				"Template '%s' recipe_path '%s' is not inside '%s/'", tmpl.Title, tmpl.RecipePath, examplesRel))
			continue
		}
		if !known[dir] {
			out = append(out, findings.Newf(findings.KindManifest, m.Path,
				"Template '%s' references example directory '%s' which does not exist", tmpl.Title, path.Join(examplesRel, dir)))
		}
	}
	return out
}

// ExampleDir returns the example directory name a recipe path points into.
func ExampleDir(recipePath, examplesRel string) (string, bool) {
	clean := path.Clean(strings.TrimPrefix(strings.ReplaceAll(recipePath, "\\", "/"), "./"))
	rest := clean
	if root := strings.Trim(examplesRel, "/"); root != "" && root != "." {
		if !strings.HasPrefix(clean, root+"/") {
			return "", false
		}
		rest = strings.TrimPrefix(clean, root+"/")
	}
	dir, _, _ := strings.Cut(rest, "/")
	if dir == "" || dir == "." || dir == ".." {
		return "", false
	}
	return dir, true
}

func exampleLabel(recipePath, examplesRel string) string {
	if dir, ok := ExampleDir(recipePath, examplesRel); ok {
		return path.Join(examplesRel, dir)
	}
	return recipePath
}
