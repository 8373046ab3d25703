package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/saturncloud/examples/internal/findings"
	"github.com/saturncloud/examples/internal/registry"
	"github.com/saturncloud/examples/internal/schemas"
)

// ImageChecker confirms that an image tag exists in a registry.
type ImageChecker interface {
	ImageExists(ctx context.Context, imageName, imageTag string) (bool, error)
}

// Env is the read-only context business rules run against.
type Env struct {
	RepoRoot         string       // working directories resolve below this path
	ExamplesDir      string       // when set, working directories must lie inside an example below it
	WorkingDirPrefix string       // e.g. /home/jovyan/examples/
	MaxDaskWorkers   int          // ceiling for dask_cluster.num_workers
	Registry         string       // registry host images are checked against, e.g. index.docker.io
	Images           ImageChecker // nil skips the existence check
}

// Rule is a named predicate over a parsed recipe.
type Rule struct {
	Name  string
	Check func(ctx context.Context, r *Recipe, env Env) []findings.Finding
}

// Rule names, in evaluation order.
const (
	RuleImageReference         = "image-reference"
	RuleImageExists            = "image-exists"
	RuleWorkingDirectoryPrefix = "working-directory-prefix"
	RuleWorkingDirectoryExists = "working-directory-exists"
	RuleWorkerCeiling          = "worker-ceiling"
)

// DefaultRules returns the business rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleImageReference, Check: checkImageReference},
		{Name: RuleImageExists, Check: checkImageExists},
		{Name: RuleWorkingDirectoryPrefix, Check: checkWorkingDirectoryPrefix},
		{Name: RuleWorkingDirectoryExists, Check: checkWorkingDirectoryExists},
		{Name: RuleWorkerCeiling, Check: checkWorkerCeiling},
	}
}

// Validate checks a recipe against schema (skipped when nil) and then every rule.
// Validation never stops at the first failure.
func Validate(ctx context.Context, r *Recipe, schema *schemas.Schema, env Env, rules []Rule) []findings.Finding {
	var out []findings.Finding

	if schema != nil {
		out = append(out, schemaFindings(r, schema)...)
	}

	for _, rule := range rules {
		out = append(out, rule.Check(ctx, r, env)...)
	}
	return out
}

func schemaFindings(r *Recipe, schema *schemas.Schema) []findings.Finding {
	err := schema.Validate(r.Raw)
	if err == nil {
		return nil
	}
	var validationErr *schemas.ValidationError
	if !errors.As(err, &validationErr) {
		return []findings.Finding{findings.Newf(findings.KindSchema, r.Path,
			"'%s' could not be checked against the schema: %v", r.Path, err)}
	}
	out := make([]findings.Finding, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		out = append(out, findings.Newf(findings.KindSchema, r.Path,
			"'%s' has a schema issue at %s: %s", r.Path, fe.Field, fe.Message))
	}
	return out
}

func checkImageReference(_ context.Context, r *Recipe, _ Env) []findings.Finding {
	ref, ok := r.Image()
	if !ok {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' does not declare an image as a string", r.Path)}
	}
	if _, err := registry.ParseReference(ref); err != nil {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' declares image '%s' which is not of the form name:tag", r.Path, ref)}
	}
	return nil
}

// checkImageExists is silent when the reference is unusable; image-reference reports that.
func checkImageExists(ctx context.Context, r *Recipe, env Env) []findings.Finding {
	if env.Images == nil {
		return nil
	}
	ref, ok := r.Image()
	if !ok {
		return nil
	}
	img, err := registry.ParseReference(ref)
	if err != nil {
		return nil
	}
	if env.Registry != "" && img.Registry != env.Registry {
		log.Printf("[REGISTRY] Skipping %s: hosted on %s, not %s", ref, img.Registry, env.Registry)
		return nil
	}

	exists, err := env.Images.ImageExists(ctx, img.Repository, img.Tag)
	if err != nil {
		return []findings.Finding{findings.Newf(findings.KindExternal, r.Path,
			"could not confirm image '%s' found in '%s': %v", img, r.Path, err)}
	}
	if !exists {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"image '%s' is not available on %s. Found in '%s'", img, img.Registry, r.Path)}
	}
	return nil
}

func checkWorkingDirectoryPrefix(_ context.Context, r *Recipe, env Env) []findings.Finding {
	v, _ := r.WorkingDirectory()
	wd, isString := v.(string)
	if !isString || !strings.HasPrefix(wd, env.WorkingDirPrefix) {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' working_directory must be a string starting with '%s', got %s",
			r.Path, env.WorkingDirPrefix, describe(v))}
	}
	return nil
}

// checkWorkingDirectoryExists only runs when the prefix rule holds, so a bad
// prefix is reported exactly once.
func checkWorkingDirectoryExists(_ context.Context, r *Recipe, env Env) []findings.Finding {
	v, _ := r.WorkingDirectory()
	wd, isString := v.(string)
	if !isString || !strings.HasPrefix(wd, env.WorkingDirPrefix) {
		return nil
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(wd, env.WorkingDirPrefix)))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' working_directory '%s' points outside the repository", r.Path, wd)}
	}

	target := filepath.Join(env.RepoRoot, rel)
	if env.ExamplesDir != "" && !insideExample(env.ExamplesDir, target) {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' working_directory '%s' is not inside an example directory under '%s'", r.Path, wd, env.ExamplesDir)}
	}
	if _, err := os.Stat(target); err != nil {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' working_directory '%s' does not exist (looked for '%s')", r.Path, wd, target)}
	}
	return nil
}

// insideExample reports whether target is an example directory below
// examplesDir or lies within one. Hidden top-level entries are not examples.
func insideExample(examplesDir, target string) bool {
	rel, err := filepath.Rel(examplesDir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return !strings.HasPrefix(first, ".")
}

func checkWorkerCeiling(_ context.Context, r *Recipe, env Env) []findings.Finding {
	cluster, ok := r.DaskCluster()
	if !ok {
		return nil
	}
	v, present := cluster["num_workers"]
	if !present {
		return nil
	}
	num, isNumber := v.(json.Number)
	n, err := num.Int64()
	if !isNumber || err != nil {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' dask_cluster.num_workers must be an integer, got %s", r.Path, describe(v))}
	}
	if n > int64(env.MaxDaskWorkers) {
		return []findings.Finding{findings.Newf(findings.KindBusiness, r.Path,
			"'%s' dask_cluster.num_workers is %d, the maximum is %d", r.Path, n, env.MaxDaskWorkers)}
	}
	return nil
}

// describe renders a JSON value for messages.
func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "an unreadable value"
	}
	return string(b)
}
