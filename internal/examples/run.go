package examples

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saturncloud/examples/internal/config"
	"github.com/saturncloud/examples/internal/fetch"
	"github.com/saturncloud/examples/internal/findings"
	"github.com/saturncloud/examples/internal/manifest"
	"github.com/saturncloud/examples/internal/naming"
	"github.com/saturncloud/examples/internal/notebook"
	"github.com/saturncloud/examples/internal/recipe"
	"github.com/saturncloud/examples/internal/registry"
	"github.com/saturncloud/examples/internal/schemas"
)

// Deps overrides collaborators of a run. The zero value builds everything
// from the config.
type Deps struct {
	Schema *schemas.Schema     // nil loads the schema named by the config
	Images recipe.ImageChecker // nil uses a registry client unless the config skips it
	Rules  []recipe.Rule       // nil uses recipe.DefaultRules
}

// Result is the outcome of one validation run.
type Result struct {
	RunID       string
	Directories []Directory
	Schema      *schemas.Schema // nil when it could not be loaded
	Manifest    *manifest.Manifest
	Findings    *findings.Collector
}

type runner struct {
	cfg    config.Config
	rules  naming.Rules
	schema *schemas.Schema
	env    recipe.Env
	checks []recipe.Rule
}

// Run checks every example directory below cfg.ExamplesDir and the manifest.
// cfg must be resolved and valid. A missing examples root or an unreadable
// manifest is returned as an error; every other problem becomes a finding.
// Findings are ordered by directory name, so identical trees give identical
// reports.
func Run(ctx context.Context, cfg config.Config, deps Deps) (*Result, error) {
	info, err := os.Stat(cfg.ExamplesDir)
	if err != nil {
		return nil, &SetupError{Path: cfg.ExamplesDir, Message: "examples directory not found", Cause: err}
	}
	if !info.IsDir() {
		return nil, &SetupError{Path: cfg.ExamplesDir, Message: "examples path is not a directory"}
	}
	entries, err := os.ReadDir(cfg.ExamplesDir)
	if err != nil {
		return nil, &SetupError{Path: cfg.ExamplesDir, Message: "examples directory could not be read", Cause: err}
	}

	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:    uuid.New().String(),
		Manifest: m,
		Findings: findings.NewCollector(),
	}
	log.Printf("[EXAMPLES] Run %s: checking %s", res.RunID, cfg.ExamplesDir)

	res.Schema = deps.Schema
	if res.Schema == nil {
		res.Schema, err = LoadSchema(ctx, cfg)
		if err != nil {
			log.Printf("[SCHEMA] Schema unavailable, skipping schema validation: %v", err)
			res.Findings.Add(findings.Newf(findings.KindExternal, cfg.SchemaURL(),
				"Could not load the recipe schema, recipes were not checked against it: %v", err))
		}
	}

	r := &runner{
		cfg:    cfg,
		rules:  naming.NewRules(cfg.AdminDirs),
		schema: res.Schema,
		checks: deps.Rules,
		env: recipe.Env{
			RepoRoot:         cfg.RepoRoot,
			ExamplesDir:      cfg.ExamplesDir,
			WorkingDirPrefix: cfg.WorkingDirPrefix,
			MaxDaskWorkers:   cfg.MaxDaskWorkers,
			Registry:         cfg.RegistryName,
		},
	}
	if r.checks == nil {
		r.checks = recipe.DefaultRules()
	}
	switch {
	case deps.Images != nil:
		r.env.Images = deps.Images
	case !cfg.SkipRegistry:
		r.env.Images = registry.NewClient(registry.Options{
			TokenURL:    cfg.TokenURL,
			Service:     cfg.RegistryService,
			RegistryURL: cfg.RegistryURL,
			Timeout:     cfg.HTTPTimeout(),
			Verbose:     cfg.Verbose,
		})
	default:
		log.Printf("[REGISTRY] Registry checks disabled")
	}

	// One slot per top-level entry, filled concurrently and merged in name order.
	slots := make([][]findings.Finding, len(entries))
	var dirNames []string

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, e := range entries {
		if naming.Hidden(e.Name()) {
			continue
		}
		full := filepath.Join(cfg.ExamplesDir, e.Name())
		if !isDir(full, e) {
			slots[i] = []findings.Finding{findings.Newf(findings.KindStructural, full,
				"Only directories are allowed directly under '%s'. '%s' is not a directory.", cfg.ExamplesDir, full)}
			continue
		}
		dirNames = append(dirNames, e.Name())
		if !naming.ValidExampleName(e.Name()) {
			slots[i] = []findings.Finding{findings.Newf(findings.KindStructural, full,
				"All directories under '%s' should be named with only lower alphanumeric characters and dashes. '%s' violates this rule.",
				cfg.ExamplesDir, full)}
			continue
		}

		dir := Discover(full)
		res.Directories = append(res.Directories, dir)
		i := i
		g.Go(func() error {
			slots[i] = r.checkDirectory(gCtx, dir)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(dirNames) == 0 {
		res.Findings.Add(findings.Newf(findings.KindStructural, cfg.ExamplesDir,
			"No directories found under '%s'", cfg.ExamplesDir))
	}
	for _, slot := range slots {
		res.Findings.Add(slot...)
	}

	examplesRel, err := filepath.Rel(cfg.RepoRoot, cfg.ExamplesDir)
	if err != nil {
		return nil, &SetupError{Path: cfg.ExamplesDir, Message: "examples directory is not below the repository root", Cause: err}
	}
	res.Findings.Add(manifest.CrossValidate(m, filepath.ToSlash(examplesRel), dirNames)...)

	log.Printf("[EXAMPLES] Run %s: %d directories checked, %d findings", res.RunID, len(res.Directories), res.Findings.Len())
	return res, nil
}

// LoadSchema loads the recipe schema from cfg.SchemaFile when set, otherwise
// downloads it for cfg.SchemaRef.
func LoadSchema(ctx context.Context, cfg config.Config) (*schemas.Schema, error) {
	if cfg.SchemaFile != "" {
		return schemas.Load(cfg.SchemaFile)
	}
	return schemas.Fetch(ctx, cfg.SchemaURL(), &fetch.Options{
		Timeout:   cfg.HTTPTimeout(),
		UserAgent: fetch.DefaultUserAgent,
	})
}

func (r *runner) checkDirectory(ctx context.Context, dir Directory) []findings.Finding {
	log.Printf("[EXAMPLES] Working on directory '%s'", dir.Name)

	if dir.Empty {
		return []findings.Finding{findings.Newf(findings.KindStructural, dir.Path, "Directory '%s' is empty", dir.Path)}
	}

	var out []findings.Finding
	if !dir.HasReadme {
		out = append(out, findings.Newf(findings.KindStructural, dir.Path,
			"Every example must have a README.md. '%s' does not.", dir.Path))
	}
	for _, sub := range dir.Subdirs {
		if slices.Contains(r.cfg.AdminDirs, sub) || dir.HasFile(sub+"/"+ReadmeName) {
			continue
		}
		subPath := filepath.Join(dir.Path, sub)
		out = append(out, findings.Newf(findings.KindStructural, subPath,
			"Every directory two levels below '%s' must have a README.md. None found for '%s'.", r.cfg.ExamplesDir, subPath))
	}

	notebooks := dir.Notebooks()
	if len(notebooks) == 0 {
		out = append(out, findings.Newf(findings.KindStructural, dir.Path,
			"No notebooks were found in '%s' or its subdirectories", dir.Path))
	}
	for _, nb := range notebooks {
		out = append(out, notebook.CheckFile(nb, r.cfg.NotebookMode)...)
	}

	out = append(out, r.rules.CheckTree(dir.Path)...)

	if !dir.HasRecipeDir {
		out = append(out, findings.Newf(findings.KindStructural, dir.Path,
			"'%s' does not include a '%s/' directory", dir.Path, recipe.DirName))
	}
	if !dir.HasRecipe {
		out = append(out, findings.Newf(findings.KindStructural, dir.RecipeDir(),
			"Did not find %s in '%s'. This file is required.", recipe.FileName, dir.RecipeDir()))
		return out
	}

	doc, err := recipe.Load(dir.RecipePath())
	if err != nil {
		var parseErr *recipe.ParseError
		if errors.As(err, &parseErr) {
			return append(out, findings.Newf(findings.KindSchema, parseErr.Path,
				"'%s' could not be parsed: %s", parseErr.Path, describeParseError(parseErr)))
		}
		return append(out, findings.Newf(findings.KindSchema, dir.RecipePath(),
			"'%s' could not be loaded: %v", dir.RecipePath(), err))
	}
	return append(out, recipe.Validate(ctx, doc, r.schema, r.env, r.checks)...)
}

func describeParseError(err *recipe.ParseError) string {
	if err.Cause != nil {
		return fmt.Sprintf("%s (%v)", err.Message, err.Cause)
	}
	return err.Message
}

// isDir follows symlinks so a linked example directory counts as a directory.
func isDir(path string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
