package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/saturncloud/examples/internal/config"
	"github.com/saturncloud/examples/internal/examples"
	"github.com/saturncloud/examples/internal/findings"
	"github.com/saturncloud/examples/internal/observability"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every example directory and the templates manifest",
	Long: `Walks the examples directory, checks naming, required files, notebooks and
recipes (against the recipe JSON Schema, the container registry and the
business rules), cross-checks the templates manifest and prints a numbered
report. The exit status is the number of findings.`,
	RunE: runValidate,
}

var (
	validateExamplesDir       string
	validateRepoRoot          string
	validateManifest          string
	validateSchemaRef         string
	validateSchemaURLTemplate string
	validateSchemaFile        string
	validateConfigPath        string
	validateWorkers           int
	validateNotebookMode      string
	validateSkipRegistry      bool
	validateVerbose           bool
)

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateExamplesDir, "examples-dir", "", "Path to the 'examples' directory to check")
	f.StringVar(&validateRepoRoot, "repo-root", "", "Repository root (default: parent of --examples-dir)")
	f.StringVar(&validateManifest, "manifest", "", "Templates manifest (default: <repo-root>/.saturn/templates.json)")
	f.StringVar(&validateSchemaRef, "schema-ref", config.DefaultSchemaRef, "Branch or tag of the recipes repository to fetch the schema from")
	f.StringVar(&validateSchemaURLTemplate, "schema-url-template", config.DefaultSchemaURLTemplate, "Schema URL, {ref} is replaced by --schema-ref")
	f.StringVar(&validateSchemaFile, "schema-file", "", "Local schema file, overrides the schema URL")
	f.StringVarP(&validateConfigPath, "config", "c", "", "Config file (JSON or YAML)")
	f.IntVar(&validateWorkers, "workers", config.DefaultWorkers, "Example directories checked concurrently")
	f.StringVar(&validateNotebookMode, "notebook-mode", config.NotebookModeFull, "Notebook checks: 'full' or 'lint-only'")
	f.BoolVar(&validateSkipRegistry, "skip-registry", false, "Do not check that images exist")
	f.BoolVarP(&validateVerbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := buildValidateConfig(cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := validate(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if count > 0 {
		return &exitError{code: findings.ExitCode(count)}
	}
	return nil
}

// buildValidateConfig layers defaults, the config file, the environment and
// the flags that were set explicitly, then resolves and validates the result.
func buildValidateConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if validateConfigPath != "" {
		fileCfg, err := config.LoadConfig(validateConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = config.FromEnv(cfg)

	if flags.Changed("examples-dir") {
		cfg.ExamplesDir = validateExamplesDir
	}
	if flags.Changed("repo-root") {
		cfg.RepoRoot = validateRepoRoot
	}
	if flags.Changed("manifest") {
		cfg.ManifestPath = validateManifest
	}
	if flags.Changed("schema-ref") {
		cfg.SchemaRef = validateSchemaRef
	}
	if flags.Changed("schema-url-template") {
		cfg.SchemaURLTemplate = validateSchemaURLTemplate
	}
	if flags.Changed("schema-file") {
		cfg.SchemaFile = validateSchemaFile
	}
	if flags.Changed("workers") {
		cfg.Workers = validateWorkers
	}
	if flags.Changed("notebook-mode") {
		cfg.NotebookMode = validateNotebookMode
	}
	if flags.Changed("skip-registry") {
		cfg.SkipRegistry = validateSkipRegistry
	}
	if flags.Changed("verbose") {
		cfg.Verbose = validateVerbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.Resolved()
}

// validate runs the checks and writes the report to w. It returns the number of findings.
func validate(ctx context.Context, cfg config.Config, w io.Writer) (int, error) {
	res, err := examples.Run(ctx, cfg, examples.Deps{})
	if err != nil {
		return 0, fmt.Errorf("validation aborted: %w", err)
	}
	if cfg.Verbose {
		summary := observability.RunSummary{
			RunID:       res.RunID,
			Directories: len(res.Directories),
			Findings:    res.Findings.Findings(),
		}
		if res.Schema != nil {
			summary.SchemaSource = res.Schema.Source()
		}
		observability.NewPrinter(os.Stderr).PrintRunSummary(summary)
	}
	count, err := res.Findings.Report(w)
	if err != nil {
		return count, fmt.Errorf("failed to write report: %w", err)
	}
	return count, nil
}
