// Package config provides the run configuration for the examples checker.
//
// A Config is assembled once at startup from defaults, the environment,
// an optional config file and CLI flags, then passed by value to every
// component. Nothing reads configuration from globals.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/saturncloud/examples/internal/notebook"
)

// Notebook check modes.
const (
	NotebookModeFull     = notebook.ModeFull     // lint code cells and require cleared outputs
	NotebookModeLintOnly = notebook.ModeLintOnly // lint code cells only
)

// Defaults used when neither the environment, a config file nor a flag sets a value.
const (
	DefaultSchemaURLTemplate = "https://raw.githubusercontent.com/saturncloud/recipes/{ref}/resources/schema.json"
	DefaultSchemaRef         = "main"
	DefaultTokenURL          = "https://auth.docker.io/token"
	DefaultRegistryService   = "registry.docker.io"
	DefaultRegistryURL       = "https://registry-1.docker.io"
	DefaultRegistryName      = "index.docker.io"
	DefaultWorkingDirPrefix  = "/home/jovyan/examples/"
	DefaultMaxDaskWorkers    = 3
	DefaultWorkers           = 8
	DefaultTimeoutSeconds    = 30
	DefaultManifestRelPath   = ".saturn/templates.json"
)

// Config is the process-wide configuration of a validation run.
type Config struct {
	// Paths
	ExamplesDir  string `json:"examples_dir,omitempty" yaml:"examples_dir,omitempty" validate:"required"`
	RepoRoot     string `json:"repo_root,omitempty" yaml:"repo_root,omitempty"`         // defaults to the parent of ExamplesDir
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"` // defaults to <repo_root>/.saturn/templates.json

	// Schema source
	SchemaURLTemplate string `json:"schema_url_template,omitempty" yaml:"schema_url_template,omitempty"`
	SchemaRef         string `json:"schema_ref,omitempty" yaml:"schema_ref,omitempty"`
	SchemaFile        string `json:"schema_file,omitempty" yaml:"schema_file,omitempty"` // local schema, overrides the URL

	// Registry
	TokenURL        string `json:"token_url,omitempty" yaml:"token_url,omitempty" validate:"required,url"`
	RegistryService string `json:"registry_service,omitempty" yaml:"registry_service,omitempty" validate:"required"`
	RegistryURL     string `json:"registry_url,omitempty" yaml:"registry_url,omitempty" validate:"required,url"`
	RegistryName    string `json:"registry_name,omitempty" yaml:"registry_name,omitempty"` // images hosted elsewhere are not checked
	SkipRegistry    bool   `json:"skip_registry,omitempty" yaml:"skip_registry,omitempty"`

	// Rules
	WorkingDirPrefix string   `json:"working_dir_prefix,omitempty" yaml:"working_dir_prefix,omitempty" validate:"required"`
	MaxDaskWorkers   int      `json:"max_dask_workers,omitempty" yaml:"max_dask_workers,omitempty" validate:"gte=0"`
	AdminDirs        []string `json:"admin_dirs,omitempty" yaml:"admin_dirs,omitempty"`
	NotebookMode     string   `json:"notebook_mode,omitempty" yaml:"notebook_mode,omitempty" validate:"oneof=full lint-only"`

	// Behavior
	Workers        int  `json:"workers,omitempty" yaml:"workers,omitempty" validate:"min=1,max=64"`
	TimeoutSeconds int  `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	Verbose        bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SchemaURLTemplate: DefaultSchemaURLTemplate,
		SchemaRef:         DefaultSchemaRef,
		TokenURL:          DefaultTokenURL,
		RegistryService:   DefaultRegistryService,
		RegistryURL:       DefaultRegistryURL,
		RegistryName:      DefaultRegistryName,
		WorkingDirPrefix:  DefaultWorkingDirPrefix,
		MaxDaskWorkers:    DefaultMaxDaskWorkers,
		AdminDirs:         []string{"_img"},
		NotebookMode:      NotebookModeFull,
		Workers:           DefaultWorkers,
		TimeoutSeconds:    DefaultTimeoutSeconds,
	}
}

// LoadConfig loads configuration from a JSON or YAML file.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ExamplesDir == "" {
		result.ExamplesDir = defaults.ExamplesDir
	}
	if result.RepoRoot == "" {
		result.RepoRoot = defaults.RepoRoot
	}
	if result.ManifestPath == "" {
		result.ManifestPath = defaults.ManifestPath
	}
	if result.SchemaURLTemplate == "" {
		result.SchemaURLTemplate = defaults.SchemaURLTemplate
	}
	if result.SchemaRef == "" {
		result.SchemaRef = defaults.SchemaRef
	}
	if result.SchemaFile == "" {
		result.SchemaFile = defaults.SchemaFile
	}
	if result.TokenURL == "" {
		result.TokenURL = defaults.TokenURL
	}
	if result.RegistryService == "" {
		result.RegistryService = defaults.RegistryService
	}
	if result.RegistryURL == "" {
		result.RegistryURL = defaults.RegistryURL
	}
	if result.RegistryName == "" {
		result.RegistryName = defaults.RegistryName
	}
	if result.WorkingDirPrefix == "" {
		result.WorkingDirPrefix = defaults.WorkingDirPrefix
	}
	if result.MaxDaskWorkers == 0 {
		result.MaxDaskWorkers = defaults.MaxDaskWorkers
	}
	if len(result.AdminDirs) == 0 {
		result.AdminDirs = append([]string(nil), defaults.AdminDirs...)
	}
	if result.NotebookMode == "" {
		result.NotebookMode = defaults.NotebookMode
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so either source enables them
	result.SkipRegistry = result.SkipRegistry || defaults.SkipRegistry
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.SchemaFile == "" && !strings.Contains(c.SchemaURLTemplate, "{ref}") && c.SchemaRef != DefaultSchemaRef {
		return fmt.Errorf("config error: 'schema_ref' is set but 'schema_url_template' has no {ref} placeholder")
	}
	if !strings.HasSuffix(c.WorkingDirPrefix, "/") {
		return fmt.Errorf("config error: 'working_dir_prefix' must end with '/', got %q", c.WorkingDirPrefix)
	}
	return nil
}

// Resolved returns a copy with derived paths made absolute:
// RepoRoot defaults to the parent of ExamplesDir, ManifestPath to
// <RepoRoot>/.saturn/templates.json.
func (c Config) Resolved() (Config, error) {
	examplesDir, err := filepath.Abs(c.ExamplesDir)
	if err != nil {
		return c, fmt.Errorf("failed to resolve examples dir: %w", err)
	}
	c.ExamplesDir = examplesDir

	if c.RepoRoot == "" {
		c.RepoRoot = filepath.Dir(examplesDir)
	}
	if c.RepoRoot, err = filepath.Abs(c.RepoRoot); err != nil {
		return c, fmt.Errorf("failed to resolve repo root: %w", err)
	}

	if c.ManifestPath == "" {
		c.ManifestPath = filepath.Join(c.RepoRoot, filepath.FromSlash(DefaultManifestRelPath))
	}
	if c.ManifestPath, err = filepath.Abs(c.ManifestPath); err != nil {
		return c, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	c.AdminDirs = append([]string(nil), c.AdminDirs...)
	return c, nil
}

// SchemaURL returns the schema location for the configured ref.
func (c Config) SchemaURL() string {
	return strings.ReplaceAll(c.SchemaURLTemplate, "{ref}", c.SchemaRef)
}

// HTTPTimeout returns the per-request timeout for registry and schema calls.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
