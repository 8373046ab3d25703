package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturncloud/examples/internal/notebook"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"examples_dir": "examples",
		"schema_ref": "release-2024.01.01",
		"workers": 4,
		"notebook_mode": "lint-only",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "examples", cfg.ExamplesDir)
	assert.Equal(t, "release-2024.01.01", cfg.SchemaRef)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, NotebookModeLintOnly, cfg.NotebookMode)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
examples_dir: examples
admin_dirs:
  - _img
  - _assets
skip_registry: true
max_dask_workers: 5
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "examples", cfg.ExamplesDir)
	assert.Equal(t, []string{"_img", "_assets"}, cfg.AdminDirs)
	assert.True(t, cfg.SkipRegistry)
	assert.Equal(t, 5, cfg.MaxDaskWorkers)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{ExamplesDir: "examples", Workers: 2}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, "examples", merged.ExamplesDir)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, DefaultTokenURL, merged.TokenURL)
	assert.Equal(t, DefaultMaxDaskWorkers, merged.MaxDaskWorkers)
	assert.Equal(t, []string{"_img"}, merged.AdminDirs)
	assert.Equal(t, NotebookModeFull, merged.NotebookMode)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	cfg.ExamplesDir = "examples"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingExamplesDir(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ExamplesDir")
}

func TestValidate_BadNotebookMode(t *testing.T) {
	cfg := Default()
	cfg.ExamplesDir = "examples"
	cfg.NotebookMode = "sometimes"
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsNotebookCheckModes(t *testing.T) {
	for _, mode := range []string{notebook.ModeFull, notebook.ModeLintOnly} {
		cfg := Default()
		cfg.ExamplesDir = "examples"
		cfg.NotebookMode = mode
		assert.NoError(t, cfg.Validate(), mode)
	}
	assert.Equal(t, notebook.ModeFull, Default().NotebookMode)
}

func TestValidate_WorkerBounds(t *testing.T) {
	cfg := Default()
	cfg.ExamplesDir = "examples"
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg.Workers = 65
	assert.Error(t, cfg.Validate())
}

func TestValidate_PrefixNeedsTrailingSlash(t *testing.T) {
	cfg := Default()
	cfg.ExamplesDir = "examples"
	cfg.WorkingDirPrefix = "/home/jovyan/examples"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "working_dir_prefix")
}

func TestValidate_RefWithoutPlaceholder(t *testing.T) {
	cfg := Default()
	cfg.ExamplesDir = "examples"
	cfg.SchemaURLTemplate = "https://example.com/schema.json"
	cfg.SchemaRef = "v2"
	assert.Error(t, cfg.Validate())
}

func TestResolved_DerivesPaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.ExamplesDir = filepath.Join(root, "examples")

	resolved, err := cfg.Resolved()
	require.NoError(t, err)

	assert.Equal(t, root, resolved.RepoRoot)
	assert.Equal(t, filepath.Join(root, ".saturn", "templates.json"), resolved.ManifestPath)
}

func TestSchemaURL(t *testing.T) {
	cfg := Default()
	cfg.SchemaRef = "release-2024.01.01"
	assert.Equal(t,
		"https://raw.githubusercontent.com/saturncloud/recipes/release-2024.01.01/resources/schema.json",
		cfg.SchemaURL())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvExamplesDir, "/tmp/examples")
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvSkipRegistry, "true")
	t.Setenv(EnvAdminDirs, "_img, _static ,")
	t.Setenv(EnvTimeoutSeconds, "not-a-number")
	t.Setenv(EnvRegistryName, "ghcr.io")

	cfg := FromEnv(Default())

	assert.Equal(t, "/tmp/examples", cfg.ExamplesDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.SkipRegistry)
	assert.Equal(t, []string{"_img", "_static"}, cfg.AdminDirs)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, "ghcr.io", cfg.RegistryName)
	assert.Equal(t, DefaultRegistryURL, cfg.RegistryURL)
}
