package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvExamplesDir       = "EXAMPLES_CHECK_EXAMPLES_DIR"
	EnvManifestPath      = "EXAMPLES_CHECK_MANIFEST"
	EnvSchemaURLTemplate = "EXAMPLES_CHECK_SCHEMA_URL_TEMPLATE"
	EnvSchemaRef         = "EXAMPLES_CHECK_SCHEMA_REF"
	EnvSchemaFile        = "EXAMPLES_CHECK_SCHEMA_FILE"
	EnvTokenURL          = "EXAMPLES_CHECK_TOKEN_URL"
	EnvRegistryService   = "EXAMPLES_CHECK_REGISTRY_SERVICE"
	EnvRegistryURL       = "EXAMPLES_CHECK_REGISTRY_URL"
	EnvRegistryName      = "EXAMPLES_CHECK_REGISTRY_NAME"
	EnvSkipRegistry      = "EXAMPLES_CHECK_SKIP_REGISTRY"
	EnvNotebookMode      = "EXAMPLES_CHECK_NOTEBOOK_MODE"
	EnvAdminDirs         = "EXAMPLES_CHECK_ADMIN_DIRS"
	EnvWorkers           = "EXAMPLES_CHECK_WORKERS"
	EnvTimeoutSeconds    = "EXAMPLES_CHECK_TIMEOUT_SECONDS"
)

// FromEnv returns base with values overridden from EXAMPLES_CHECK_* variables.
func FromEnv(base Config) Config {
	cfg := base
	cfg.ExamplesDir = getEnvString(EnvExamplesDir, cfg.ExamplesDir)
	cfg.ManifestPath = getEnvString(EnvManifestPath, cfg.ManifestPath)
	cfg.SchemaURLTemplate = getEnvString(EnvSchemaURLTemplate, cfg.SchemaURLTemplate)
	cfg.SchemaRef = getEnvString(EnvSchemaRef, cfg.SchemaRef)
	cfg.SchemaFile = getEnvString(EnvSchemaFile, cfg.SchemaFile)
	cfg.TokenURL = getEnvString(EnvTokenURL, cfg.TokenURL)
	cfg.RegistryService = getEnvString(EnvRegistryService, cfg.RegistryService)
	cfg.RegistryURL = getEnvString(EnvRegistryURL, cfg.RegistryURL)
	cfg.RegistryName = getEnvString(EnvRegistryName, cfg.RegistryName)
	cfg.SkipRegistry = getEnvBool(EnvSkipRegistry, cfg.SkipRegistry)
	cfg.NotebookMode = getEnvString(EnvNotebookMode, cfg.NotebookMode)
	cfg.Workers = getEnvInt(EnvWorkers, cfg.Workers)
	cfg.TimeoutSeconds = getEnvInt(EnvTimeoutSeconds, cfg.TimeoutSeconds)
	if dirs := parseList(getEnvString(EnvAdminDirs, "")); len(dirs) > 0 {
		cfg.AdminDirs = dirs
	}
	return cfg
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parseList parses a comma-separated list, dropping empty items.
func parseList(list string) []string {
	if list == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
