package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturncloud/examples/internal/config"
	"github.com/saturncloud/examples/internal/manifest"
)

var generateTemplatesCmd = &cobra.Command{
	Use:   "generate-templates",
	Short: "Render the templates manifest with inlined recipes",
	Long: `Reads the templates manifest, replaces every recipe_path with the recipe it
points to and pins repositories of this project to a commit. The result is
written to stdout or --out.`,
	RunE: runGenerateTemplates,
}

var (
	generateRepoRoot string
	generateManifest string
	generateCommit   string
	generateRepoSlug string
	generateOutput   string
)

func init() {
	generateTemplatesCmd.Flags().StringVar(&generateRepoRoot, "repo-root", ".", "Repository root")
	generateTemplatesCmd.Flags().StringVar(&generateManifest, "manifest", "", "Templates manifest (default: <repo-root>/.saturn/templates.json)")
	generateTemplatesCmd.Flags().StringVar(&generateCommit, "commit", "", "Commit to pin (default: HEAD of --repo-root)")
	generateTemplatesCmd.Flags().StringVar(&generateRepoSlug, "repo-slug", manifest.DefaultRepoSlug, "Repositories whose URL contains this are pinned")
	generateTemplatesCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(generateTemplatesCmd)
}

func runGenerateTemplates(cmd *cobra.Command, _ []string) error {
	manifestPath := generateManifest
	if manifestPath == "" {
		manifestPath = filepath.Join(generateRepoRoot, filepath.FromSlash(config.DefaultManifestRelPath))
	}

	commit := generateCommit
	if commit == "" {
		var err error
		if commit, err = headCommit(generateRepoRoot); err != nil {
			return err
		}
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	out, err := manifest.Render(m, generateRepoRoot, generateRepoSlug, commit)
	if err != nil {
		return fmt.Errorf("failed to render templates: %w", err)
	}

	if generateOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if dir := filepath.Dir(generateOutput); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(generateOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write templates: %w", err)
	}
	return nil
}

// headCommit returns the commit checked out in repoRoot.
func headCommit(repoRoot string) (string, error) {
	var stdout, stderr bytes.Buffer
	git := exec.Command("git", "rev-parse", "HEAD")
	git.Dir = repoRoot
	git.Stdout = &stdout
	git.Stderr = &stderr
	if err := git.Run(); err != nil {
		return "", fmt.Errorf("failed to read HEAD commit (pass --commit): %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
