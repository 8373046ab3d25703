package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saturncloud/examples/internal/examples"
)

var updateReferencesCmd = &cobra.Command{
	Use:   "update-references [ref]",
	Short: "Point example recipes at a git ref",
	Long: `Sets git_repositories[].reference of every example recipe to ref and the
recipe version to ref without its "release-" prefix. Without a ref both are
removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdateReferences,
}

var updateExamplesDir string

func init() {
	updateReferencesCmd.Flags().StringVar(&updateExamplesDir, "examples-dir", "examples", "Path to the 'examples' directory")

	rootCmd.AddCommand(updateReferencesCmd)
}

func runUpdateReferences(cmd *cobra.Command, args []string) error {
	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}

	updated, err := examples.UpdateReferences(updateExamplesDir, ref)
	if err != nil {
		return fmt.Errorf("failed to update references: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d recipes\n", len(updated))
	return nil
}
