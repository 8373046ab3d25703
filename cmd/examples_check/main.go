// Package main provides the examples_check CLI, the CI gate for the examples repository.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "examples_check",
	Short:         "Validate the examples repository",
	Long:          "examples_check enforces the structure, naming, recipe and notebook rules of the examples repository and publishes its templates manifest.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status out of a command without printing an error.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
