package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the examples_check binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "examples_check"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/examples_check ./cmd/examples_check'", binaryPath)
	}

	abs, err := filepath.Abs(binaryPath)
	if err != nil {
		t.Fatalf("failed to resolve binary path: %v", err)
	}
	return abs
}
