//go:build mage

// Package main contains Mage build targets for notebookconv.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "notebookconv"
	cmdPkg  = "./cmd/notebookconv"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests. Set INTEGRATION=1 to include the PTY tests.
func Test() error {
	args := []string{"test", "./..."}
	if os.Getenv("INTEGRATION") == "" {
		args = append(args, "-short")
	}
	return sh.RunV("go", args...)
}

// Lint runs go vet over every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Stub builds the CLI and serves the stub conversion service on :8000.
func Stub() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "stub-server", "--addr", "127.0.0.1:8000", "--warmup", "2s")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
