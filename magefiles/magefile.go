//go:build mage

// Package main contains Mage build targets for memogen.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir   = "bin"
	binName  = "memogen"
	cmdPkg   = "./cmd/memogen"
	stubName = "openai-stub"
	stubPkg  = "./cmd/openai-stub"
	appPkg   = "github.com/hyperifyio/memogen/internal/app"
)

var Default = Build

func ldflags() string {
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X %s.BuildVersion=%s -X %s.BuildCommit=%s -X %s.BuildDate=%s",
		appPkg, version, appPkg, commit, appPkg, date)
}

// Build compiles memogen and the stub server into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", filepath.Join(binDir, binName), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	if err := sh.RunV("go", "build", "-o", filepath.Join(binDir, stubName), stubPkg); err != nil {
		return fmt.Errorf("go build stub: %w", err)
	}
	fmt.Printf("Built %s\n", binDir)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet and checks formatting.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "magefiles")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed:\n%s", out)
	}
	return nil
}

// Check runs Lint then Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build outputs.
func Clean() error {
	return sh.Rm(binDir)
}
