//go:build mage

// Package main contains Mage build targets for pdf-folder-export developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sandboxDirs lists the directories of a local test workspace: an export
// root, a hotfolder for job descriptors and a state directory for the journal.
var sandboxDirs = []string{
	"sandbox/export",
	"sandbox/hotfolder",
	"sandbox/state",
	"sandbox/jobs/1/images/orig_sample_media",
}

const sampleRecord = `metadata:
  DateOfOrigin: "2023-07-04"
  Type: NEWS
`

const sampleJob = `id: 1
title: sample
process_dir: ../jobs/1
`

// Init creates a local sandbox with one sample job ready to export.
func Init() error {
	for _, dir := range sandboxDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	files := map[string]string{
		"sandbox/jobs/1/meta.yaml":                           sampleRecord,
		"sandbox/jobs/1/images/orig_sample_media/sample.pdf": "%PDF-1.4 sample\n",
		"sandbox/pdf-folder-export.yaml":                     "exportFolder: sandbox/export\njournal: sandbox/state/journal.db\n",
		"sandbox/hotfolder/job-1.yaml":                       sampleJob,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Println("Sandbox initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pdf-folder-export"
	cmdPkg  = "./cmd/pdf-folder-export"
)

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests. Requires cgo for the SQLite journal.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "./...")
}

// Run builds the binary and exports the sandbox sample job.
func Run() error {
	mg.SerialDeps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName),
		"--config", "sandbox/pdf-folder-export.yaml", "export", "sandbox/hotfolder/job-1.yaml")
}

// Clean removes build output and the sandbox.
func Clean() error {
	for _, dir := range []string{binDir, "sandbox"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production and test lines.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files, skipping
// the _examples and sandbox directories. If testOnly is true, count only
// _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); strings.HasPrefix(name, "_") || name == "sandbox" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}
