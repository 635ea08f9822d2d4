// File path: internal/workspace/scanner_test.go
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func discoveredPaths(units []FileUnit) map[string]bool {
	paths := make(map[string]bool, len(units))
	for _, u := range units {
		paths[u.Path] = true
	}
	return paths
}

func TestDiscoverWalks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "internal", "server.go"), "package internal\n")

	scanner := NewScanner(root)
	units, err := scanner.Discover(context.Background(), []string{root}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 files, got %d", len(units))
	}
}

func TestDiscoverSkipsWellKnownDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.go"), "package app\n")
	writeFile(t, filepath.Join(root, "node_modules", "lib.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(root, "vendor", "dep.go"), "package dep\n")
	writeFile(t, filepath.Join(root, ".git", "config"), "[core]\n")

	scanner := NewScanner(root)
	units, err := scanner.Discover(context.Background(), []string{root}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 1 || !strings.HasSuffix(units[0].Path, "app.go") {
		t.Fatalf("expected only app.go, got %v", discoveredPaths(units))
	}
}

func TestDiscoverSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "text.go"), "package text\n")
	if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x7f, 0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	units, err := NewScanner(root).Discover(context.Background(), []string{root}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 1 || !strings.HasSuffix(units[0].Path, "text.go") {
		t.Fatalf("binary file not skipped: %v", discoveredPaths(units))
	}
}

func TestDiscoverSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.go"), "package small\n")
	writeFile(t, filepath.Join(root, "large.go"), strings.Repeat("// padding\n", 100))

	scanner := NewScanner(root)
	scanner.MaxFileBytes = 64
	units, err := scanner.Discover(context.Background(), []string{root}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 1 || !strings.HasSuffix(units[0].Path, "small.go") {
		t.Fatalf("oversized file not skipped: %v", discoveredPaths(units))
	}
}

func TestDiscoverHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.go"), "package keep\n")
	writeFile(t, filepath.Join(root, "keep_test.go"), "package keep\n")
	writeFile(t, filepath.Join(root, "gen", "models.go"), "package gen\n")

	scanner := NewScanner(root)
	scanner.ExcludeGlobs = []string{"**/*_test.go"}
	scanner.ExcludePaths = []string{"gen"}
	units, err := scanner.Discover(context.Background(), []string{root}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 1 || !strings.HasSuffix(units[0].Path, "keep.go") {
		t.Fatalf("excludes not applied: %v", discoveredPaths(units))
	}
}

func TestDiscoverMissingPathSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.go"), "package real\n")

	units, err := NewScanner(root).Discover(context.Background(),
		[]string{filepath.Join(root, "ghost"), filepath.Join(root, "real.go")}, false)
	if err != nil {
		t.Fatalf("missing path must not fail the scan: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected the existing file, got %v", discoveredPaths(units))
	}
}

func TestDiscoverDeduplicatesOverlappingPaths(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "one.go")
	writeFile(t, file, "package one\n")

	units, err := NewScanner(root).Discover(context.Background(), []string{root, file}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected deduplicated unit, got %d", len(units))
	}
}
