// File path: internal/workspace/scanner.go

// Package workspace discovers the candidate files for one analysis run,
// either by walking the given paths or by asking git for locally changed
// files.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"codecritic/internal/common"
)

// FileUnit is one discovered file with its full content. Units are ephemeral:
// produced by discovery, consumed once by the engine.
type FileUnit struct {
	Path    string
	Content string
}

// defaultMaxFileBytes caps the files worth sending to the provider.
const defaultMaxFileBytes = 256 << 10

var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".idea":        true,
	".vscode":      true,
	".codecritic":  true,
}

// Scanner walks a repository for analyzable files.
type Scanner struct {
	Root         string
	ExcludeGlobs []string
	ExcludePaths []string
	MaxFileBytes int64
}

// NewScanner returns a scanner rooted at root (defaulting to the working
// directory).
func NewScanner(root string) *Scanner {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &Scanner{Root: root, MaxFileBytes: defaultMaxFileBytes}
}

// Discover returns the candidate files under paths. In diff-only mode the
// paths are ignored and only files with uncommitted or untracked changes are
// returned. Missing paths are skipped with a warning; they never fail the
// scan.
func (s *Scanner) Discover(ctx context.Context, paths []string, diffOnly bool) ([]FileUnit, error) {
	if diffOnly {
		return s.discoverChanged(ctx)
	}
	logger := common.Logger()
	var units []FileUnit
	seen := make(map[string]bool)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("workspace: skipping missing path", "path", path, "error", err)
			continue
		}
		if !info.IsDir() {
			if unit, ok := s.loadFile(path); ok && !seen[unit.Path] {
				seen[unit.Path] = true
				units = append(units, unit)
			}
			continue
		}
		walkErr := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if unit, ok := s.loadFile(entry); ok && !seen[unit.Path] {
				seen[unit.Path] = true
				units = append(units, unit)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", path, walkErr)
		}
	}
	return units, nil
}

// discoverChanged enumerates files with local uncommitted changes plus
// untracked files, via git status.
func (s *Scanner) discoverChanged(ctx context.Context) ([]FileUnit, error) {
	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = s.Root
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	var units []FileUnit
	for _, line := range strings.Split(string(output), "\n") {
		if len(line) < 4 {
			continue
		}
		status := line[:2]
		if strings.Contains(status, "D") {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// Renames report "old -> new"; the new name is what exists on disk.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = strings.Trim(path, `"`)
		full := filepath.Join(s.Root, path)
		if unit, ok := s.loadFile(full); ok {
			units = append(units, unit)
		}
	}
	return units, nil
}

// loadFile reads one file, applying the exclusion, size, and binary checks.
func (s *Scanner) loadFile(path string) (FileUnit, bool) {
	if s.excluded(path) {
		return FileUnit{}, false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return FileUnit{}, false
	}
	maxBytes := s.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}
	if info.Size() > maxBytes {
		common.Logger().Debug("workspace: skipping oversized file", "path", path, "size", info.Size())
		return FileUnit{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		common.Logger().Warn("workspace: unreadable file", "path", path, "error", err)
		return FileUnit{}, false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return FileUnit{}, false
	}
	return FileUnit{Path: filepath.ToSlash(path), Content: string(data)}, true
}

// excluded matches the path against the configured glob and path excludes,
// relative to the scanner root.
func (s *Scanner) excluded(path string) bool {
	rel := path
	if abs, err := filepath.Abs(path); err == nil {
		if root, err := filepath.Abs(s.Root); err == nil {
			if r, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	for _, prefix := range s.ExcludePaths {
		prefix = strings.TrimSuffix(filepath.ToSlash(prefix), "/")
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	for _, pattern := range s.ExcludeGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
