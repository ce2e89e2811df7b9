// Package paths normalizes artifact paths. Manifest output paths, ledger
// rows, and status listings all use repo-relative paths with forward slashes
// so the same artifact compares equal on every platform.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a repo-relative canonical path:
// symlinks resolved, relative to repoRoot, forward slashes only.
func Canonicalize(absolutePath string, repoRoot string) (string, error) {
	resolved, err := resolveExisting(absolutePath)
	if err != nil {
		return "", err
	}
	rootResolved, err := resolveExisting(repoRoot)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Join resolves a repo-relative path against the repo root for filesystem
// access. The relative path is always slash-separated.
func Join(repoRoot, relPath string) string {
	return filepath.Join(repoRoot, filepath.FromSlash(relPath))
}

// WithinRoot reports whether relPath stays inside the repo root; a manifest
// output of "../../etc/passwd" must never be written.
func WithinRoot(relPath string) bool {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(relPath)))
	return clean != ".." && !strings.HasPrefix(clean, "../") && !filepath.IsAbs(relPath)
}

// resolveExisting resolves symlinks, tolerating paths that do not exist yet
// (artifacts about to be written for the first time).
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}
	return resolved, nil
}
