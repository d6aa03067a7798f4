// Package pathutil provides conversion between absolute and
// project-relative paths.
//
// ddoc stores project-relative, slash-separated paths in document footers
// and index entries so a checkout can move between machines without
// invalidating every document. Absolute paths appear only at the CLI and
// file-system boundary; this package is that boundary's conversion layer.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to project-relative, slash
// separated form. Falls back to the original path if conversion fails or
// the path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/app.py", "/home/user/project") → "src/app.py"
//   - ToRelative("/other/location/file.py", "/home/user/project") → "/other/location/file.py" (outside root)
//   - ToRelative("src/app.py", "/home/user/project") → "src/app.py" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute path
	// is clearer in that case
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return filepath.ToSlash(relPath)
}

// ToAbsolute resolves a project-relative path against a root directory.
// Absolute inputs are returned cleaned.
func ToAbsolute(relPath, rootDir string) string {
	if relPath == "" {
		return rootDir
	}
	if filepath.IsAbs(relPath) {
		return filepath.Clean(relPath)
	}
	return filepath.Join(rootDir, filepath.FromSlash(relPath))
}
