package docfile

import (
	"path/filepath"
	"strings"
)

// OutputDirName is the root of the generated document tree
const OutputDirName = ".ddoc"

// IndexFileName is the per-directory index artifact
const IndexFileName = "index.md"

// OrientationFileName is the project orientation document
const OrientationFileName = "ORIENTATION.md"

// DocPath maps a project-relative source path to its document path,
// also project-relative: src/a.py -> .ddoc/src/a.py.md
func DocPath(relSource string) string {
	return filepath.Join(OutputDirName, relSource+".md")
}

// IndexPath returns the index document for a source directory
// (project-relative): src -> .ddoc/src/index.md
func IndexPath(relDir string) string {
	return filepath.Join(OutputDirName, relDir, IndexFileName)
}

// OrientationPath returns the project orientation document path
func OrientationPath() string {
	return filepath.Join(OutputDirName, OrientationFileName)
}

// InOutputTree reports whether a project-relative path lies inside the
// generated document tree. Such paths are never treated as sources.
func InOutputTree(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	return rel == OutputDirName || strings.HasPrefix(rel, OutputDirName+"/")
}
