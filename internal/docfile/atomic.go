package docfile

import (
	"os"
	"path/filepath"

	ddocerrors "github.com/standardbeagle/ddoc/internal/errors"
)

// WriteAtomic writes data to path via a temp file and rename, so a
// reader never observes a half-written document. Parent directories are
// created as needed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ddocerrors.NewFileError("create output directory", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".ddoc-tmp-*")
	if err != nil {
		return ddocerrors.NewFileError("create temp file", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ddocerrors.NewFileError("write temp file", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ddocerrors.NewFileError("close temp file", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return ddocerrors.NewFileError("chmod temp file", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return ddocerrors.NewFileError("rename temp file", path, err)
	}
	return nil
}
