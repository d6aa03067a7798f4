// Binary file detection for early rejection of non-text sources.
// Design documents are only ever generated for text files.
package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
)

// BinaryDetector filters out binary files by extension and content
type BinaryDetector struct {
	binaryExtensions map[string]bool
}

// NewBinaryDetector creates a detector with the common binary extension set
func NewBinaryDetector() *BinaryDetector {
	extensions := map[string]bool{
		// Images and fonts
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".bmp": true, ".ico": true, ".webp": true, ".tiff": true,
		".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,

		// Archives
		".zip": true, ".tar": true, ".gz": true, ".bz2": true,
		".xz": true, ".7z": true, ".rar": true, ".jar": true,

		// Executables and objects
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".a": true, ".o": true, ".obj": true, ".bin": true,
		".wasm": true,

		// Media
		".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
		".wav": true, ".flac": true, ".ogg": true, ".webm": true,

		// Documents and data
		".pdf": true, ".doc": true, ".docx": true, ".xls": true,
		".xlsx": true, ".ppt": true, ".pptx": true,
		".db": true, ".sqlite": true, ".sqlite3": true,

		// Bytecode and serialized objects
		".pyc": true, ".pyo": true, ".class": true,
		".pickle": true, ".pkl": true,
	}
	return &BinaryDetector{binaryExtensions: extensions}
}

// IsBinaryByExtension checks a path without touching its content
func (bd *BinaryDetector) IsBinaryByExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && bd.binaryExtensions[ext]
}

// IsBinaryContent samples the first 512 bytes for null bytes, the
// standard text/binary heuristic.
func (bd *BinaryDetector) IsBinaryContent(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	sample := content
	if len(sample) > 512 {
		sample = sample[:512]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

// IsBinary combines both checks
func (bd *BinaryDetector) IsBinary(path string, content []byte) bool {
	return bd.IsBinaryByExtension(path) || bd.IsBinaryContent(content)
}
