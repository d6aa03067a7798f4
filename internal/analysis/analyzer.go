// Package analysis reduces source files to language-neutral interface
// skeletons. One analyzer exists per supported language, all built on the
// official tree-sitter Go bindings. Unknown languages are not an error:
// the registry simply reports no analyzer and callers degrade to
// content-hash-only classification.
package analysis

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// Analyzer is the per-language capability interface. ExtractInterface
// must tolerate malformed input: on a syntax error it returns whatever
// top-level declarations parsed successfully (a partial or even empty
// skeleton), never an error for bad syntax alone.
type Analyzer interface {
	// Language returns the language tag recorded on skeletons
	Language() string

	// Extensions returns the file extensions this analyzer claims
	Extensions() []string

	// ExtractInterface populates a fresh skeleton from source bytes
	ExtractInterface(content []byte) (*skeleton.InterfaceSkeleton, error)
}

// Registry maps file extensions to analyzer variants. The variant set is
// closed: Python, JavaScript, TypeScript, Go.
type Registry struct {
	byExt map[string]Analyzer
}

// NewRegistry creates a registry with all supported language analyzers
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Analyzer)}
	r.register(NewPythonAnalyzer())
	r.register(NewJavaScriptAnalyzer())
	r.register(NewTypeScriptAnalyzer())
	r.register(NewGoAnalyzer())
	return r
}

func (r *Registry) register(a Analyzer) {
	for _, ext := range a.Extensions() {
		r.byExt[ext] = a
	}
}

// ForPath returns the analyzer for a file path, or nil when the
// language is unsupported.
func (r *Registry) ForPath(path string) Analyzer {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether an analyzer exists for the file path
func (r *Registry) Supported(path string) bool {
	return r.ForPath(path) != nil
}

// ExtractInterface analyzes one file. The returned skeleton is nil when
// no analyzer is registered for the path's extension; that is the
// "unsupported language" outcome, not an error. Parse-level problems
// yield partial skeletons rather than errors.
func (r *Registry) ExtractInterface(relPath string, content []byte) (*skeleton.InterfaceSkeleton, error) {
	analyzer := r.ForPath(relPath)
	if analyzer == nil {
		return nil, nil
	}
	sk, err := analyzer.ExtractInterface(content)
	if err != nil {
		return nil, err
	}
	if sk != nil {
		sk.Path = relPath
	}
	return sk, nil
}
