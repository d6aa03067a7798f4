package analysis

import (
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// TypeScriptAnalyzer extracts the public interface of a TypeScript
// module. On top of the JavaScript rules it records type annotations,
// interfaces, enums, and type aliases, and hides private/protected
// class members.
type TypeScriptAnalyzer struct {
	extractor *ecmaExtractor
}

// NewTypeScriptAnalyzer creates a new TypeScript analyzer
func NewTypeScriptAnalyzer() *TypeScriptAnalyzer {
	return &TypeScriptAnalyzer{extractor: &ecmaExtractor{
		language:   "typescript",
		typescript: true,
		parser:     newTSParser(tree_sitter_typescript.LanguageTypescript()),
	}}
}

// Language returns the language tag
func (ta *TypeScriptAnalyzer) Language() string { return "typescript" }

// Extensions returns the file extensions handled by this analyzer.
// TSX uses a separate grammar and is handled as plain TypeScript here;
// JSX expressions only appear inside bodies, which the skeleton ignores.
func (ta *TypeScriptAnalyzer) Extensions() []string {
	return []string{".ts", ".mts", ".cts"}
}

// ExtractInterface parses source bytes into an interface skeleton
func (ta *TypeScriptAnalyzer) ExtractInterface(content []byte) (*skeleton.InterfaceSkeleton, error) {
	return ta.extractor.extract(content), nil
}
