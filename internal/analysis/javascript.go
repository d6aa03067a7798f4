package analysis

import (
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// JavaScriptAnalyzer extracts the public interface of a JavaScript
// module. Names with a leading underscore or # are private (constructor
// excepted); exports come from the explicit export statements.
type JavaScriptAnalyzer struct {
	extractor *ecmaExtractor
}

// NewJavaScriptAnalyzer creates a new JavaScript analyzer
func NewJavaScriptAnalyzer() *JavaScriptAnalyzer {
	return &JavaScriptAnalyzer{extractor: &ecmaExtractor{
		language: "javascript",
		parser:   newTSParser(tree_sitter_javascript.Language()),
	}}
}

// Language returns the language tag
func (ja *JavaScriptAnalyzer) Language() string { return "javascript" }

// Extensions returns the file extensions handled by this analyzer
func (ja *JavaScriptAnalyzer) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

// ExtractInterface parses source bytes into an interface skeleton
func (ja *JavaScriptAnalyzer) ExtractInterface(content []byte) (*skeleton.InterfaceSkeleton, error) {
	return ja.extractor.extract(content), nil
}
