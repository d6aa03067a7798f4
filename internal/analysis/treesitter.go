package analysis

import (
	"strings"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ddoc/internal/debug"
)

// tsParser wraps a tree-sitter parser for one language. Tree-sitter
// parser instances are not safe for concurrent use, so every parse
// holds the mutex; the pipeline is single-threaded but watch mode can
// overlap a parse with a manual run.
type tsParser struct {
	mu     sync.Mutex
	parser *tree_sitter.Parser
}

func newTSParser(languagePtr unsafe.Pointer) *tsParser {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(languagePtr)
	if err := parser.SetLanguage(language); err != nil {
		debug.LogAnalysis("failed to set tree-sitter language: %v\n", err)
		return &tsParser{}
	}
	return &tsParser{parser: parser}
}

// parse produces a syntax tree, or nil when parsing is impossible.
// Tree-sitter recovers from syntax errors internally, so a non-nil tree
// may still contain ERROR nodes; callers walk around them and keep the
// declarations that did parse.
func (p *tsParser) parse(content []byte) *tree_sitter.Tree {
	if p.parser == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Protect against crashes inside the C library
	defer func() {
		if r := recover(); r != nil {
			debug.LogAnalysis("TREE-SITTER PANIC: %v\n", r)
		}
	}()

	// The tree-sitter C library mutates input buffers via CGO.
	// Parse a defensive copy so callers keep their bytes intact.
	buf := make([]byte, len(content))
	copy(buf, content)

	return p.parser.Parse(buf, nil)
}

// nodeText returns the source text covered by a node
func nodeText(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

// namedChildren collects the named children of a node, skipping ERROR
// subtrees so that partial syntax never poisons sibling declarations.
func namedChildren(node *tree_sitter.Node) []*tree_sitter.Node {
	if node == nil {
		return nil
	}
	count := node.NamedChildCount()
	children := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || child.IsError() {
			continue
		}
		children = append(children, child)
	}
	return children
}

// hasChildToken reports whether a node has an anonymous child token of
// the given kind (e.g. "async", "static").
func hasChildToken(node *tree_sitter.Node, kind string) bool {
	if node == nil {
		return false
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}

// trimTypeAnnotation strips the leading ":" from type_annotation text
func trimTypeAnnotation(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), ":"))
}

// stripQuotes removes surrounding string quotes from literal text
func stripQuotes(text string) string {
	return strings.Trim(text, "\"'`")
}

// isShoutCase reports whether a name follows the SCREAMING_SNAKE
// constant convention: at least one letter, and every letter uppercase.
func isShoutCase(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_' || (r >= '0' && r <= '9'):
			// allowed
		default:
			return false
		}
	}
	return hasLetter
}
