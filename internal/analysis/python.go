package analysis

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// pythonLifecycleNames are dunder names kept in the skeleton even though
// they start with the privacy marker.
var pythonLifecycleNames = map[string]bool{
	"__init__": true,
	"__new__":  true,
	"__call__": true,
}

// PythonAnalyzer extracts the public interface of a Python module.
//
// Visibility rules: names with a leading underscore are private except
// for the lifecycle allow-list; a module-level assignment is a constant
// when its name is SHOUT_CASE or it carries a type annotation; __all__
// provides the export list when it is a static list/tuple of string
// literals, and is treated as empty otherwise.
type PythonAnalyzer struct {
	parser *tsParser
}

// NewPythonAnalyzer creates a new Python analyzer
func NewPythonAnalyzer() *PythonAnalyzer {
	return &PythonAnalyzer{parser: newTSParser(tree_sitter_python.Language())}
}

// Language returns the language tag
func (pa *PythonAnalyzer) Language() string { return "python" }

// Extensions returns the file extensions handled by this analyzer
func (pa *PythonAnalyzer) Extensions() []string { return []string{".py", ".pyi"} }

// ExtractInterface parses source bytes into an interface skeleton.
// Malformed subtrees are skipped; whatever top-level declarations parsed
// successfully are kept.
func (pa *PythonAnalyzer) ExtractInterface(content []byte) (*skeleton.InterfaceSkeleton, error) {
	sk := &skeleton.InterfaceSkeleton{Language: pa.Language()}

	tree := pa.parser.parse(content)
	if tree == nil {
		return sk, nil
	}
	defer tree.Close()

	for _, node := range namedChildren(tree.RootNode()) {
		switch node.Kind() {
		case "function_definition":
			if fn, ok := pa.parseFunction(node, content, false, nil); ok {
				sk.Functions = append(sk.Functions, fn)
			}
		case "decorated_definition":
			pa.parseDecorated(node, content, sk, nil)
		case "class_definition":
			if cls, ok := pa.parseClass(node, content, nil); ok {
				sk.Classes = append(sk.Classes, cls)
			}
		case "expression_statement":
			pa.parseModuleAssignment(node, content, sk)
		}
	}

	return sk, nil
}

func (pa *PythonAnalyzer) visible(name string) bool {
	if !strings.HasPrefix(name, "_") {
		return true
	}
	return pythonLifecycleNames[name]
}

// parseDecorated unwraps a decorated_definition: decorators that mark
// structure (staticmethod, classmethod, property) are reflected in the
// signature flags; any other decoration is ignored.
func (pa *PythonAnalyzer) parseDecorated(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton, cls *skeleton.ClassSig) {
	var decorators []string
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "decorator":
			decorators = append(decorators, strings.TrimPrefix(nodeText(child, content), "@"))
		case "function_definition":
			if fn, ok := pa.parseFunction(child, content, cls != nil, decorators); ok {
				if cls != nil {
					cls.Methods = append(cls.Methods, fn)
				} else {
					sk.Functions = append(sk.Functions, fn)
				}
			}
		case "class_definition":
			if cls == nil {
				if inner, ok := pa.parseClass(child, content, decorators); ok {
					sk.Classes = append(sk.Classes, inner)
				}
			}
		}
	}
}

func (pa *PythonAnalyzer) parseFunction(node *tree_sitter.Node, content []byte, inClass bool, decorators []string) (skeleton.FunctionSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !pa.visible(name) {
		return skeleton.FunctionSig{}, false
	}

	fn := skeleton.FunctionSig{
		Name:     name,
		IsAsync:  hasChildToken(node, "async"),
		IsMethod: inClass,
	}
	for _, dec := range decorators {
		switch dec {
		case "staticmethod":
			fn.IsStatic = true
		case "classmethod":
			fn.IsClassMethod = true
		case "property":
			fn.IsProperty = true
		}
	}

	fn.Parameters = pa.parseParameters(node.ChildByFieldName("parameters"), content)

	// The implicit receiver (self/cls) is elided for methods; static
	// methods have no receiver to elide.
	if inClass && !fn.IsStatic && len(fn.Parameters) > 0 {
		fn.Parameters = fn.Parameters[1:]
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = strings.TrimSpace(nodeText(ret, content))
	}

	return fn, true
}

func (pa *PythonAnalyzer) parseParameters(params *tree_sitter.Node, content []byte) []skeleton.ParameterSig {
	if params == nil {
		return nil
	}

	var out []skeleton.ParameterSig
	for _, p := range namedChildren(params) {
		switch p.Kind() {
		case "identifier":
			out = append(out, skeleton.ParameterSig{Name: nodeText(p, content)})
		case "typed_parameter":
			sig := skeleton.ParameterSig{
				Type: strings.TrimSpace(nodeText(p.ChildByFieldName("type"), content)),
			}
			// The pattern (identifier or splat) is the first named
			// child; the type lives in its own field.
			for _, inner := range namedChildren(p) {
				if inner.Kind() != "type" {
					sig.Name = nodeText(inner, content)
					break
				}
			}
			out = append(out, sig)
		case "default_parameter":
			out = append(out, skeleton.ParameterSig{
				Name:    nodeText(p.ChildByFieldName("name"), content),
				Default: strings.TrimSpace(nodeText(p.ChildByFieldName("value"), content)),
			})
		case "typed_default_parameter":
			out = append(out, skeleton.ParameterSig{
				Name:    nodeText(p.ChildByFieldName("name"), content),
				Type:    strings.TrimSpace(nodeText(p.ChildByFieldName("type"), content)),
				Default: strings.TrimSpace(nodeText(p.ChildByFieldName("value"), content)),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, skeleton.ParameterSig{Name: nodeText(p, content)})
		case "keyword_separator":
			out = append(out, skeleton.ParameterSig{Name: "*"})
		case "positional_separator":
			out = append(out, skeleton.ParameterSig{Name: "/"})
		}
	}
	return out
}

func (pa *PythonAnalyzer) parseClass(node *tree_sitter.Node, content []byte, _ []string) (skeleton.ClassSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !pa.visible(name) {
		return skeleton.ClassSig{}, false
	}

	cls := skeleton.ClassSig{Name: name}

	// Base order is preserved as declared; metaclass= and other keyword
	// arguments are not bases.
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for _, base := range namedChildren(supers) {
			if base.Kind() == "keyword_argument" {
				continue
			}
			cls.Bases = append(cls.Bases, strings.TrimSpace(nodeText(base, content)))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for _, stmt := range namedChildren(body) {
			switch stmt.Kind() {
			case "function_definition":
				if fn, ok := pa.parseFunction(stmt, content, true, nil); ok {
					cls.Methods = append(cls.Methods, fn)
				}
			case "decorated_definition":
				pa.parseDecorated(stmt, content, nil, &cls)
			case "expression_statement":
				if c, ok := pa.parseConstant(stmt, content); ok {
					cls.Constants = append(cls.Constants, c)
				}
			}
		}
	}

	return cls, true
}

// parseModuleAssignment handles a top-level expression_statement: either
// the __all__ export list or a module constant.
func (pa *PythonAnalyzer) parseModuleAssignment(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton) {
	assign := firstOfKind(node, "assignment")
	if assign == nil {
		return
	}

	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}

	if nodeText(left, content) == "__all__" {
		sk.Exports = append(sk.Exports, pa.parseAllList(assign.ChildByFieldName("right"), content)...)
		return
	}

	if c, ok := pa.parseConstant(node, content); ok {
		sk.Constants = append(sk.Constants, c)
	}
}

// parseConstant extracts a ConstantSig from an expression_statement
// holding an assignment. A name qualifies when it is SHOUT_CASE or
// carries an explicit type annotation.
func (pa *PythonAnalyzer) parseConstant(node *tree_sitter.Node, content []byte) (skeleton.ConstantSig, bool) {
	assign := firstOfKind(node, "assignment")
	if assign == nil {
		return skeleton.ConstantSig{}, false
	}

	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return skeleton.ConstantSig{}, false
	}

	name := nodeText(left, content)
	if name == "__all__" || !pa.visible(name) {
		return skeleton.ConstantSig{}, false
	}

	typeText := ""
	if t := assign.ChildByFieldName("type"); t != nil {
		typeText = strings.TrimSpace(nodeText(t, content))
	}

	if !isShoutCase(name) && typeText == "" {
		return skeleton.ConstantSig{}, false
	}

	return skeleton.ConstantSig{Name: name, Type: typeText}, true
}

// parseAllList reads __all__ = ["a", "b"]. Any non-literal element makes
// the whole list dynamic, which is treated as an empty export list.
func (pa *PythonAnalyzer) parseAllList(right *tree_sitter.Node, content []byte) []string {
	if right == nil {
		return nil
	}
	if kind := right.Kind(); kind != "list" && kind != "tuple" {
		return nil
	}

	var names []string
	for _, item := range namedChildren(right) {
		if item.Kind() != "string" {
			return nil
		}
		names = append(names, stripQuotes(nodeText(item, content)))
	}
	return names
}

// firstOfKind returns the first named child with the given kind
func firstOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
