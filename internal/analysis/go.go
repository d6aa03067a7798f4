package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// GoAnalyzer extracts the public interface of a Go source file.
// Visibility is the language's own rule: exported identifiers only.
// Structs and interfaces map to classes, methods attach to their
// receiver's class, and non-struct type declarations are recorded as
// named constants carrying the underlying type.
type GoAnalyzer struct {
	parser *tsParser
}

// NewGoAnalyzer creates a new Go analyzer
func NewGoAnalyzer() *GoAnalyzer {
	return &GoAnalyzer{parser: newTSParser(tree_sitter_go.Language())}
}

// Language returns the language tag
func (ga *GoAnalyzer) Language() string { return "go" }

// Extensions returns the file extensions handled by this analyzer
func (ga *GoAnalyzer) Extensions() []string { return []string{".go"} }

// ExtractInterface parses source bytes into an interface skeleton
func (ga *GoAnalyzer) ExtractInterface(content []byte) (*skeleton.InterfaceSkeleton, error) {
	sk := &skeleton.InterfaceSkeleton{Language: ga.Language()}

	tree := ga.parser.parse(content)
	if tree == nil {
		return sk, nil
	}
	defer tree.Close()

	// Methods may precede their receiver's type declaration, so classes
	// are collected first and methods attached afterwards.
	classes := make(map[string]*skeleton.ClassSig)
	var classOrder []string
	addClass := func(cls skeleton.ClassSig) *skeleton.ClassSig {
		if existing, ok := classes[cls.Name]; ok {
			return existing
		}
		classes[cls.Name] = &cls
		classOrder = append(classOrder, cls.Name)
		return classes[cls.Name]
	}

	root := tree.RootNode()
	for _, node := range namedChildren(root) {
		if node.Kind() != "type_declaration" {
			continue
		}
		for _, spec := range namedChildren(node) {
			if spec.Kind() != "type_spec" && spec.Kind() != "type_alias" {
				continue
			}
			ga.parseTypeSpec(spec, content, sk, addClass)
		}
	}

	for _, node := range namedChildren(root) {
		switch node.Kind() {
		case "function_declaration":
			if fn, ok := ga.parseFunction(node, content, false); ok {
				sk.Functions = append(sk.Functions, fn)
			}
		case "method_declaration":
			ga.parseMethod(node, content, addClass)
		case "const_declaration":
			ga.parseConsts(node, content, sk)
		}
	}

	for _, name := range classOrder {
		sk.Classes = append(sk.Classes, *classes[name])
	}
	return sk, nil
}

func goExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (ga *GoAnalyzer) parseTypeSpec(spec *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton, addClass func(skeleton.ClassSig) *skeleton.ClassSig) {
	name := nodeText(spec.ChildByFieldName("name"), content)
	if name == "" || !goExported(name) {
		return
	}

	typeNode := spec.ChildByFieldName("type")
	if typeNode == nil {
		typeNode = spec.ChildByFieldName("value")
	}
	if typeNode == nil {
		return
	}

	switch typeNode.Kind() {
	case "struct_type":
		cls := skeleton.ClassSig{Name: name}
		ga.parseStructFields(typeNode, content, &cls)
		addClass(cls)
	case "interface_type":
		cls := skeleton.ClassSig{Name: name}
		ga.parseInterfaceBody(typeNode, content, &cls)
		addClass(cls)
	default:
		// Named types and aliases surface as a name with its underlying type
		sk.Constants = append(sk.Constants, skeleton.ConstantSig{
			Name: name,
			Type: strings.TrimSpace(nodeText(typeNode, content)),
		})
	}
}

// parseStructFields records exported fields; embedded types become bases.
func (ga *GoAnalyzer) parseStructFields(structType *tree_sitter.Node, content []byte, cls *skeleton.ClassSig) {
	body := firstOfKind(structType, "field_declaration_list")
	if body == nil {
		return
	}
	for _, field := range namedChildren(body) {
		if field.Kind() != "field_declaration" {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		typeText := strings.TrimSpace(nodeText(typeNode, content))

		named := false
		for _, child := range namedChildren(field) {
			if child.Kind() != "field_identifier" {
				continue
			}
			named = true
			fieldName := nodeText(child, content)
			if goExported(fieldName) {
				cls.Constants = append(cls.Constants, skeleton.ConstantSig{Name: fieldName, Type: typeText})
			}
		}
		if !named {
			// Embedded field: the whole declaration is the type
			base := strings.TrimPrefix(strings.TrimSpace(nodeText(field, content)), "*")
			if base != "" && goExported(strings.TrimPrefix(base, "*")) {
				cls.Bases = append(cls.Bases, base)
			}
		}
	}
}

// parseInterfaceBody records method signatures; embedded interfaces
// become bases.
func (ga *GoAnalyzer) parseInterfaceBody(ifaceType *tree_sitter.Node, content []byte, cls *skeleton.ClassSig) {
	for _, member := range namedChildren(ifaceType) {
		switch member.Kind() {
		case "method_elem", "method_spec":
			name := nodeText(member.ChildByFieldName("name"), content)
			if name == "" || !goExported(name) {
				continue
			}
			fn := skeleton.FunctionSig{
				Name:       name,
				IsMethod:   true,
				Parameters: ga.parseParameters(member.ChildByFieldName("parameters"), content),
			}
			if result := member.ChildByFieldName("result"); result != nil {
				fn.ReturnType = strings.TrimSpace(nodeText(result, content))
			}
			cls.Methods = append(cls.Methods, fn)
		case "type_elem", "type_identifier", "qualified_type":
			base := strings.TrimSpace(nodeText(member, content))
			if base != "" {
				cls.Bases = append(cls.Bases, base)
			}
		}
	}
}

func (ga *GoAnalyzer) parseFunction(node *tree_sitter.Node, content []byte, isMethod bool) (skeleton.FunctionSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !goExported(name) {
		return skeleton.FunctionSig{}, false
	}

	fn := skeleton.FunctionSig{
		Name:       name,
		IsMethod:   isMethod,
		Parameters: ga.parseParameters(node.ChildByFieldName("parameters"), content),
	}
	if result := node.ChildByFieldName("result"); result != nil {
		fn.ReturnType = strings.TrimSpace(nodeText(result, content))
	}
	return fn, true
}

// parseMethod attaches an exported method to its receiver's class,
// creating the class entry when the type is declared elsewhere.
func (ga *GoAnalyzer) parseMethod(node *tree_sitter.Node, content []byte, addClass func(skeleton.ClassSig) *skeleton.ClassSig) {
	fn, ok := ga.parseFunction(node, content, true)
	if !ok {
		return
	}

	recv := ga.receiverType(node.ChildByFieldName("receiver"), content)
	if recv == "" || !goExported(recv) {
		return
	}
	cls := addClass(skeleton.ClassSig{Name: recv})
	cls.Methods = append(cls.Methods, fn)
}

func (ga *GoAnalyzer) receiverType(receiver *tree_sitter.Node, content []byte) string {
	if receiver == nil {
		return ""
	}
	decl := firstOfKind(receiver, "parameter_declaration")
	if decl == nil {
		return ""
	}
	text := strings.TrimSpace(nodeText(decl.ChildByFieldName("type"), content))
	text = strings.TrimPrefix(text, "*")
	// Generic receivers keep just the base name
	if i := strings.IndexByte(text, '['); i >= 0 {
		text = text[:i]
	}
	return text
}

// parseConsts walks a const block. A spec may declare several names;
// iota-style specs without an explicit type inherit the empty type.
func (ga *GoAnalyzer) parseConsts(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton) {
	for _, spec := range namedChildren(node) {
		if spec.Kind() != "const_spec" {
			continue
		}
		typeText := ""
		if t := spec.ChildByFieldName("type"); t != nil {
			typeText = strings.TrimSpace(nodeText(t, content))
		}
		for _, child := range namedChildren(spec) {
			if child.Kind() != "identifier" {
				break
			}
			name := nodeText(child, content)
			if goExported(name) {
				sk.Constants = append(sk.Constants, skeleton.ConstantSig{Name: name, Type: typeText})
			}
		}
	}
}

func (ga *GoAnalyzer) parseParameters(params *tree_sitter.Node, content []byte) []skeleton.ParameterSig {
	if params == nil {
		return nil
	}

	var out []skeleton.ParameterSig
	for _, p := range namedChildren(params) {
		switch p.Kind() {
		case "parameter_declaration", "variadic_parameter_declaration":
			typeText := strings.TrimSpace(nodeText(p.ChildByFieldName("type"), content))
			if p.Kind() == "variadic_parameter_declaration" {
				typeText = "..." + typeText
			}
			names := 0
			for _, child := range namedChildren(p) {
				if child.Kind() != "identifier" {
					continue
				}
				names++
				out = append(out, skeleton.ParameterSig{Name: nodeText(child, content), Type: typeText})
			}
			if names == 0 {
				out = append(out, skeleton.ParameterSig{Name: "_", Type: typeText})
			}
		}
	}
	return out
}
