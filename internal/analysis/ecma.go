package analysis

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

// ecmaExtractor holds the interface-extraction walk shared by the
// JavaScript and TypeScript analyzers. The two grammars emit mostly
// identical node kinds; typescript=true additionally handles type
// annotations, interfaces, enums, type aliases, and accessibility
// modifiers.
type ecmaExtractor struct {
	language   string
	typescript bool
	parser     *tsParser
}

func (e *ecmaExtractor) extract(content []byte) *skeleton.InterfaceSkeleton {
	sk := &skeleton.InterfaceSkeleton{Language: e.language}

	tree := e.parser.parse(content)
	if tree == nil {
		return sk
	}
	defer tree.Close()

	for _, node := range namedChildren(tree.RootNode()) {
		e.extractStatement(node, content, sk, false)
	}
	return sk
}

// extractStatement handles one top-level statement. exported marks
// statements reached through an export_statement wrapper, whose declared
// names join the export list.
func (e *ecmaExtractor) extractStatement(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton, exported bool) {
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if fn, ok := e.parseFunction(node, content, false); ok {
			sk.Functions = append(sk.Functions, fn)
			if exported {
				sk.Exports = append(sk.Exports, fn.Name)
			}
		}

	case "class_declaration", "abstract_class_declaration":
		if cls, ok := e.parseClass(node, content); ok {
			sk.Classes = append(sk.Classes, cls)
			if exported {
				sk.Exports = append(sk.Exports, cls.Name)
			}
		}

	case "lexical_declaration", "variable_declaration":
		e.parseDeclarators(node, content, sk, exported)

	case "interface_declaration":
		if !e.typescript {
			return
		}
		if cls, ok := e.parseInterface(node, content); ok {
			sk.Classes = append(sk.Classes, cls)
			if exported {
				sk.Exports = append(sk.Exports, cls.Name)
			}
		}

	case "enum_declaration":
		if !e.typescript {
			return
		}
		if cls, ok := e.parseEnum(node, content); ok {
			sk.Classes = append(sk.Classes, cls)
			if exported {
				sk.Exports = append(sk.Exports, cls.Name)
			}
		}

	case "type_alias_declaration":
		if !e.typescript {
			return
		}
		name := nodeText(node.ChildByFieldName("name"), content)
		if name == "" || !e.visible(name) {
			return
		}
		sk.Constants = append(sk.Constants, skeleton.ConstantSig{
			Name: name,
			Type: strings.TrimSpace(nodeText(node.ChildByFieldName("value"), content)),
		})
		if exported {
			sk.Exports = append(sk.Exports, name)
		}

	case "export_statement":
		e.parseExport(node, content, sk)
	}
}

func (e *ecmaExtractor) visible(name string) bool {
	if name == "constructor" {
		return true
	}
	return !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "#")
}

// parseExport handles the explicit export forms. Only statically
// declared names are honored; `export *` re-exports contribute nothing.
func (e *ecmaExtractor) parseExport(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		e.extractStatement(decl, content, sk, true)
		return
	}

	if hasChildToken(node, "default") {
		sk.Exports = append(sk.Exports, "default")
		// export default function f() {} / class C {} still declares
		for _, child := range namedChildren(node) {
			switch child.Kind() {
			case "function_declaration", "generator_function_declaration",
				"class_declaration", "abstract_class_declaration":
				e.extractStatement(child, content, sk, false)
			}
		}
		return
	}

	for _, child := range namedChildren(node) {
		if child.Kind() != "export_clause" {
			continue
		}
		for _, spec := range namedChildren(child) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := nodeText(spec.ChildByFieldName("name"), content)
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				name = nodeText(alias, content)
			}
			if name != "" {
				sk.Exports = append(sk.Exports, name)
			}
		}
	}
}

// parseDeclarators walks const/let/var declarators: function-valued
// declarators become functions, const SHOUT_CASE (or type-annotated, in
// TypeScript) declarators become constants.
func (e *ecmaExtractor) parseDeclarators(node *tree_sitter.Node, content []byte, sk *skeleton.InterfaceSkeleton, exported bool) {
	isConst := hasChildToken(node, "const")

	for _, decl := range namedChildren(node) {
		if decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		name := nodeText(nameNode, content)
		if !e.visible(name) {
			continue
		}

		value := decl.ChildByFieldName("value")
		if value != nil && isFunctionValue(value.Kind()) {
			fn := e.parseFunctionValue(value, content, name)
			sk.Functions = append(sk.Functions, fn)
			if exported {
				sk.Exports = append(sk.Exports, name)
			}
			continue
		}

		typeText := ""
		if t := decl.ChildByFieldName("type"); t != nil {
			typeText = trimTypeAnnotation(nodeText(t, content))
		}
		if isConst && (isShoutCase(name) || typeText != "") {
			sk.Constants = append(sk.Constants, skeleton.ConstantSig{Name: name, Type: typeText})
			if exported {
				sk.Exports = append(sk.Exports, name)
			}
		}
	}
}

func isFunctionValue(kind string) bool {
	switch kind {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// parseFunctionValue builds a FunctionSig for a function assigned to a
// named binding (const f = () => ...).
func (e *ecmaExtractor) parseFunctionValue(value *tree_sitter.Node, content []byte, name string) skeleton.FunctionSig {
	fn := skeleton.FunctionSig{
		Name:    name,
		IsAsync: hasChildToken(value, "async"),
	}
	if params := value.ChildByFieldName("parameters"); params != nil {
		fn.Parameters = e.parseParameters(params, content)
	} else if single := value.ChildByFieldName("parameter"); single != nil {
		// x => ... has a bare identifier parameter
		fn.Parameters = []skeleton.ParameterSig{{Name: nodeText(single, content)}}
	}
	if ret := value.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = trimTypeAnnotation(nodeText(ret, content))
	}
	return fn
}

func (e *ecmaExtractor) parseFunction(node *tree_sitter.Node, content []byte, inClass bool) (skeleton.FunctionSig, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() == "private_property_identifier" {
		return skeleton.FunctionSig{}, false
	}
	name := nodeText(nameNode, content)
	if name == "" || !e.visible(name) {
		return skeleton.FunctionSig{}, false
	}

	// TypeScript accessibility modifiers hide private/protected members
	if e.typescript && e.isPrivateMember(node, content) {
		return skeleton.FunctionSig{}, false
	}

	fn := skeleton.FunctionSig{
		Name:       name,
		IsAsync:    hasChildToken(node, "async"),
		IsMethod:   inClass,
		IsStatic:   hasChildToken(node, "static"),
		IsProperty: hasChildToken(node, "get") || hasChildToken(node, "set"),
	}
	fn.Parameters = e.parseParameters(node.ChildByFieldName("parameters"), content)
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = trimTypeAnnotation(nodeText(ret, content))
	}
	return fn, true
}

func (e *ecmaExtractor) isPrivateMember(node *tree_sitter.Node, content []byte) bool {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "accessibility_modifier" {
			mod := nodeText(child, content)
			return mod == "private" || mod == "protected"
		}
	}
	return false
}

func (e *ecmaExtractor) parseParameters(params *tree_sitter.Node, content []byte) []skeleton.ParameterSig {
	if params == nil {
		return nil
	}

	var out []skeleton.ParameterSig
	for _, p := range namedChildren(params) {
		switch p.Kind() {
		case "identifier":
			out = append(out, skeleton.ParameterSig{Name: nodeText(p, content)})

		case "assignment_pattern":
			out = append(out, skeleton.ParameterSig{
				Name:    nodeText(p.ChildByFieldName("left"), content),
				Default: strings.TrimSpace(nodeText(p.ChildByFieldName("right"), content)),
			})

		case "rest_pattern", "object_pattern", "array_pattern":
			// Destructuring and rest parameters keep their source text as
			// the name so any shape change alters the signature.
			out = append(out, skeleton.ParameterSig{Name: nodeText(p, content)})

		case "required_parameter", "optional_parameter":
			sig := skeleton.ParameterSig{
				Name: nodeText(p.ChildByFieldName("pattern"), content),
			}
			if p.Kind() == "optional_parameter" {
				sig.Name += "?"
			}
			if t := p.ChildByFieldName("type"); t != nil {
				sig.Type = trimTypeAnnotation(nodeText(t, content))
			}
			if v := p.ChildByFieldName("value"); v != nil {
				sig.Default = strings.TrimSpace(nodeText(v, content))
			}
			out = append(out, sig)
		}
	}
	return out
}

func (e *ecmaExtractor) parseClass(node *tree_sitter.Node, content []byte) (skeleton.ClassSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !e.visible(name) {
		return skeleton.ClassSig{}, false
	}

	cls := skeleton.ClassSig{Name: name}
	cls.Bases = e.parseHeritage(node, content)

	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range namedChildren(body) {
			switch member.Kind() {
			case "method_definition", "abstract_method_signature":
				if fn, ok := e.parseFunction(member, content, true); ok {
					cls.Methods = append(cls.Methods, fn)
				}
			case "field_definition", "public_field_definition":
				if c, ok := e.parseFieldConstant(member, content); ok {
					cls.Constants = append(cls.Constants, c)
				}
			}
		}
	}
	return cls, true
}

// parseHeritage collects extends (and, in TypeScript, implements) names
// in declaration order.
func (e *ecmaExtractor) parseHeritage(node *tree_sitter.Node, content []byte) []string {
	var bases []string
	for _, child := range namedChildren(node) {
		if child.Kind() != "class_heritage" {
			continue
		}
		clauses := namedChildren(child)
		if len(clauses) == 0 {
			// JavaScript grammar: class_heritage wraps the expression directly
			text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(child, content)), "extends"))
			if text != "" {
				bases = append(bases, text)
			}
			continue
		}
		for _, clause := range clauses {
			switch clause.Kind() {
			case "extends_clause", "implements_clause":
				for _, t := range namedChildren(clause) {
					bases = append(bases, strings.TrimSpace(nodeText(t, content)))
				}
			default:
				bases = append(bases, strings.TrimSpace(nodeText(clause, content)))
			}
		}
	}
	return bases
}

func (e *ecmaExtractor) parseFieldConstant(node *tree_sitter.Node, content []byte) (skeleton.ConstantSig, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = node.ChildByFieldName("property")
	}
	if nameNode == nil || nameNode.Kind() == "private_property_identifier" {
		return skeleton.ConstantSig{}, false
	}
	name := nodeText(nameNode, content)
	if name == "" || !e.visible(name) {
		return skeleton.ConstantSig{}, false
	}
	if e.typescript && e.isPrivateMember(node, content) {
		return skeleton.ConstantSig{}, false
	}

	typeText := ""
	if t := node.ChildByFieldName("type"); t != nil {
		typeText = trimTypeAnnotation(nodeText(t, content))
	}
	if !isShoutCase(name) && typeText == "" {
		return skeleton.ConstantSig{}, false
	}
	return skeleton.ConstantSig{Name: name, Type: typeText}, true
}

func (e *ecmaExtractor) parseInterface(node *tree_sitter.Node, content []byte) (skeleton.ClassSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !e.visible(name) {
		return skeleton.ClassSig{}, false
	}

	cls := skeleton.ClassSig{Name: name}

	for _, child := range namedChildren(node) {
		if child.Kind() == "extends_type_clause" {
			for _, t := range namedChildren(child) {
				cls.Bases = append(cls.Bases, strings.TrimSpace(nodeText(t, content)))
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range namedChildren(body) {
			switch member.Kind() {
			case "method_signature":
				if fn, ok := e.parseFunction(member, content, true); ok {
					cls.Methods = append(cls.Methods, fn)
				}
			case "property_signature":
				nameNode := member.ChildByFieldName("name")
				pname := nodeText(nameNode, content)
				if pname == "" || !e.visible(pname) {
					continue
				}
				typeText := ""
				if t := member.ChildByFieldName("type"); t != nil {
					typeText = trimTypeAnnotation(nodeText(t, content))
				}
				cls.Constants = append(cls.Constants, skeleton.ConstantSig{Name: pname, Type: typeText})
			}
		}
	}
	return cls, true
}

func (e *ecmaExtractor) parseEnum(node *tree_sitter.Node, content []byte) (skeleton.ClassSig, bool) {
	name := nodeText(node.ChildByFieldName("name"), content)
	if name == "" || !e.visible(name) {
		return skeleton.ClassSig{}, false
	}

	cls := skeleton.ClassSig{Name: name}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range namedChildren(body) {
			switch member.Kind() {
			case "enum_assignment":
				cls.Constants = append(cls.Constants, skeleton.ConstantSig{
					Name: nodeText(member.ChildByFieldName("name"), content),
				})
			case "property_identifier":
				cls.Constants = append(cls.Constants, skeleton.ConstantSig{
					Name: nodeText(member, content),
				})
			}
		}
	}
	return cls, true
}
