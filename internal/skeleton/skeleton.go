// Package skeleton defines the language-neutral interface model for a
// source file's public surface, plus the canonical encoder used for
// interface hashing.
package skeleton

// ConstantSig describes a public module-level or class-level constant.
type ConstantSig struct {
	Name string
	Type string // optional type-annotation text, "" when absent
}

// ParameterSig describes one function parameter. Default-value text is
// opaque source text, never evaluated.
type ParameterSig struct {
	Name    string
	Type    string
	Default string
}

// FunctionSig describes a function or method signature. The implicit
// receiver parameter (self/cls, Go receiver) is elided for methods.
type FunctionSig struct {
	Name          string
	Parameters    []ParameterSig
	ReturnType    string
	IsAsync       bool
	IsMethod      bool
	IsStatic      bool
	IsClassMethod bool
	IsProperty    bool
}

// ClassSig describes a class-like declaration (class, interface, enum,
// struct with methods). Base order is preserved as declared - it is
// semantically meaningful for inheritance resolution.
type ClassSig struct {
	Name      string
	Bases     []string
	Methods   []FunctionSig
	Constants []ConstantSig
}

// InterfaceSkeleton is the canonical, order-independent model of one
// file's public declarations. Two skeletons that differ only in
// declaration order, whitespace, or comments encode to identical bytes.
// A skeleton is created fresh on every analysis pass and never mutated
// incrementally.
type InterfaceSkeleton struct {
	Path      string // project-relative; excluded from canonical encoding
	Language  string // language tag; excluded from canonical encoding
	Constants []ConstantSig
	Functions []FunctionSig
	Classes   []ClassSig
	Exports   []string
}

// IsEmpty reports whether the skeleton has no public declarations.
// An empty skeleton is a valid analysis outcome, not an error.
func (s *InterfaceSkeleton) IsEmpty() bool {
	return len(s.Constants) == 0 && len(s.Functions) == 0 &&
		len(s.Classes) == 0 && len(s.Exports) == 0
}
