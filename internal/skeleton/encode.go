package skeleton

import (
	"sort"
	"strings"
)

// encodingVersion tags every canonical encoding so that "no public
// interface" is distinguishable from "unparsed", and so the token
// grammar can evolve without silently colliding with old hashes.
const encodingVersion = "ddoc-skeleton v1"

// Render serializes a skeleton deterministically for hashing.
//
// Contract:
//   - constants, functions, classes are emitted in name-sorted order
//     (ties broken by the full encoded line, so equal-named overloads
//     still encode deterministically)
//   - exports are emitted in name-sorted order
//   - class bases keep declaration order
//   - every parameter (name, type, default), the return type, and all
//     boolean flags participate in a function's encoding
//   - Path and Language are excluded: identical interfaces hash
//     identically regardless of file location
//   - the empty skeleton still renders the version header
func Render(s *InterfaceSkeleton) []byte {
	var b strings.Builder
	b.WriteString(encodingVersion)
	b.WriteByte('\n')

	for _, line := range sortedLines(encodeConstants(s.Constants, "")) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, line := range sortedLines(encodeFunctions(s.Functions, "")) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	classLines := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		classLines = append(classLines, encodeClass(c))
	}
	for _, line := range sortedLines(classLines) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	exports := append([]string(nil), s.Exports...)
	sort.Strings(exports)
	for _, name := range exports {
		b.WriteString("export ")
		b.WriteString(name)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

func encodeConstants(constants []ConstantSig, indent string) []string {
	lines := make([]string, 0, len(constants))
	for _, c := range constants {
		var b strings.Builder
		b.WriteString(indent)
		b.WriteString("const ")
		b.WriteString(c.Name)
		if c.Type != "" {
			b.WriteString(": ")
			b.WriteString(c.Type)
		}
		lines = append(lines, b.String())
	}
	return lines
}

func encodeFunctions(functions []FunctionSig, indent string) []string {
	lines := make([]string, 0, len(functions))
	for _, f := range functions {
		lines = append(lines, indent+encodeFunction(f))
	}
	return lines
}

func encodeFunction(f FunctionSig) string {
	var b strings.Builder
	b.WriteString("func ")
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != "" {
			b.WriteString(": ")
			b.WriteString(p.Type)
		}
		if p.Default != "" {
			b.WriteString(" = ")
			b.WriteString(p.Default)
		}
	}
	b.WriteByte(')')
	if f.ReturnType != "" {
		b.WriteString(" -> ")
		b.WriteString(f.ReturnType)
	}
	if flags := encodeFlags(f); flags != "" {
		b.WriteString(" [")
		b.WriteString(flags)
		b.WriteByte(']')
	}
	return b.String()
}

// encodeFlags emits boolean flags in a fixed order so that each flag
// combination has exactly one encoding.
func encodeFlags(f FunctionSig) string {
	var flags []string
	if f.IsAsync {
		flags = append(flags, "async")
	}
	if f.IsMethod {
		flags = append(flags, "method")
	}
	if f.IsStatic {
		flags = append(flags, "static")
	}
	if f.IsClassMethod {
		flags = append(flags, "classmethod")
	}
	if f.IsProperty {
		flags = append(flags, "property")
	}
	return strings.Join(flags, " ")
}

func encodeClass(c ClassSig) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(c.Name)
	if len(c.Bases) > 0 {
		// Declaration order, never sorted.
		b.WriteByte('(')
		b.WriteString(strings.Join(c.Bases, ", "))
		b.WriteByte(')')
	}
	for _, line := range sortedLines(encodeConstants(c.Constants, "  ")) {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	for _, line := range sortedLines(encodeFunctions(c.Methods, "  ")) {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

// sortedLines returns a name-sorted copy. Encoded lines start with
// "const <name>", "func <name>", or "class <name>", so plain string
// sort orders by declaration name with the full line as tiebreaker.
func sortedLines(lines []string) []string {
	out := append([]string(nil), lines...)
	sort.Strings(out)
	return out
}
