// Package generate is the boundary to the text-generation collaborator.
// The pipeline treats generation as opaque: it hands over a request and
// gets back structured body fields or an error. Nothing here inspects
// the generated text beyond assembling it into a document body.
package generate

import (
	"context"
)

// Request carries everything the collaborator may use to describe a
// source file. ExistingDoc is the current document body (without footer)
// when one exists, giving the collaborator continuity context.
type Request struct {
	Path        string
	Language    string
	Source      string
	Skeleton    string
	ExistingDoc string
}

// Result is the structured output of one generation call
type Result struct {
	Summary           string   `json:"summary"`
	InterfaceContract string   `json:"interface_contract"`
	DependenciesHint  string   `json:"dependencies_hint"`
	TestsRef          string   `json:"tests_ref"`
	Warnings          []string `json:"warnings"`
	Tags              []string `json:"tags"`
	CrossReferences   []string `json:"cross_references"`
}

// Generator produces design-document content for one source file
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Regenerator rebuilds the project orientation document after a sweep.
// Consumed as a black box; its failure is never fatal.
type Regenerator interface {
	RegenerateOrientation(ctx context.Context, root string) error
}
