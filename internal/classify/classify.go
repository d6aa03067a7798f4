// Package classify maps a design document's stored footer and a source
// file's fresh hashes to a change level. The classifier is a pure, total
// function; every input combination produces exactly one level.
package classify

import (
	"github.com/standardbeagle/ddoc/internal/docfile"
)

// ChangeLevel describes how a source file relates to its design document
type ChangeLevel int

const (
	// NewFile means no design document exists yet
	NewFile ChangeLevel = iota
	// AgentUpdated means the document body was hand-edited, or its
	// footer is missing or unparsable
	AgentUpdated
	// Unchanged means source and document are in sync
	Unchanged
	// ContentOnly means the source changed but its public interface did not
	ContentOnly
	// ContentChanged means the source changed and no interface hash is
	// available to tell whether the surface moved
	ContentChanged
	// InterfaceChanged means the source's public interface changed
	InterfaceChanged
)

var levelNames = map[ChangeLevel]string{
	NewFile:          "NEW_FILE",
	AgentUpdated:     "AGENT_UPDATED",
	Unchanged:        "UNCHANGED",
	ContentOnly:      "CONTENT_ONLY",
	ContentChanged:   "CONTENT_CHANGED",
	InterfaceChanged: "INTERFACE_CHANGED",
}

func (c ChangeLevel) String() string {
	if name, ok := levelNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// NeedsGeneration reports whether this level triggers a generation call
func (c ChangeLevel) NeedsGeneration() bool {
	switch c {
	case NewFile, ContentOnly, ContentChanged, InterfaceChanged:
		return true
	}
	return false
}

// Input carries everything the classifier looks at. Footer is nil when
// the document is missing or its footer block did not parse; the two
// cases are distinguished by DocExists. BodyHash is the design-body hash
// recomputed from the document currently on disk. InterfaceHash is ""
// when the source language has no analyzer.
type Input struct {
	DocExists     bool
	Footer        *docfile.Footer
	BodyHash      string
	ContentHash   string
	InterfaceHash string
}

// Classify applies the decision table. First match wins:
//
//  1. no document                         -> NewFile
//  2. no parsable footer                  -> AgentUpdated
//  3. body hash mismatch (hand edit)      -> AgentUpdated
//  4. source hash equal                   -> Unchanged
//     differs, no interface hash either   -> ContentChanged
//     differs, interface hash equal       -> ContentOnly
//     otherwise                           -> InterfaceChanged
//
// Hand-edit detection dominates the source-side comparisons: a stale
// source hash must never trigger a regeneration that destroys an edit.
func Classify(in Input) ChangeLevel {
	if !in.DocExists {
		return NewFile
	}
	if in.Footer == nil {
		return AgentUpdated
	}
	if in.BodyHash != in.Footer.DesignHash {
		return AgentUpdated
	}
	if in.ContentHash == in.Footer.SourceHash {
		return Unchanged
	}
	if in.InterfaceHash == "" && in.Footer.InterfaceHash == "" {
		return ContentChanged
	}
	if in.InterfaceHash != "" && in.InterfaceHash == in.Footer.InterfaceHash {
		return ContentOnly
	}
	return InterfaceChanged
}
