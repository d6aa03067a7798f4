// Package docfile is the design-document file model: the trailing
// metadata footer, body/footer splitting, document assembly, the
// merge-conflict guard, atomic persistence, output-tree path mapping,
// and the per-directory index artifact.
package docfile

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const (
	footerOpen  = "<!-- ddoc:meta"
	footerClose = "-->"

	// Timestamps are local time with no zone suffix.
	timeLayout = "2006-01-02T15:04:05"
)

// Footer is the staleness metadata persisted at the end of every
// generated document. InterfaceHash is "" when the source language has
// no analyzer; the field is then omitted from the serialized block.
type Footer struct {
	Source        string
	SourceHash    string
	InterfaceHash string
	DesignHash    string
	Generated     string
	Generator     string
}

// NewFooter stamps a footer with the current time and the given
// generator identifier.
func NewFooter(source, sourceHash, interfaceHash, designHash, generator string) *Footer {
	return &Footer{
		Source:        source,
		SourceHash:    sourceHash,
		InterfaceHash: interfaceHash,
		DesignHash:    designHash,
		Generated:     time.Now().Format(timeLayout),
		Generator:     generator,
	}
}

// Format serializes the footer block. Field order is fixed;
// interface_hash is omitted entirely when empty.
func (f *Footer) Format() []byte {
	var b strings.Builder
	b.WriteString(footerOpen)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "source: %s\n", f.Source)
	fmt.Fprintf(&b, "source_hash: %s\n", f.SourceHash)
	if f.InterfaceHash != "" {
		fmt.Fprintf(&b, "interface_hash: %s\n", f.InterfaceHash)
	}
	fmt.Fprintf(&b, "design_hash: %s\n", f.DesignHash)
	fmt.Fprintf(&b, "generated: %s\n", f.Generated)
	fmt.Fprintf(&b, "generator: %s\n", f.Generator)
	b.WriteString(footerClose)
	b.WriteByte('\n')
	return []byte(b.String())
}

// footerFields in required order; interface_hash may be absent.
var footerFields = []struct {
	key      string
	optional bool
}{
	{"source", false},
	{"source_hash", false},
	{"interface_hash", true},
	{"design_hash", false},
	{"generated", false},
	{"generator", false},
}

// Split separates a document into body and parsed footer. A missing or
// structurally malformed footer block yields a nil footer and the whole
// document as body; the caller's classifier treats both the same way.
func Split(doc []byte) (body []byte, footer *Footer) {
	trimmed := bytes.TrimRight(doc, " \t\r\n")
	if !bytes.HasSuffix(trimmed, []byte(footerClose)) {
		return doc, nil
	}
	start := bytes.LastIndex(trimmed, []byte(footerOpen))
	if start < 0 {
		return doc, nil
	}

	block := trimmed[start:]
	footer = parseBlock(block)
	if footer == nil {
		return doc, nil
	}
	return doc[:start], footer
}

// parseBlock parses one footer block. Fields must appear in the fixed
// order, each exactly once, with interface_hash the only optional one;
// anything else makes the block malformed.
func parseBlock(block []byte) *Footer {
	inner := bytes.TrimSuffix(block, []byte(footerClose))
	inner = bytes.TrimPrefix(inner, []byte(footerOpen))

	var lines []string
	for _, line := range strings.Split(string(inner), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	values := make(map[string]string, len(footerFields))
	next := 0
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil
		}
		key = strings.TrimSpace(key)

		matched := false
		for next < len(footerFields) {
			field := footerFields[next]
			next++
			if field.key == key {
				matched = true
				break
			}
			if !field.optional {
				return nil
			}
		}
		if !matched {
			return nil
		}
		values[key] = strings.TrimSpace(value)
	}

	// Remaining required fields mean the block is truncated
	for ; next < len(footerFields); next++ {
		if !footerFields[next].optional {
			return nil
		}
	}

	f := &Footer{
		Source:        values["source"],
		SourceHash:    values["source_hash"],
		InterfaceHash: values["interface_hash"],
		DesignHash:    values["design_hash"],
		Generated:     values["generated"],
		Generator:     values["generator"],
	}
	if f.Source == "" || f.SourceHash == "" || f.DesignHash == "" {
		return nil
	}
	return f
}

// Compose assembles a full document from body text and a footer. The
// body keeps exactly one blank line before the footer block. Only
// trailing newlines are normalized, the same set the design-body hash
// ignores; any other body byte passes through untouched so a footer
// refresh never changes what the hash covers.
func Compose(body []byte, footer *Footer) []byte {
	out := append([]byte(nil), bytes.TrimRight(body, "\r\n")...)
	out = append(out, '\n', '\n')
	out = append(out, footer.Format()...)
	return out
}
