package pipeline

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/ddoc/internal/generate"
)

// renderBody assembles a document body from generated content and the
// resolved forward dependencies. The footer is appended separately at
// write time.
func renderBody(rel string, result *generate.Result, dependencies []string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rel)

	if result.Summary != "" {
		b.WriteString(strings.TrimSpace(result.Summary))
		b.WriteString("\n\n")
	}

	if result.InterfaceContract != "" {
		b.WriteString("## Interface\n\n")
		b.WriteString(strings.TrimSpace(result.InterfaceContract))
		b.WriteString("\n\n")
	}

	if len(dependencies) > 0 || result.DependenciesHint != "" {
		b.WriteString("## Dependencies\n\n")
		for _, dep := range dependencies {
			fmt.Fprintf(&b, "- `%s`\n", dep)
		}
		if result.DependenciesHint != "" {
			if len(dependencies) > 0 {
				b.WriteString("\n")
			}
			b.WriteString(strings.TrimSpace(result.DependenciesHint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if result.TestsRef != "" {
		b.WriteString("## Tests\n\n")
		b.WriteString(strings.TrimSpace(result.TestsRef))
		b.WriteString("\n\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(result.CrossReferences) > 0 {
		b.WriteString("## See also\n\n")
		for _, ref := range result.CrossReferences {
			fmt.Fprintf(&b, "- %s\n", ref)
		}
		b.WriteString("\n")
	}

	if len(result.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(result.Tags, ", "))
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}
