package docfile

import (
	"strings"
)

const maxDescriptionLen = 160

// Description returns the document's declared one-line description: the
// first non-empty prose line after any leading headings. Empty when the
// body has no prose.
func Description(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<!--") {
			continue
		}
		return truncate(line, maxDescriptionLen)
	}
	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
