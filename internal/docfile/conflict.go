package docfile

import (
	"bytes"
)

var (
	conflictStart = []byte("<<<<<<< ")
	conflictEnd   = []byte(">>>>>>> ")
)

// FindConflictMarkers scans source bytes for unresolved merge-conflict
// markers. Both an opening and a closing marker must be present at line
// starts; a lone "=======" ruler (common in markdown and comments) never
// trips the guard. Returns the 1-based line of the opening marker, or 0.
func FindConflictMarkers(src []byte) int {
	startLine := 0
	haveEnd := false

	line := 1
	for len(src) > 0 {
		if startLine == 0 && bytes.HasPrefix(src, conflictStart) {
			startLine = line
		}
		if startLine != 0 && bytes.HasPrefix(src, conflictEnd) {
			haveEnd = true
			break
		}
		nl := bytes.IndexByte(src, '\n')
		if nl < 0 {
			break
		}
		src = src[nl+1:]
		line++
	}

	if startLine != 0 && haveEnd {
		return startLine
	}
	return 0
}
