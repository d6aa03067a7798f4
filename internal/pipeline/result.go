package pipeline

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/ddoc/internal/classify"
)

// FileResult is the per-file outcome record
type FileResult struct {
	Path           string
	Level          classify.ChangeLevel
	IndexRefreshed bool
	BudgetExceeded bool
	Failed         bool
	Err            error
}

// SweepStats accumulates per-level counts and failure flags across a
// sweep or batch update.
type SweepStats struct {
	ByLevel           map[classify.ChangeLevel]int
	Processed         int
	Failed            int
	BudgetExceeded    int
	OrientationFailed bool
	Results           []FileResult
}

func newSweepStats() *SweepStats {
	return &SweepStats{ByLevel: make(map[classify.ChangeLevel]int)}
}

func (s *SweepStats) record(r FileResult) {
	s.Processed++
	s.ByLevel[r.Level]++
	if r.Failed {
		s.Failed++
	}
	if r.BudgetExceeded {
		s.BudgetExceeded++
	}
	s.Results = append(s.Results, r)
}

// Summary renders the end-of-run counters in display order
func (s *SweepStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "processed %d file(s)\n", s.Processed)
	for _, level := range []classify.ChangeLevel{
		classify.NewFile,
		classify.InterfaceChanged,
		classify.ContentOnly,
		classify.ContentChanged,
		classify.AgentUpdated,
		classify.Unchanged,
	} {
		if n := s.ByLevel[level]; n > 0 {
			fmt.Fprintf(&b, "  %-18s %d\n", level.String(), n)
		}
	}
	if s.BudgetExceeded > 0 {
		fmt.Fprintf(&b, "  over size budget   %d\n", s.BudgetExceeded)
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, "  failed             %d\n", s.Failed)
	}
	if s.OrientationFailed {
		b.WriteString("  orientation regeneration failed\n")
	}
	return b.String()
}
