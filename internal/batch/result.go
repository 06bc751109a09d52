package batch

import (
	"fmt"
	"time"
)

// Result aggregates per-file outcomes for one batch run. Counters always sum
// to the number of candidate files that existed when processed.
type Result struct {
	Optimized int
	Copied    int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Total is the number of files that produced an outcome.
func (r Result) Total() int {
	return r.Optimized + r.Copied + r.Skipped + r.Failed
}

// Success reports whether the batch passed: no file may have failed,
// whatever the other counters say.
func (r Result) Success() bool {
	return r.Failed == 0
}

// Summary renders the four counters and total duration in one line.
func (r Result) Summary() string {
	return fmt.Sprintf("%d file(s) optimized, %d file(s) copied, %d file(s) skipped, %d file(s) failed in %s",
		r.Optimized, r.Copied, r.Skipped, r.Failed, r.Elapsed.Round(time.Millisecond))
}

// ProgressUpdate carries counter deltas to the progress UI. TotalDelta grows
// (or shrinks, for files that vanished after enumeration) the expected file
// count; the remaining deltas mirror the Result counters.
type ProgressUpdate struct {
	TotalDelta     int
	OptimizedDelta int
	CopiedDelta    int
	SkippedDelta   int
	FailedDelta    int
}
