package optimizer

import "time"

// Status is the closed set of per-file results.
type Status int

const (
	StatusSkipped Status = iota
	StatusOptimized
	StatusCopied
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusOptimized:
		return "optimized"
	case StatusCopied:
		return "copied"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of processing one Task. Every processed task yields
// exactly one Outcome; a file is never both copied and optimized.
type Outcome struct {
	Status   Status
	Reason   string // skip reason or failure detail
	Duration time.Duration
}

// Skipped marks a task left untouched for the given reason.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Optimized marks a successful optimizer run.
func Optimized(d time.Duration) Outcome {
	return Outcome{Status: StatusOptimized, Duration: d}
}

// Copied marks a direct or fallback copy.
func Copied(d time.Duration) Outcome {
	return Outcome{Status: StatusCopied, Duration: d}
}

// Failed marks a task that could neither be optimized nor copied.
func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}
