package optimizer

import (
	"fmt"
	"strings"
)

// Mode is the batch-wide policy governing whether optimization is required,
// forbidden, or attempted with a per-file copy fallback.
type Mode int

const (
	// ModeMust requires optimization; any per-file failure fails the batch
	// and no fallback copy is made.
	ModeMust Mode = iota
	// ModeMustNot forbids optimization; every eligible file is copied as-is.
	ModeMustNot
	// ModeShould attempts optimization and silently falls back to copying
	// the original file when the attempt fails.
	ModeShould
)

func (m Mode) String() string {
	switch m {
	case ModeMust:
		return "must"
	case ModeMustNot:
		return "must-not"
	case ModeShould:
		return "should"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode interprets the raw "process" setting. An empty value means
// optimization is required, the same as "yes".
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "yes", "true":
		return ModeMust, nil
	case "no", "false":
		return ModeMustNot, nil
	case "try":
		return ModeShould, nil
	}
	return 0, fmt.Errorf("invalid value for process option: %q (want yes, no, or try)", raw)
}
