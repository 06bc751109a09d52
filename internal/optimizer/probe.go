package optimizer

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"optibatch/internal/execx"
)

// First run of digits and dots after any non-digit prefix.
var versionPattern = regexp.MustCompile(`^[^0-9]*([0-9]+(\.[0-9]+)*)`)

// Probe determines whether the optimizer command is usable by running
// "<command> -version". Under ModeMustNot nothing is invoked and the command
// is reported unavailable. A failing invocation is a fatal error under
// ModeMust and a logged warning under ModeShould. The returned version is
// best-effort: "unknown" when no token can be extracted, which does not
// affect availability.
func Probe(ctx context.Context, runner execx.Runner, command string, mode Mode, timeout time.Duration, log *zap.Logger) (bool, string, error) {
	if mode == ModeMustNot {
		return false, "", nil
	}

	inv := runner.Run(ctx, timeout, command, "-version")
	if inv.Failed() {
		var reason string
		switch {
		case inv.StartErr != nil:
			reason = inv.StartErr.Error()
		case inv.TimedOut:
			reason = fmt.Sprintf("version probe timed out after %s", timeout)
		default:
			reason = fmt.Sprintf("running %q -version resulted in exit code %d", command, inv.ExitCode)
		}
		if mode == ModeMust {
			return false, "", fmt.Errorf("unable to execute optimizer command %q: %s", command, reason)
		}
		log.Warn("optimizer unavailable, falling back to copying",
			zap.String("command", command),
			zap.String("reason", reason))
		return false, "", nil
	}

	version := ParseVersion(inv.Stdout + inv.Stderr)
	log.Debug("optimizer available",
		zap.String("command", command),
		zap.String("version", version))
	return true, version, nil
}

// ParseVersion extracts a version token like "0.6.3" from probe output, or
// returns "unknown" when the output carries no digits.
func ParseVersion(output string) string {
	if m := versionPattern.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return "unknown"
}
