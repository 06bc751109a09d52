// Package execx runs external commands with captured output and a bounded
// wall-clock timeout.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Invocation is the outcome of one external command run.
type Invocation struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	StartErr error
}

// Failed reports whether the invocation should be treated as unsuccessful:
// it could not start, was killed by the timeout, or exited non-zero.
func (inv Invocation) Failed() bool {
	return inv.StartErr != nil || inv.TimedOut || inv.ExitCode != 0
}

// Runner abstracts external process execution so callers can be tested
// without spawning real processes.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) Invocation
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes name with args. A positive timeout bounds the wall-clock run
// time; on expiry the child is killed and the invocation reports TimedOut.
// Stdout and stderr are captured into separate buffers; os/exec drains both
// pipes concurrently, so a chatty child cannot deadlock on a full pipe.
func (ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) Invocation {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	inv := Invocation{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
		// exit 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		inv.TimedOut = true
		inv.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv.ExitCode = exitErr.ExitCode()
		} else {
			// Executable missing, not runnable, or a wiring problem.
			inv.StartErr = err
			inv.ExitCode = -1
		}
	}
	return inv
}
