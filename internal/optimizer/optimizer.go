// Package optimizer decides what to do with each candidate image file and
// drives the external optimizer executable on the ones worth optimizing.
package optimizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"optibatch/internal/execx"
)

// Optimize runs the optimizer command on one task and interprets the result.
//
// The attempt counts as failed when the process could not start, timed out,
// exited non-zero, wrote anything to stderr, or left the output file missing
// or empty. Stderr output fails the attempt even on exit code 0: the tool
// emits warnings there for partially processed images, and a partially
// processed image is not trusted. On failure the original file is copied to
// the output path instead, unless mode is ModeMust.
func Optimize(ctx context.Context, runner execx.Runner, task Task, command string, timeout time.Duration, mode Mode, log *zap.Logger) Outcome {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(task.OutputPath), 0o755); err != nil {
		return fail(task, fmt.Sprintf("cannot create output directory: %v", err), mode, start, log)
	}

	inv := runner.Run(ctx, timeout, command,
		"-fix", "-force", "-out", task.OutputPath, "--", task.InputPath)

	var reason string
	switch {
	case inv.StartErr != nil:
		reason = fmt.Sprintf("cannot run %q: %v", command, inv.StartErr)
	case inv.TimedOut:
		reason = fmt.Sprintf("timed out after %s", timeout)
	case inv.ExitCode != 0:
		reason = fmt.Sprintf("exit code %d", inv.ExitCode)
	case strings.TrimSpace(inv.Stderr) != "":
		reason = strings.TrimSpace(inv.Stderr)
	default:
		if info, err := os.Stat(task.OutputPath); err != nil {
			reason = "output file not created"
		} else if info.Size() == 0 {
			reason = "generated output file is empty"
		}
	}

	if reason != "" {
		return fail(task, reason, mode, start, log)
	}

	d := time.Since(start)
	log.Debug("optimized file",
		zap.String("file", task.RelPath),
		zap.Duration("duration", d))
	return Optimized(d)
}

// fail records the optimization failure and, outside ModeMust, falls back to
// copying the input unchanged. A failing fallback copy is itself a failure.
func fail(task Task, reason string, mode Mode, start time.Time, log *zap.Logger) Outcome {
	log.Error("failed to optimize file",
		zap.String("file", task.InputPath),
		zap.String("reason", reason))

	if mode == ModeMust {
		return Failed(reason)
	}

	if err := CopyFile(task.InputPath, task.OutputPath); err != nil {
		log.Error("failed to copy file",
			zap.String("from", task.InputPath),
			zap.String("to", task.OutputPath),
			zap.Error(err))
		return Failed(fmt.Sprintf("fallback copy failed: %v", err))
	}

	d := time.Since(start)
	log.Debug("copied file",
		zap.String("file", task.RelPath),
		zap.Duration("duration", d))
	return Copied(d)
}
