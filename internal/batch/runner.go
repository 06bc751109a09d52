// Package batch orchestrates file enumeration, per-file dispatch, and the
// final pass/fail verdict of an optimization run.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"optibatch/internal/config"
	"optibatch/internal/execx"
	"optibatch/internal/optimizer"
)

// fileResult pairs a per-file outcome with whether it counts at all. Files
// that vanished between enumeration and processing are not counted.
type fileResult struct {
	outcome optimizer.Outcome
	counted bool
}

// Run executes one batch. It probes the optimizer once, enumerates the
// candidates, and processes every file even when some of them fail; per-file
// failures only surface in the final verdict. The returned error is non-nil
// for fatal conditions (MUST-mode probe failure, unreadable source tree) and
// for a finished batch with a non-zero failure count.
func Run(ctx context.Context, cfg config.Config, runner execx.Runner, log *zap.Logger, updates chan<- ProgressUpdate) (Result, error) {
	start := time.Now()
	var res Result

	available, _, err := optimizer.Probe(ctx, runner, cfg.Command, cfg.Mode, cfg.Timeout, log)
	if err != nil {
		return res, err
	}
	transform := cfg.Mode != optimizer.ModeMustNot && available

	files, err := Enumerate(cfg.SourceDir, cfg.Includes, cfg.Excludes)
	if err != nil {
		return res, fmt.Errorf("enumerating %q: %w", cfg.SourceDir, err)
	}

	log.Debug("starting batch",
		zap.String("from", cfg.SourceDir),
		zap.String("to", cfg.DestDir),
		zap.Stringer("mode", cfg.Mode),
		zap.Bool("transform", transform),
		zap.Int("candidates", len(files)))

	notify(updates, ProgressUpdate{TotalDelta: len(files)})

	jobs := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	wg.Add(cfg.Jobs)
	for i := 0; i < cfg.Jobs; i++ {
		go func() {
			defer wg.Done()
			for rel := range jobs {
				results <- processFile(ctx, cfg, runner, log, transform, rel)
			}
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for fr := range results {
			fold(&res, fr, updates)
		}
	}()

	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case jobs <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	res.Elapsed = time.Since(start)

	if !res.Success() {
		return res, fmt.Errorf("%d file(s) failed to be optimized and/or copied; %d file(s) optimized; %d file(s) copied; %d file(s) skipped; total duration is %s",
			res.Failed, res.Optimized, res.Copied, res.Skipped, res.Elapsed.Round(time.Millisecond))
	}

	log.Info("batch complete",
		zap.Int("optimized", res.Optimized),
		zap.Int("copied", res.Copied),
		zap.Int("skipped", res.Skipped),
		zap.Duration("duration", res.Elapsed))
	return res, nil
}

// processFile handles one candidate: stat, classify, dispatch.
func processFile(ctx context.Context, cfg config.Config, runner execx.Runner, log *zap.Logger, transform bool, rel string) fileResult {
	start := time.Now()

	info, err := os.Stat(filepath.Join(cfg.SourceDir, rel))
	if err != nil {
		// Enumerated but gone by now; excluded from the counters.
		return fileResult{}
	}

	task := optimizer.NewTask(cfg.SourceDir, cfg.DestDir, rel, info)

	switch decision := optimizer.Classify(task, transform); decision {
	case optimizer.SkipUnsupported, optimizer.SkipUpToDate, optimizer.SkipEmpty:
		log.Debug("skipping file",
			zap.String("file", rel),
			zap.String("reason", decision.Reason()))
		return fileResult{outcome: optimizer.Skipped(decision.Reason()), counted: true}

	case optimizer.Transform:
		oc := optimizer.Optimize(ctx, runner, task, cfg.Command, cfg.Timeout, cfg.Mode, log)
		return fileResult{outcome: oc, counted: true}

	default: // CopyOnly
		if err := optimizer.CopyFile(task.InputPath, task.OutputPath); err != nil {
			log.Error("failed to copy file",
				zap.String("from", task.InputPath),
				zap.String("to", task.OutputPath),
				zap.Error(err))
			return fileResult{outcome: optimizer.Failed(err.Error()), counted: true}
		}
		d := time.Since(start)
		log.Debug("copied file",
			zap.String("file", rel),
			zap.Duration("duration", d))
		return fileResult{outcome: optimizer.Copied(d), counted: true}
	}
}

// fold accumulates one result into the running counters and mirrors it to
// the progress channel. Only the collector goroutine touches res.
func fold(res *Result, fr fileResult, updates chan<- ProgressUpdate) {
	if !fr.counted {
		notify(updates, ProgressUpdate{TotalDelta: -1})
		return
	}
	switch fr.outcome.Status {
	case optimizer.StatusOptimized:
		res.Optimized++
		notify(updates, ProgressUpdate{OptimizedDelta: 1})
	case optimizer.StatusCopied:
		res.Copied++
		notify(updates, ProgressUpdate{CopiedDelta: 1})
	case optimizer.StatusSkipped:
		res.Skipped++
		notify(updates, ProgressUpdate{SkippedDelta: 1})
	case optimizer.StatusFailed:
		res.Failed++
		notify(updates, ProgressUpdate{FailedDelta: 1})
	}
}

func notify(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}
