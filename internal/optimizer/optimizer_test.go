package optimizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"optibatch/internal/execx"
)

// optimizeArgs picks the output and input paths out of the optimizer argv.
func optimizeArgs(t *testing.T, args []string) (out, in string) {
	t.Helper()
	require.Equal(t, 6, len(args))
	require.Equal(t, []string{"-fix", "-force", "-out"}, args[:3])
	require.Equal(t, "--", args[4])
	return args[3], args[5]
}

func newPNGTask(t *testing.T, content string) Task {
	t.Helper()
	task, _, _ := makeTask(t, "a.png", int64(len(content)))
	require.NoError(t, os.WriteFile(task.InputPath, []byte(content), 0o644))
	return task
}

func TestOptimizeSuccess(t *testing.T) {
	task := newPNGTask(t, "0123456789")

	runner := stubRunner{fn: func(name string, args ...string) execx.Invocation {
		out, in := optimizeArgs(t, args)
		assert.Equal(t, task.InputPath, in)
		require.NoError(t, os.WriteFile(out, []byte("smaller"), 0o644))
		return execx.Invocation{}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeShould, zaptest.NewLogger(t))
	assert.Equal(t, StatusOptimized, oc.Status)
	assert.GreaterOrEqual(t, oc.Duration, time.Duration(0))
}

func TestOptimizeStderrMeansFailure(t *testing.T) {
	// Exit code 0 but output on stderr: conservatively treated as a failed
	// optimization.
	task := newPNGTask(t, "0123456789")

	runner := stubRunner{fn: func(name string, args ...string) execx.Invocation {
		out, _ := optimizeArgs(t, args)
		require.NoError(t, os.WriteFile(out, []byte("smaller"), 0o644))
		return execx.Invocation{Stderr: "warning: invalid chunk\n"}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeMust, zaptest.NewLogger(t))
	assert.Equal(t, StatusFailed, oc.Status)
	assert.Contains(t, oc.Reason, "invalid chunk")
}

func TestOptimizeTimeoutFallsBackToCopy(t *testing.T) {
	task := newPNGTask(t, "original bytes")

	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{TimedOut: true, ExitCode: -1}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeShould, zaptest.NewLogger(t))
	require.Equal(t, StatusCopied, oc.Status)

	got, err := os.ReadFile(task.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(got))
}

func TestOptimizeNonZeroExitFallsBackToCopy(t *testing.T) {
	task := newPNGTask(t, "original bytes")

	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{ExitCode: 2, Stderr: "boom\n"}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeShould, zaptest.NewLogger(t))
	assert.Equal(t, StatusCopied, oc.Status)
}

func TestOptimizeMissingOutputIsFailure(t *testing.T) {
	task := newPNGTask(t, "0123456789")

	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{} // exit 0 but no output file written
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeMust, zaptest.NewLogger(t))
	assert.Equal(t, StatusFailed, oc.Status)
	assert.Equal(t, "output file not created", oc.Reason)
}

func TestOptimizeEmptyOutputIsFailure(t *testing.T) {
	task := newPNGTask(t, "0123456789")

	runner := stubRunner{fn: func(name string, args ...string) execx.Invocation {
		out, _ := optimizeArgs(t, args)
		require.NoError(t, os.WriteFile(out, nil, 0o644))
		return execx.Invocation{}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeMust, zaptest.NewLogger(t))
	assert.Equal(t, StatusFailed, oc.Status)
	assert.Equal(t, "generated output file is empty", oc.Reason)
}

func TestOptimizeMustDoesNotCopyOnFailure(t *testing.T) {
	task := newPNGTask(t, "0123456789")

	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{StartErr: errors.New("not found"), ExitCode: -1}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeMust, zaptest.NewLogger(t))
	assert.Equal(t, StatusFailed, oc.Status)

	_, err := os.Stat(task.OutputPath)
	assert.True(t, os.IsNotExist(err), "no fallback copy may be written under must mode")
}

func TestOptimizeFallbackCopyFailureIsFailure(t *testing.T) {
	task := newPNGTask(t, "0123456789")
	// Remove the input after task creation so the fallback copy cannot read it.
	require.NoError(t, os.Remove(task.InputPath))

	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{ExitCode: 1}
	}}

	oc := Optimize(context.Background(), runner, task, "optipng", time.Second, ModeShould, zaptest.NewLogger(t))
	assert.Equal(t, StatusFailed, oc.Status)
	assert.Contains(t, oc.Reason, "fallback copy failed")
}

func TestCopyFileCreatesParents(t *testing.T) {
	task, _, dest := makeTask(t, "a.png", 4)
	nested := filepath.Join(dest, "x", "y", "out.png")

	require.NoError(t, CopyFile(task.InputPath, nested))

	got, err := os.ReadFile(nested)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}
