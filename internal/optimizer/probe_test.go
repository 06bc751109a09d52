package optimizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"optibatch/internal/execx"
)

// stubRunner satisfies execx.Runner with a canned response per invocation.
type stubRunner struct {
	fn func(name string, args ...string) execx.Invocation
}

func (s stubRunner) Run(_ context.Context, _ time.Duration, name string, args ...string) execx.Invocation {
	return s.fn(name, args...)
}

func TestProbeMustNotShortCircuits(t *testing.T) {
	runner := stubRunner{fn: func(name string, args ...string) execx.Invocation {
		t.Fatal("probe must not invoke anything under must-not mode")
		return execx.Invocation{}
	}}

	available, _, err := Probe(context.Background(), runner, "optipng", ModeMustNot, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, available)
}

func TestProbeExtractsVersion(t *testing.T) {
	runner := stubRunner{fn: func(name string, args ...string) execx.Invocation {
		require.Equal(t, "optipng", name)
		require.Equal(t, []string{"-version"}, args)
		return execx.Invocation{Stdout: "OptiPNG version 0.6.3\n"}
	}}

	available, version, err := Probe(context.Background(), runner, "optipng", ModeMust, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, "0.6.3", version)
}

func TestProbeUnknownVersionStillAvailable(t *testing.T) {
	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{Stdout: "no digits here\n"}
	}}

	available, version, err := Probe(context.Background(), runner, "optipng", ModeShould, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, "unknown", version)
}

func TestProbeFailureFatalUnderMust(t *testing.T) {
	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{ExitCode: 127}
	}}

	_, _, err := Probe(context.Background(), runner, "optipng", ModeMust, time.Second, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optipng")
}

func TestProbeStartErrorFatalUnderMust(t *testing.T) {
	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{StartErr: errors.New("executable not found"), ExitCode: -1}
	}}

	_, _, err := Probe(context.Background(), runner, "optipng", ModeMust, time.Second, zaptest.NewLogger(t))
	require.Error(t, err)
}

func TestProbeFailureWarnsUnderShould(t *testing.T) {
	runner := stubRunner{fn: func(string, ...string) execx.Invocation {
		return execx.Invocation{ExitCode: 1}
	}}

	available, _, err := Probe(context.Background(), runner, "optipng", ModeShould, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, available)
}

func TestParseVersion(t *testing.T) {
	assert.Equal(t, "0.6.3", ParseVersion("OptiPNG version 0.6.3\n"))
	assert.Equal(t, "7", ParseVersion("v7"))
	assert.Equal(t, "1.2.3.4", ParseVersion("tool 1.2.3.4-beta"))
	assert.Equal(t, "unknown", ParseVersion("no version at all"))
	assert.Equal(t, "unknown", ParseVersion(""))
}
