package tgrapher

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	debounce := watchDebounce
	watchDebounce = 10 * time.Millisecond
	defer func() { watchDebounce = debounce }()

	input := writeFixture(t, "run.csv", fixtureCSV)
	out := &syncBuffer{}
	g, errs := New(
		Positional(input),
		Positional("-"),
		Positional("x"),
		Positional("y"),
		Batch(),
		Watch(),
		Output(out),
		Logger(zap.NewNop()),
		WithErrorReporter(&mockReporter{}),
	)
	require.Empty(t, errs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "  Processing 5 entries")
	}, 5*time.Second, 10*time.Millisecond)

	// the watcher may not be registered yet, so keep writing until a rebuild is seen
	updated := fixtureCSV + "6,12,0.1,0.2,300\n"
	require.Eventually(t, func() bool {
		if err := os.WriteFile(input, []byte(updated), 0644); err != nil {
			return false
		}
		return strings.Contains(out.String(), "  Processing 6 entries")
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	debounce := watchDebounce
	watchDebounce = 10 * time.Millisecond
	defer func() { watchDebounce = debounce }()

	input := writeFixture(t, "run.csv", fixtureCSV)
	out := &syncBuffer{}
	g, errs := New(
		Positional(input),
		Positional("-"),
		Positional("x"),
		Positional("y"),
		Batch(),
		Watch(),
		Output(out),
		Logger(zap.NewNop()),
		WithErrorReporter(&mockReporter{}),
	)
	require.Empty(t, errs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), " Graphing y vs. x") == 1
	}, 5*time.Second, 10*time.Millisecond)

	other := strings.TrimSuffix(input, "run.csv") + "other.csv"
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(other, []byte(fixtureCSV), 0644))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, strings.Count(out.String(), " Graphing y vs. x"))

	cancel()
	assert.NoError(t, <-done)
}
