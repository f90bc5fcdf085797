package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahcm/longread-plots/internal/seqio"
	"github.com/ahcm/longread-plots/internal/testutil"
)

func relevant(path string) bool {
	return seqio.DetectFormat(path) != seqio.FormatUnknown
}

func TestWatcher_RunsOnChange(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32
	w := New(dir, relevant, func(context.Context) error {
		runs.Add(1)
		return nil
	}, testutil.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The initial run happens before watching starts.
	require.Eventually(t, func() bool { return runs.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)

	testutil.WriteFastq(t, dir, "new.fastq",
		testutil.FastqRead{ID: "r1", Length: 100, Quality: 10})

	require.Eventually(t, func() bool { return runs.Load() >= 2 },
		5*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32
	w := New(dir, relevant, func(context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

	// Give the debounce window time to elapse; no extra run should land.
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	<-done
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), relevant,
		func(context.Context) error { return nil }, nil)

	err := w.Run(context.Background())
	require.Error(t, err)
}
