package localwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnMatchingWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, "painel.db*", 20*time.Millisecond, func(context.Context) { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close() //nolint:errcheck

	path := filepath.Join(dir, "painel.db-wal")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(2), "bursts are debounced")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, "painel.db*", 20*time.Millisecond, func(context.Context) { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close() //nolint:errcheck

	require.NoError(t, os.WriteFile(filepath.Join(dir, "painel.log"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_BadPattern(t *testing.T) {
	_, err := New(t.TempDir(), "[", 0, func(context.Context) {}, zerolog.Nop())
	assert.Error(t, err)
}

func TestWatcher_CloseDropsPendingReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32

	w, err := New(dir, "*.db", time.Hour, func(context.Context) { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.db"), []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, w.Close())
	assert.Zero(t, calls.Load())
}
