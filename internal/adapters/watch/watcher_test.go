package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherReloadsOnceAfterBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialects.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0o600))

	var calls atomic.Int32
	w := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { require.NoError(t, w.Stop()) })

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialects.toml")

	var calls atomic.Int32
	w := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	w.debounce = 20 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	assert.Zero(t, calls.Load())
}

func TestWatcherLogsReloadFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialects.yaml")

	core, logs := observer.New(zap.WarnLevel)
	w := New(path, func(context.Context) error {
		return errors.New("bad prompt")
	}, zap.New(core))
	w.debounce = 20 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { require.NoError(t, w.Stop()) })

	require.NoError(t, os.WriteFile(path, []byte("dialects: []\n"), 0o600))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("reload dialects").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherStartFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	w := New(filepath.Join(t.TempDir(), "missing", "dialects.toml"), func(context.Context) error { return nil }, nil)
	require.ErrorContains(t, w.Start(context.Background()), "watch ")
}
