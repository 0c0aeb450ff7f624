package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"assistoff.io/assistoff/internal/assistoff/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, opts Options) (*Watcher, string) {
	t.Helper()

	dir := t.TempDir()
	if opts.Logger.GetSink() == nil {
		opts.Logger = testr.New(t)
	}
	w := New(dir, opts)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w, dir
}

func waitForNotification(t *testing.T, events <-chan core.Notification, timeout time.Duration) (core.Notification, bool) {
	t.Helper()
	select {
	case n, ok := <-events:
		return n, ok
	case <-time.After(timeout):
		return core.Notification{}, false
	}
}

func TestWatcherForwardsCreate(t *testing.T) {
	w, dir := startWatcher(t, Options{})

	path := filepath.Join(dir, "Status.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"flags":0}`), 0o600))

	n, ok := waitForNotification(t, w.Events(), 2*time.Second)
	require.True(t, ok, "timed out waiting for create event")
	assert.Equal(t, "Status.json", n.Name)
	assert.Equal(t, path, n.Path)
	assert.Equal(t, core.OpCreated, n.Op)
	assert.False(t, n.Timestamp.IsZero())
}

func TestWatcherForwardsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Status.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"flags":0}`), 0o600))

	w := New(dir, Options{Logger: testr.New(t)})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.WriteString(" ")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	n, ok := waitForNotification(t, w.Events(), 2*time.Second)
	require.True(t, ok, "timed out waiting for write event")
	assert.Equal(t, core.OpChanged, n.Op)
	assert.Equal(t, "Status.json", n.Name)
}

func TestWatcherFiltersByPattern(t *testing.T) {
	w, dir := startWatcher(t, Options{Pattern: "*.json"})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Journal.log"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.json"), []byte("{}"), 0o600))

	n, ok := waitForNotification(t, w.Events(), 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, "Cargo.json", n.Name)

	for {
		n, ok := waitForNotification(t, w.Events(), 200*time.Millisecond)
		if !ok {
			break
		}
		assert.NotEqual(t, "Journal.log", n.Name)
	}
}

func TestWatcherDebounceCoalescesBurst(t *testing.T) {
	w, dir := startWatcher(t, Options{Debounce: 150 * time.Millisecond})

	path := filepath.Join(dir, "Status.json")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"flags":0}`), 0o600))
	}

	n, ok := waitForNotification(t, w.Events(), 2*time.Second)
	require.True(t, ok, "timed out waiting for debounced event")
	assert.Equal(t, "Status.json", n.Name)

	_, ok = waitForNotification(t, w.Events(), 400*time.Millisecond)
	assert.False(t, ok, "burst produced more than one notification")
}

func TestWatcherStopClosesEvents(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, Options{})
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestWatcherContextCancelClosesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := New(t.TempDir(), Options{})
	require.NoError(t, w.Start(ctx))

	cancel()
	_, ok := waitForNotification(t, w.Events(), 2*time.Second)
	assert.False(t, ok)
	require.NoError(t, w.Stop())
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := New(t.TempDir(), Options{})
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestWatcherStartErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	assert.Error(t, New(missing, Options{}).Start(context.Background()))

	file := filepath.Join(t.TempDir(), "Status.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	assert.Error(t, New(file, Options{}).Start(context.Background()))

	w, _ := startWatcher(t, Options{})
	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)
}
