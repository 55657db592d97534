package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for change event")
		return Event{}
	}
}

func TestWatcherEmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte("iterations_default: 1\n"), 0644))

	w := NewStoreWatcher([]string{target}, 20*time.Millisecond)
	changes := make(chan Event, 8)
	require.NoError(t, w.Start(context.Background(), changes))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(target, []byte("iterations_default: 2\n"), 0644))

	ev := waitForEvent(t, changes, 2*time.Second)
	assert.Equal(t, target, ev.Path)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestWatcherIgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "task.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("{}\n"), 0644))

	w := NewStoreWatcher([]string{target}, 20*time.Millisecond)
	changes := make(chan Event, 8)
	require.NoError(t, w.Start(context.Background(), changes))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(other, []byte("scratch\n"), 0644))

	select {
	case ev := <-changes:
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSurvivesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "defaults.py")
	require.NoError(t, os.WriteFile(target, []byte("\"TEMPERATURE\": 0.4,\n"), 0644))

	w := NewStoreWatcher([]string{target}, 20*time.Millisecond)
	changes := make(chan Event, 8)
	require.NoError(t, w.Start(context.Background(), changes))
	defer func() { _ = w.Stop() }()

	// Atomic-writer style replacement: write a temp file, rename over target.
	tmp := filepath.Join(dir, ".defaults.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("\"TEMPERATURE\": 0.7,\n"), 0644))
	require.NoError(t, os.Rename(tmp, target))

	ev := waitForEvent(t, changes, 2*time.Second)
	assert.Equal(t, target, ev.Path)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte("a: 1\n"), 0644))

	w := NewStoreWatcher([]string{target}, 150*time.Millisecond)
	changes := make(chan Event, 8)
	require.NoError(t, w.Start(context.Background(), changes))
	defer func() { _ = w.Stop() }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("a: 2\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	waitForEvent(t, changes, 2*time.Second)

	// The burst collapses into a single emission.
	select {
	case ev := <-changes:
		t.Fatalf("burst produced extra event for %s", ev.Path)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")

	w := NewStoreWatcher([]string{target}, 0)
	changes := make(chan Event, 1)
	require.NoError(t, w.Start(context.Background(), changes))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcherStartTwiceIsNoOp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")

	w := NewStoreWatcher([]string{target}, 0)
	changes := make(chan Event, 1)
	require.NoError(t, w.Start(context.Background(), changes))
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Start(context.Background(), changes))
}
