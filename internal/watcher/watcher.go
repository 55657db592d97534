// Package watcher observes the configuration stores for edits made by other
// programs, so the CLI can reload the parameter model when a store changes
// under it.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pipetune/pkg/logging"
)

// Event reports that one store file changed on disk.
type Event struct {
	Path      string
	Timestamp time.Time
}

// StoreWatcher watches a fixed set of files via fsnotify. The parent
// directories are watched rather than the files themselves, because atomic
// writers replace files by rename and a file watch dies with the old inode.
// Rapid successive events for the same file are debounced into one.
type StoreWatcher struct {
	mu sync.Mutex

	// paths maps each watched file path to true
	paths map[string]bool

	watcher          *fsnotify.Watcher
	debounceInterval time.Duration
	pending          map[string]*time.Timer
	stopCh           chan struct{}
	running          bool
}

// NewStoreWatcher creates a watcher over the given file paths.
func NewStoreWatcher(paths []string, debounceInterval time.Duration) *StoreWatcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}

	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = true
	}

	return &StoreWatcher{
		paths:            set,
		debounceInterval: debounceInterval,
		pending:          make(map[string]*time.Timer),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching and emits debounced change events on changes.
func (w *StoreWatcher) Start(ctx context.Context, changes chan<- Event) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logging.Warn("Watcher", "Failed to watch %s: %v", dir, err)
			// Continue with the other directories
		}
	}

	go w.processEvents(ctx, changes)

	logging.Info("Watcher", "Watching %d store files for external edits", len(w.paths))
	return nil
}

// processEvents filters raw fsnotify events down to the watched files.
func (w *StoreWatcher) processEvents(ctx context.Context, changes chan<- Event) {
	for {
		select {
		case <-ctx.Done():
			w.cleanupPending()
			return

		case <-w.stopCh:
			w.cleanupPending()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, changes)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

func (w *StoreWatcher) handleFsEvent(event fsnotify.Event, changes chan<- Event) {
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	watched := w.paths[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.debounce(path, changes)
}

// debounce collapses a burst of events for one file into a single emission.
func (w *StoreWatcher) debounce(path string, changes chan<- Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case changes <- Event{Path: path, Timestamp: time.Now()}:
			logging.Debug("Watcher", "Store changed: %s", path)
		default:
			logging.Warn("Watcher", "Change event channel full, dropping event for %s", path)
		}
	})
}

func (w *StoreWatcher) cleanupPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
}

// Stop gracefully stops the watcher.
func (w *StoreWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("Watcher", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}

	return nil
}
