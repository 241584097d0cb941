package lexicon

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher hot-reloads a lexicon when its backing file changes on disk.
// Rapid successive saves (editors writing twice, atomic rename pairs) are
// debounced into a single reload.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	db          *DB
	path        string
	debounce    time.Duration
	lastEvent   time.Time
	onReload    func(*DB)
	logger      *zap.Logger
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	reloadCount int
}

// NewWatcher creates a watcher that reloads db from path on change.
// onReload, if non-nil, runs after each successful reload.
func NewWatcher(db *DB, path string, logger *zap.Logger, onReload func(*DB)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fsw,
		db:       db,
		path:     filepath.Clean(path),
		debounce: 500 * time.Millisecond,
		onReload: onReload,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs until Stop or
// context cancellation. Watches the parent directory so atomic renames over
// the file are observed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastEvent) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastEvent = time.Now()
			w.mu.Unlock()
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("lexicon watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	fresh, err := Open(w.path)
	if err != nil {
		w.logger.Warn("lexicon reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.db.ReplaceFrom(fresh)

	w.mu.Lock()
	w.reloadCount++
	onReload := w.onReload
	w.mu.Unlock()

	w.logger.Info("lexicon reloaded",
		zap.String("path", w.path),
		zap.Int("words", w.db.WordCount()),
		zap.Int("patterns", w.db.PatternCount()))
	if onReload != nil {
		onReload(w.db)
	}
}

// ReloadCount returns how many reloads have completed.
func (w *Watcher) ReloadCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloadCount
}

// Stop halts the watch loop and releases the inotify handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}
