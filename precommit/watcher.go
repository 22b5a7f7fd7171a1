package precommit

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/dotforge/dotkit/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ReloadFunc receives the result of re-loading the watched config file.
type ReloadFunc func(cfg *Config, err error)

// Watcher watches a hook config file and re-validates it on every change.
// It backs `dotkit hooks validate --watch`.
type Watcher struct {
	watcher    *fsnotify.Watcher
	path       string
	debounceMs int
	lastChange time.Time
	mu         sync.Mutex
	logger     *logrus.Entry
	onReload   ReloadFunc
}

// NewWatcher creates a Watcher for the given config file. The debounceMs
// parameter controls how long to wait before processing rapid changes.
// The onReload callback receives each re-load result.
//
// The parent directory is watched rather than the file itself: editors
// replace files by rename, which would drop a watch on the file node.
func NewWatcher(path string, debounceMs int, onReload ReloadFunc) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 100
	}

	return &Watcher{
		watcher:    watcher,
		path:       abs,
		debounceMs: debounceMs,
		logger:     logging.NewLogger("hooks-watcher"),
		onReload:   onReload,
	}, nil
}

// Start begins watching for config changes. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if filepath.Clean(event.Name) == w.path {
					w.handleChange()
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange re-loads the watched file with debouncing.
func (w *Watcher) handleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Debounce rapid writes
	elapsed := time.Since(w.lastChange)
	if elapsed < time.Duration(w.debounceMs)*time.Millisecond {
		w.logger.Debugf("Debounced: %s (only %v since last change)", filepath.Base(w.path), elapsed)
		return
	}
	w.lastChange = time.Now()

	w.logger.Infof("Hook config changed: %s", filepath.Base(w.path))

	cfg, err := Load(w.path)
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
