// Package watch restamps candidate files as they are created or edited.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/incremental"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/report"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/internal/log"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatchLimitReached is returned when the OS watch limit is exceeded.
var ErrWatchLimitReached = errors.New("filesystem watch limit reached")

// Config configures the watcher.
type Config struct {
	Walker    *walk.Walker
	Processor walk.Processor
	Reporter  *report.Reporter
	Tracker   *incremental.Tracker // optional; refreshed after every batch
	Languages []string             // only used for the ready message
	Debounce  time.Duration
}

// Watcher watches the walker's root and stamps changed candidate files.
type Watcher struct {
	config    Config
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	// stampMu serializes batches; one file is fully processed before the next.
	stampMu sync.Mutex
	// written maps a path to the hash of the content we last wrote there.
	written map[string]string
}

// New creates a watcher. Walker, Processor and Reporter are required.
func New(cfg Config) (*Watcher, error) {
	if cfg.Walker == nil || cfg.Processor == nil || cfg.Reporter == nil {
		return nil, errors.New("watch: walker, processor and reporter are required")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	window := cfg.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}

	w := &Watcher{
		config:    cfg,
		fsWatcher: fsWatcher,
		written:   make(map[string]string),
	}
	w.debouncer = NewDebouncer(window, w.handleChangedFiles)
	return w, nil
}

// Run starts the watch loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Stop()

	root := w.config.Walker.Root()
	if err := w.addRecursive(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	files, err := w.config.Walker.Walk(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	w.config.Reporter.Ready(len(files), w.config.Languages, root)

	for {
		select {
		case <-ctx.Done():
			w.debouncer.FlushNow()
			w.config.Reporter.Shutdown()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.config.Reporter.Error(err)
		}
	}
}

// addRecursive adds a directory and all non-ignored subdirectories.
func (w *Watcher) addRecursive(dir string) error {
	root := w.config.Walker.Root()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				log.Debug("permission denied, not watching", "path", path)
				return nil
			}
			log.Warn("walk error", "path", path, "error", err)
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != root && w.config.Walker.IgnoredDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("%w at %s: %w\n"+
					"Increase limit with: sudo sysctl fs.inotify.max_user_watches=524288",
					ErrWatchLimitReached, path, err)
			}
			log.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// isWatchLimitError checks if an error is due to inotify watch limits.
func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "no space left on device") ||
		strings.Contains(errStr, "too many open files")
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.config.Walker.IgnoredDir(filepath.Base(path)) {
				return
			}
			if err := w.addRecursive(path); err != nil {
				w.config.Reporter.Error(fmt.Errorf("failed to watch new directory %s: %w", path, err))
				return
			}
			// Files may land in the directory before its watch is in place.
			w.enqueueExisting(path)
			return
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.forget(path)
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.config.Walker.Match(path) {
		return
	}

	log.Trace("file changed", "path", path, "op", event.Op.String())
	w.debouncer.Add(path)
}

func (w *Watcher) enqueueExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && w.config.Walker.IgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && w.config.Walker.Match(path) {
			w.debouncer.Add(path)
		}
		return nil
	})
}

func (w *Watcher) forget(path string) {
	w.stampMu.Lock()
	delete(w.written, path)
	w.stampMu.Unlock()
}

// handleChangedFiles is called when the debouncer flushes. Files are stamped
// one at a time; a failing file is reported and the batch continues.
func (w *Watcher) handleChangedFiles(paths []string) {
	w.stampMu.Lock()
	defer w.stampMu.Unlock()

	logger := log.Component("watch")
	stamped := 0
	for _, path := range paths {
		hash, err := incremental.HashFile(path)
		if err != nil {
			// Deleted between the event and the flush.
			logger.Debug("skipping vanished file", "path", path, "error", err)
			continue
		}
		if w.written[path] == hash {
			log.Trace("ignoring own write", "path", path)
			continue
		}

		res, err := w.config.Processor.Rewrite(path)
		if err != nil {
			w.config.Reporter.Error(err)
			continue
		}
		if res.Written {
			if h, err := incremental.HashFile(path); err == nil {
				w.written[path] = h
			}
		}
		if res.Changed || res.Status.Skipped() {
			w.config.Reporter.File(res)
		} else {
			logger.Debug("header already current", "path", path)
		}
		stamped++
	}

	if stamped == 0 || w.config.Tracker == nil {
		return
	}
	if err := w.config.Tracker.Refresh(context.Background()); err != nil {
		w.config.Reporter.Error(fmt.Errorf("failed to update state: %w", err))
	}
}

// Close stops the debouncer and releases the OS watcher.
func (w *Watcher) Close() error {
	if w.debouncer != nil {
		w.debouncer.Stop()
	}
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}
