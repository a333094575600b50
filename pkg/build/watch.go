package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uireg/pkg/parser"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Dirs are watched recursively.
	Dirs []string

	// Ignore lists directories whose events never trigger a rebuild,
	// typically the output and cache directories.
	Ignore []string

	Debounce time.Duration
}

// Watcher re-runs a build whenever a source file under the watched
// directories changes.
//
// Usage:
//
//	w, err := build.NewWatcher(builder, build.WatchOptions{Dirs: dirs}, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	err = w.Run(ctx)
type Watcher struct {
	watcher *fsnotify.Watcher
	rebuild func(context.Context)
	options WatchOptions
	ignore  []string
	logger  *slog.Logger

	timerMu sync.Mutex
	timer   *time.Timer

	// runMu serialises rebuilds; a change during a rebuild queues one more.
	runMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher that rebuilds with b.
func NewWatcher(b *Builder, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = b.log
	}
	return newWatcher(func(ctx context.Context) {
		report, err := b.Run(ctx)
		if err != nil {
			logger.Error("rebuild failed", "error", err)
			return
		}
		logger.Info("rebuild complete",
			"components", report.Components, "blocks", report.Blocks,
			"cache_hits", report.CacheHits, "ms", report.Duration.Milliseconds())
	}, options, logger)
}

func newWatcher(rebuild func(context.Context), options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ignore := make([]string, 0, len(options.Ignore))
	for _, dir := range options.Ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			ignore = append(ignore, abs)
		}
	}

	return &Watcher{
		watcher:  fsw,
		rebuild:  rebuild,
		options:  options,
		ignore:   ignore,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Run registers the watches and processes events until ctx is done or
// Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	for _, dir := range w.options.Dirs {
		if err := w.addTree(dir); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", "dirs", w.options.Dirs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.stopChan:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	// New directories must be watched too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			w.schedule(ctx)
			return
		}
	}

	if !parser.IsSourceFile(path) && !strings.HasSuffix(path, ".json") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	w.schedule(ctx)
}

// schedule (re)arms the single debounce timer; the last event in a burst
// triggers the rebuild.
func (w *Watcher) schedule(ctx context.Context) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.options.Debounce, func() {
		w.runMu.Lock()
		defer w.runMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.rebuild(ctx)
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if base == "node_modules" || (strings.HasPrefix(base, ".") && len(base) > 1) {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
