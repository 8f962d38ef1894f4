package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/stmartin/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the site whenever an HTML or CSS source changes.
type Watcher struct {
	srcDir   string
	rebuild  func(context.Context) error
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches srcDir recursively and calls rebuild after changes settle.
func NewWatcher(srcDir string, rebuild func(context.Context) error) *Watcher {
	return &Watcher{
		srcDir:   srcDir,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
}

// WithDebounce sets the settle delay.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger replaces the logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	w.logger = l
	return w
}

// Run blocks until ctx is cancelled. Rebuild failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addDirsRecursive(fw, w.srcDir); err != nil {
		return err
	}

	rebuildReq, trigger := newDebouncer(w.debounce)
	w.logger.Info("Watching for changes", logfields.Path(w.srcDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			started := time.Now()
			w.logger.Info("Change detected; rebuilding site")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err))
				continue
			}
			w.logger.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(started).Milliseconds())))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(fw, ev.Name)
			return
		}
	}
	if ev.Op == fsnotify.Chmod || !isWatchedSource(ev.Name) {
		return
	}
	w.logger.Debug("Source changed", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// newDebouncer returns a channel receiving one request per burst of trigger calls.
func newDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

// isWatchedSource reports whether a change to path should trigger a rebuild.
func isWatchedSource(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") || strings.HasSuffix(base, "~") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".html", ".css":
		return true
	}
	return false
}
