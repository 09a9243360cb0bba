// Package watch reloads a scenario file when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ivlev/scrolly/internal/timeline"
)

// DefaultDelay is how long the file must be quiet before it is re-read.
const DefaultDelay = 100 * time.Millisecond

// Reload is called with every successfully parsed version of the file.
type Reload func(sc *timeline.Scenario, heights []float64)

type Watcher struct {
	Path   string
	Delay  time.Duration
	Logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{Path: path, Delay: DefaultDelay, Logger: logger}
}

// Run watches until ctx is done. The file is loaded once up front; a broken
// version is logged and skipped, the last good one stays in effect.
func (w *Watcher) Run(ctx context.Context, fn Reload) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	// editors replace files by rename, so watch the directory
	dir := filepath.Dir(w.Path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if err := w.load(fn); err != nil {
		return err
	}

	name := filepath.Clean(w.Path)
	timer := time.NewTimer(w.Delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(w.Delay)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch: notify error", "error", err)
		case <-timer.C:
			if err := w.load(fn); err != nil {
				w.Logger.Warn("watch: reload failed, keeping previous scenario", "path", w.Path, "error", err)
			}
		}
	}
}

func (w *Watcher) load(fn Reload) error {
	sc, err := timeline.ReadScenario(w.Path)
	if err != nil {
		return err
	}
	heights, err := sc.Layout.Measure()
	if err != nil {
		return err
	}
	w.Logger.Info("watch: scenario loaded", "path", w.Path, "blocks", len(heights))
	fn(sc, heights)
	return nil
}
