// Package watch re-runs the plotting pipeline whenever sequencing data
// files appear or change in a watched directory. Nanopore runs write
// FASTQ files incrementally, so plots regenerate as a run progresses.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of file events (basecallers write many
// files in quick succession) into one pipeline run.
const debounceDelay = 500 * time.Millisecond

// Watcher re-runs a callback when relevant files change under a directory.
type Watcher struct {
	dir      string
	relevant func(path string) bool
	run      func(ctx context.Context) error
	logger   *slog.Logger
}

// New creates a watcher over dir. relevant filters event paths; run is
// invoked (debounced) after relevant changes.
func New(dir string, relevant func(string) bool, run func(ctx context.Context) error, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{dir: dir, relevant: relevant, run: run, logger: logger}
}

// Run performs an initial pipeline run, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.run(ctx); err != nil {
		w.logger.Error("initial run failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := w.watchDir(watcher, w.dir); err != nil {
		return err
	}

	w.logger.Info("watching for sequencing data", "dir", w.dir)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// New sub-directories need watching too.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.watchDir(watcher, event.Name)
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(debounceDelay, func() {
				w.logger.Info("change detected", "file", filepath.Base(name))
				if err := w.run(ctx); err != nil {
					w.logger.Error("run failed", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDir recursively adds dir and its sub-directories to the watcher,
// skipping hidden directories.
func (w *Watcher) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
