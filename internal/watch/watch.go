// Package watch re-runs a callback whenever a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long events are coalesced before fn runs again.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a single file using fsnotify.
type Watcher struct {
	debounce time.Duration
	log      logrus.FieldLogger
}

// New creates a Watcher. A zero debounce uses DefaultDebounce.
func New(debounce time.Duration, log logrus.FieldLogger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{debounce: debounce, log: log}
}

// Run calls fn once, then again after each write or create event on path,
// until ctx is cancelled. Errors from fn are logged and watching continues.
// The parent directory is watched so editors that replace the file on save
// are still seen.
func (w *Watcher) Run(ctx context.Context, path string, fn func(context.Context) error) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	w.invoke(ctx, path, fn)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			w.log.WithError(err).Warn("file watcher error")
		case <-timer.C:
			w.invoke(ctx, path, fn)
		}
	}
}

func (w *Watcher) invoke(ctx context.Context, path string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		w.log.WithError(err).WithField("path", path).Error("re-render failed")
	}
}
