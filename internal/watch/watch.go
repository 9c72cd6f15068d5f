// Package watch turns filesystem events on a single file into coalesced
// change signals.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups the burst of events a temp-file + rename save produces.
const DefaultDebounce = 50 * time.Millisecond

// File signals on the returned channel whenever path is created, written
// or renamed into place. The parent directory is watched, so the file may
// be replaced atomically or not exist yet. The channel closes when ctx is done.
func File(ctx context.Context, path string, debounce time.Duration, log *logrus.Entry) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	out := make(chan struct{}, 1)
	go loop(ctx, w, filepath.Clean(path), debounce, log, out)
	return out, nil
}

func loop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, log *logrus.Entry, out chan<- struct{}) {
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watcher error")
		case <-timer.C:
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
