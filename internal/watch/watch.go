// Package watch re-runs a callback whenever a single file changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called after the watched file settles.
type ChangeFunc func(ctx context.Context)

// File watches path until ctx is cancelled and calls fn once per burst of
// changes, after debounce has elapsed without further events.
//
// The parent directory is watched rather than the file itself: editors and
// exporters commonly replace a file by renaming a temporary over it, which
// drops a watch placed on the old inode.
func File(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, fn ChangeFunc) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			logger.Debug("watcher: change settled", slog.String("path", target))
			fn(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				// Remove and Chmod alone never produce a new document.
				continue
			}
			logger.Debug("watcher: event", slog.String("path", target), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
