// Package watch triggers rescans when watched folders change.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy-go/internal/tidy"
)

// Watcher observes folders and invokes a callback after filesystem activity
// settles. Bursts of events within the debounce window collapse into one
// callback invocation.
type Watcher struct {
	folders  []string
	debounce time.Duration
	logger   tidy.Logger
}

func NewWatcher(folders []string, debounce time.Duration, logger tidy.Logger) *Watcher {
	return &Watcher{folders: folders, debounce: debounce, logger: logger}
}

// Run blocks until ctx is cancelled, calling onChange after each debounced
// burst of filesystem events.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, folder := range w.folders {
		if err := fsw.Add(folder); err != nil {
			return fmt.Errorf("watching %s: %w", folder, err)
		}
		w.logger.Info("watching folder", "path", folder)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			onChange()
		}
	}
}
