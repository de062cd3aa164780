// Package watch reruns a full analysis whenever corpus files change.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups editor save bursts into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Options configures Run.
type Options struct {
	Dir      string
	Debounce time.Duration
	// Match filters event paths; nil accepts everything.
	Match  func(path string) bool
	Logger *slog.Logger
}

// Run watches opts.Dir and calls rebuild after each debounced batch of
// changes. Rebuilds run one at a time on the calling goroutine's loop.
// Run returns when ctx is cancelled.
func Run(ctx context.Context, opts Options, rebuild func() error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Dir, err)
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending []string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if opts.Match != nil && !opts.Match(event.Name) {
				continue
			}
			pending = append(pending, filepath.Base(event.Name))

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(opts.Debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			logger.Info("change detected", "files", pending)
			pending = nil
			if err := rebuild(); err != nil {
				logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
