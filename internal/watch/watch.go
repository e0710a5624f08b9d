// Package watch re-runs a build when its input or config files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultQuiet is the debounce period used by the CLI.
const DefaultQuiet = 300 * time.Millisecond

// Watcher watches a fixed set of files. It watches their parent directories
// and filters by name, because editors that save through a rename replace
// the inode a direct file watch would follow.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	quiet   time.Duration
	log     *zap.Logger
}

// New starts watching paths. Close releases the watcher; Run closes it too.
func New(paths []string, quiet time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{watcher: fw, files: make(map[string]bool), quiet: quiet, log: log}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Debug("watching directory", zap.String("dir", dir))
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error { return w.watcher.Close() }

// Run calls fn after every burst of changes to the watched files until ctx
// is cancelled. fn runs on the caller's goroutine, so calls never overlap.
// Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	defer w.watcher.Close()

	fire := make(chan struct{}, 1)
	d := NewDebouncer(w.quiet, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fire:
			fn()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			d.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}
