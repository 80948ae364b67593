package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"Mower/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events an editor or exporter
// produces when saving one file.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports local asset files that changed on disk. Directories are
// watched rather than files so atomic replace-on-save is seen.
type Watcher struct {
	Debounce time.Duration

	fs      *fsnotify.Watcher
	mu      sync.Mutex
	files   map[string]struct{}
	dirs    map[string]struct{}
	changes chan string
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		fs:       fw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		changes:  make(chan string, 16),
	}, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Changes delivers the absolute path of every changed watched file once
// per debounce window.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Run forwards debounced changes until ctx is done or the watcher is
// closed. It closes the Changes channel on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			abs, _ := filepath.Abs(ev.Name)
			pending[abs] = struct{}{}
			timer.Reset(w.Debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warn("Asset watcher error", zap.Error(err))

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				logger.Log.Info("Asset changed", zap.String("path", p))
				select {
				case w.changes <- p:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
