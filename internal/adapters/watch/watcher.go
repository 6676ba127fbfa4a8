package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher calls reload after the watched file settles. The parent directory
// is watched so that editors replacing the file by rename are noticed.
type Watcher struct {
	path     string
	reload   func(ctx context.Context) error
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

func New(path string, reload func(ctx context.Context) error, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

// Start is non-blocking. Calling it twice is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = watcher
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(ctx, watcher, w.stop, w.done)

	w.logger.Debug("watching dialects file", zap.String("path", w.path))
	return nil
}

// Stop waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	watcher, stop, done := w.watcher, w.stop, w.done
	w.watcher = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}

	close(stop)
	<-done
	return watcher.Close()
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, stop, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("dialects file changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dialects watcher error", zap.Error(err))
		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				w.logger.Warn("reload dialects", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("dialects reloaded", zap.String("path", w.path))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
