package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/mindkeys/internal/debounce"
	"github.com/dshills/mindkeys/internal/logging"
)

// DefaultReloadDelay coalesces the burst of events editors produce on save.
const DefaultReloadDelay = 100 * time.Millisecond

// Watcher reloads the settings file when it changes on disk.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a temporary file over it are still seen. Reloads that
// fail to parse or validate are logged and dropped; the last good settings
// stay in effect.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	gate     *debounce.Gate[struct{}]
	onChange func(Settings)
	log      *logging.Logger
	delay    time.Duration
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchLogger sets the logger.
func WithWatchLogger(l *logging.Logger) WatchOption {
	return func(w *Watcher) { w.log = l }
}

// WithReloadDelay sets how long the file must be quiet before reloading.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(w *Watcher) { w.delay = d }
}

// NewWatcher starts watching path. onChange receives each successfully
// reloaded settings value; it runs on a timer goroutine.
func NewWatcher(path string, onChange func(Settings), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		log:      logging.Discard(),
		delay:    DefaultReloadDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("config")
	w.gate = debounce.New(w.delay, func(struct{}) { w.reload() })

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.gate.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.gate.Call(struct{}{})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := Resolve(w.path)
	if err != nil {
		w.log.Warn("ignoring config change: %v", err)
		return
	}
	w.log.Info("reloaded %s", w.path)
	w.onChange(s)
}
