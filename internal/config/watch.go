package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file whenever it changes and delivers
// each good reload. Overrides supplied at startup are reapplied on
// every reload so command-line settings keep their precedence. An
// invalid reload is logged and discarded; the daemon keeps its last
// good configuration.
type Watcher struct {
	path      string
	overrides map[string]string
	log       *slog.Logger
	last      *Config

	watcher *fsnotify.Watcher
	updates chan *Config
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Watch starts watching the config file at path. last is the
// configuration currently in effect; overrides are reapplied over each
// reload.
func Watch(path string, last *Config, overrides map[string]string, logger *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: editors typically replace the file, and a
	// watch on the old inode would go quiet after the rename.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:      path,
		overrides: overrides,
		log:       logger,
		last:      last,
		watcher:   watcher,
		updates:   make(chan *Config, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Updates delivers reloaded configurations. Only the latest unread
// reload is retained.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)

	// Editors fire several events per save; let the dust settle before
	// reloading.
	var pending <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			pending = time.After(100 * time.Millisecond)

		case <-pending:
			pending = nil
			w.reload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	if err != nil {
		w.log.Warn("config reload failed, keeping previous", "err", err)
		return
	}
	if len(w.overrides) > 0 {
		if err := cfg.ApplyPairs(w.overrides); err != nil {
			w.log.Warn("config reload failed, keeping previous", "err", err)
			return
		}
	}

	diff := Diff(w.last, cfg)
	if diff == "" {
		return
	}
	w.log.Info("configuration reloaded", "file", w.path)
	w.log.Debug("configuration change", "diff", "\n"+diff)
	w.last = cfg

	// Latest reload wins if the consumer is behind
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}
