package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tranhoangkhuongvn/news-ai/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches config.yaml for changes and reloads it.
// It watches the containing directory rather than the file itself because most
// editors replace the file on save (write to temp, rename over).
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	path        string // Full path to config.yaml
	dir         string
	onReload    func(*Config)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventOp   string
}

// NewWatcher creates a Watcher for the given config path.
// onReload is called with the freshly loaded config after each settled change.
// It runs on the watcher goroutine, so it must hand off rather than block.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     fsw,
		path:        path,
		dir:         filepath.Dir(path),
		onReload:    onReload,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	return w, nil
}

// Start begins watching the config directory for changes.
// This method is non-blocking; it starts the watcher in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		logging.Get(logging.CategoryConfig).Warn("watcher: failed to create config dir %s: %v (continuing anyway)", w.dir, err)
	}

	if err := w.watcher.Add(w.dir); err != nil {
		logging.Get(logging.CategoryConfig).Warn("watcher: initial watch failed (dir may not exist): %v", err)
	} else {
		logging.Get(logging.CategoryConfig).Info("watcher: watching %s", w.dir)
	}

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryConfig).Error("watcher: error closing: %v", err)
	}
	logging.Get(logging.CategoryConfig).Info("watcher: stopped")
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// run is the main event loop for the watcher.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Debounce timer for batching rapid changes
	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	log := logging.Get(logging.CategoryConfig)

	for {
		select {
		case <-ctx.Done():
			log.Info("watcher: context cancelled")
			return

		case <-w.stopCh:
			log.Info("watcher: stop signal received")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				log.Info("watcher: event channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				log.Info("watcher: error channel closed")
				return
			}
			log.Error("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebouncedEvents()
		}
	}
}

// handleEvent records a filesystem event for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only care about the config file itself
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}

	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Write != 0:
		op = "modify"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	case event.Op&fsnotify.Remove != 0:
		op = "delete"
	default:
		return // Ignore chmod, etc.
	}

	logging.Get(logging.CategoryConfig).Debug("watcher: %s event for %s", op, event.Name)

	w.mu.Lock()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventOp = op
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents reloads the config once events have settled.
func (w *Watcher) processDebouncedEvents() {
	w.mu.Lock()
	now := time.Now()
	settled := false
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.debounceMap, path)
			settled = true
		}
	}
	w.mu.Unlock()

	if !settled {
		return
	}

	w.reload()
}

// reload loads the config file and notifies the callback.
func (w *Watcher) reload() {
	log := logging.Get(logging.CategoryConfig)

	cfg, err := Load(w.path)
	if err != nil {
		log.Error("watcher: reload failed: %v", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("watcher: reloaded config invalid, keeping previous: %v", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	// Pick up debug_mode / category toggles without a restart
	if err := logging.ReloadConfig(); err != nil {
		log.Warn("watcher: logging reload failed: %v", err)
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	log.Info("watcher: config reloaded from %s", w.path)

	if w.onReload != nil {
		w.onReload(cfg)
	}
}
