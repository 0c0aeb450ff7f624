package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"assistoff.io/assistoff/internal/assistoff/core"
)

const (
	defaultPattern = "*.json"
	defaultBuffer  = 16
)

var ErrAlreadyStarted = errors.New("watcher already started")

// Options controls watcher behavior.
type Options struct {
	// Pattern is matched against the base name of every changed file.
	Pattern string
	// Debounce coalesces events on the same file; zero forwards every event.
	Debounce time.Duration
	// Buffer is the capacity of the Events channel.
	Buffer int
	Logger logr.Logger
	// OnError is called for every error reported by fsnotify.
	OnError func(error)
}

// Watcher observes a single directory, non-recursively.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	logger   logr.Logger
	onError  func(error)

	events chan core.Notification
	done   chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopOnce  sync.Once
	closeOnce sync.Once
}

var _ core.Source = (*Watcher)(nil)

// New creates a Watcher for dir. Nothing is watched until Start.
func New(dir string, opts Options) *Watcher {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Watcher{
		dir:      dir,
		pattern:  pattern,
		debounce: opts.Debounce,
		logger:   logger,
		onError:  opts.OnError,
		events:   make(chan core.Notification, buffer),
		done:     make(chan struct{}),
	}
}

// Events returns the notification channel. It is closed once the watcher stops.
func (w *Watcher) Events() <-chan core.Notification {
	return w.events
}

// Start registers the directory with fsnotify and begins forwarding events
// until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.started = true
	w.wg.Add(1)
	go w.run(ctx, fsw)

	w.logger.Info("Watching directory", "dir", w.dir, "pattern", w.pattern, "debounce", w.debounce)
	return nil
}

// Stop ends event processing and waits for the forwarding goroutine. It is
// safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()

	w.mu.Lock()
	if !w.started {
		w.closeEvents()
	}
	w.mu.Unlock()
	return nil
}

func (w *Watcher) closeEvents() {
	w.closeOnce.Do(func() { close(w.events) })
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer w.closeEvents()
	defer fsw.Close()

	pending := newDebouncer(w.debounce)
	defer pending.stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			n, ok := w.translate(event)
			if !ok {
				continue
			}
			if pending.enabled() {
				pending.schedule(n)
				continue
			}
			if !w.emit(ctx, n) {
				return
			}
		case <-pending.ready():
			for _, n := range pending.due(time.Now()) {
				if !w.emit(ctx, n) {
					return
				}
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "fsnotify error", "dir", w.dir)
			if w.onError != nil {
				w.onError(err)
			}
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// translate keeps create and write events whose base name matches the pattern.
func (w *Watcher) translate(event fsnotify.Event) (core.Notification, bool) {
	var op core.Op
	switch {
	case event.Has(fsnotify.Create):
		op = core.OpCreated
	case event.Has(fsnotify.Write):
		op = core.OpChanged
	default:
		return core.Notification{}, false
	}

	name := filepath.Base(event.Name)
	if ok, _ := filepath.Match(w.pattern, name); !ok {
		return core.Notification{}, false
	}

	return core.Notification{
		Name:      name,
		Path:      event.Name,
		Op:        op,
		Timestamp: time.Now().UTC(),
	}, true
}

func (w *Watcher) emit(ctx context.Context, n core.Notification) bool {
	w.logger.V(1).Info("File event", "name", n.Name, "op", string(n.Op))
	select {
	case w.events <- n:
		return true
	case <-ctx.Done():
		return false
	case <-w.done:
		return false
	}
}
