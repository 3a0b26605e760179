package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// FsWatcherFactory creates one fsnotify watcher per watched file.
// Each Watch call returns an owned handle; the caller is responsible
// for closing it before attaching a replacement.
type FsWatcherFactory struct {
	debounce   time.Duration
	bufferSize int
}

func NewFSWatcherFactory(debounce time.Duration, bufferSize int) outbound.FileWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &FsWatcherFactory{
		debounce:   debounce,
		bufferSize: bufferSize,
	}
}

func (f *FsWatcherFactory) Watch(ctx context.Context, path string) (outbound.WatchHandle, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// for file paths, we need to watch the directory and filter events,
	// otherwise atomic saves (write temp + rename over) would detach the watch
	dir := filepath.Dir(absPath)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	w := &fsWatch{
		target:   absPath,
		watcher:  fsWatcher,
		events:   make(chan model.WatchEvent, f.bufferSize),
		errors:   make(chan error, 8),
		debounce: f.debounce,
		ctx:      watchCtx,
		cancel:   cancel,
		closed:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// fsWatch is one active watch on a single file
type fsWatch struct {
	target   string
	watcher  *fsnotify.Watcher
	events   chan model.WatchEvent
	errors   chan error
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	pending  model.WatchEventType
	shutdown bool

	ctx       context.Context
	cancel    context.CancelFunc
	closed    chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

func (w *fsWatch) Events() <-chan model.WatchEvent {
	return w.events
}

func (w *fsWatch) Errors() <-chan error {
	return w.errors
}

func (w *fsWatch) Path() string {
	return w.target
}

// Close stops the watch and releases the underlying fsnotify watcher.
// Safe to call more than once.
func (w *fsWatch) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()

		w.mu.Lock()
		w.shutdown = true
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()

		err = w.watcher.Close()

		// wait for the event loop to finish
		<-w.closed

		close(w.events)
		close(w.errors)
	})
	return err
}

// run filters raw fsnotify events down to the watched file and debounces them
func (w *fsWatch) run() {
	defer close(w.closed)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.matchesTarget(event.Name) {
				continue
			}

			// modification kinds only; Chmod is metadata noise
			switch {
			case event.Has(fsnotify.Write):
				w.debounceEvent(model.FileModified)
			case event.Has(fsnotify.Create):
				w.debounceEvent(model.FileCreated)
			case event.Has(fsnotify.Rename):
				w.debounceEvent(model.FileModified)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errors <- err:
			case <-w.ctx.Done():
				return
			}
		}
	}
}

// matchesTarget compares event paths against the watched file
func (w *fsWatch) matchesTarget(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.target
}

// debounceEvent collapses bursts of raw events into a single emission
// per debounce window
func (w *fsWatch) debounceEvent(eventType model.WatchEventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return
	}

	w.pending = eventType

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire emits the pending event once the window closes
func (w *fsWatch) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return
	}

	event := model.WatchEvent{
		Path:      w.target,
		Type:      w.pending,
		Timestamp: time.Now(),
	}

	// never block the timer goroutine; a lagging consumer loses events
	select {
	case w.events <- event:
	default:
		w.dropped.Add(1)
	}

	w.timer = nil
}
