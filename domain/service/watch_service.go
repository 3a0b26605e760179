package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// watchService owns the single active watch. All state lives on the
// instance and every dependency is injected, there are no globals.
type watchService struct {
	watcher  outbound.FileWatcher
	registry outbound.NotificationRegistry
	stats    inbound.StatsService
	logger   outbound.Logger

	mu     sync.Mutex
	path   string
	handle outbound.WatchHandle
	since  time.Time
	pumpWG sync.WaitGroup
}

func NewWatchService(
	watcher outbound.FileWatcher,
	registry outbound.NotificationRegistry,
	stats inbound.StatsService,
	logger outbound.Logger,
) *watchService {
	return &watchService{
		watcher:  watcher,
		registry: registry,
		stats:    stats,
		logger:   logger,
	}
}

// Watch declares path as the watch target and attaches a watcher to it.
// The previous watcher, if any, is released first so it can never keep
// emitting behind a replacement.
func (s *watchService) Watch(ctx context.Context, path string) error {
	if path == "" {
		return model.ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		s.stats.RecordWatchStopped(s.path)
	}
	s.releaseLocked()

	// the declared target is updated before attaching; a failed attach
	// leaves it set with no live watcher and the caller deals with it
	s.path = path
	s.since = time.Now()

	handle, err := s.watcher.Watch(ctx, path)
	if err != nil {
		s.logger.Error("Failed to watch file", "path", path, "error", err)
		return fmt.Errorf("failed to watch file: %w", err)
	}

	s.handle = handle
	s.stats.RecordWatchStarted(path)

	s.pumpWG.Add(1)
	go s.pump(handle)

	s.logger.Info("Watching file", "path", path)
	return nil
}

// Unwatch releases the active watcher and clears the target. Idempotent.
func (s *watchService) Unwatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" && s.handle == nil {
		return
	}

	s.logger.Info("Unwatching file", "path", s.path)

	if s.handle != nil {
		s.stats.RecordWatchStopped(s.path)
	}
	s.releaseLocked()
	s.path = ""
	s.since = time.Time{}
}

// Status returns a snapshot of the watch state
func (s *watchService) Status() model.WatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.WatchStatus{
		Active: s.handle != nil,
		Path:   s.path,
		Since:  s.since,
	}
}

// Close releases all resources held by the service
func (s *watchService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		s.stats.RecordWatchStopped(s.path)
	}
	s.releaseLocked()
	s.path = ""
	s.since = time.Time{}
}

// releaseLocked tears down the active handle and waits for its pump
// goroutine to drain. Callers hold s.mu; the pump never takes it.
func (s *watchService) releaseLocked() {
	if s.handle == nil {
		return
	}

	if err := s.handle.Close(); err != nil {
		s.logger.Error("Error releasing file watcher", "path", s.handle.Path(), "error", err)
	}
	s.handle = nil

	s.pumpWG.Wait()
}

// pump forwards debounced change events to the notification registry
// and routes watcher errors to the log boundary
func (s *watchService) pump(handle outbound.WatchHandle) {
	defer s.pumpWG.Done()

	events := handle.Events()
	errs := handle.Errors()

	for events != nil || errs != nil {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}

			s.logger.Debug("Received file event", "path", event.Path, "type", event.Type)
			s.stats.RecordEventSeen()

			// notifications carry no payload, consumers re-read the file
			s.registry.Publish(model.Notification{Type: model.NotificationFileChanged})
			s.stats.RecordNotificationPublished()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			s.logger.Error("File watcher error", "error", err)
		}
	}
}
