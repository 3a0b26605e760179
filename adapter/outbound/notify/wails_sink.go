package notify

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// WailsSink bridges change notifications to the webview as runtime
// events. The frontend listens with EventsOn("file-changed", ...).
type WailsSink struct {
	notifications inbound.NotificationService
	logger        outbound.Logger

	mu             sync.Mutex
	subscriptionID string
	done           chan struct{}
}

func NewWailsSink(notifications inbound.NotificationService, logger outbound.Logger) *WailsSink {
	return &WailsSink{
		notifications: notifications,
		logger:        logger,
	}
}

// Start subscribes and forwards every notification as a payload-less
// runtime event. ctx must be the Wails runtime context.
func (s *WailsSink) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscriptionID != "" {
		return
	}

	id, ch := s.notifications.Subscribe()
	s.subscriptionID = id

	done := make(chan struct{})
	s.done = done

	go func() {
		defer close(done)
		for n := range ch {
			runtime.EventsEmit(ctx, n.Type)
		}
	}()
}

// Stop unsubscribes and waits for the forwarding goroutine to exit.
// Safe to call twice.
func (s *WailsSink) Stop() {
	s.mu.Lock()
	id := s.subscriptionID
	done := s.done
	s.subscriptionID = ""
	s.done = nil
	s.mu.Unlock()

	if id == "" {
		return
	}

	if err := s.notifications.Unsubscribe(id); err != nil {
		s.logger.Warn("Notification bridge unsubscribe failed", "error", err)
	}
	<-done
}
