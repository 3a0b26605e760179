package notify

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// subscriberBuffer bounds each consumer channel; change notifications
// are cheap to lose since consumers re-read state anyway
const subscriberBuffer = 8

type subscription struct {
	ID string
	Ch chan model.Notification
}

// Registry fans change notifications out to registered consumers
// over channels. Publishing never blocks: a consumer that stops
// draining its channel loses notifications instead of stalling
// the watcher pipeline.
type Registry struct {
	// Map of subscriptions by ID
	subscriptions map[string]*subscription

	dropped atomic.Uint64
	closed  bool
	mu      sync.RWMutex
}

func NewRegistry() outbound.NotificationRegistry {
	return &Registry{
		subscriptions: make(map[string]*subscription),
	}
}

func (r *Registry) RegisterSubscriber() (string, <-chan model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()

	sub := &subscription{
		ID: id,
		Ch: make(chan model.Notification, subscriberBuffer),
	}

	if r.closed {
		// a closed registry hands out a closed channel
		close(sub.Ch)
		return id, sub.Ch
	}

	r.subscriptions[id] = sub

	return id, sub.Ch
}

func (r *Registry) UnregisterSubscriber(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.subscriptions[id]
	if !exists {
		return ErrSubscriptionNotFound
	}

	delete(r.subscriptions, id)
	close(sub.Ch)

	return nil
}

func (r *Registry) Publish(n model.Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	for _, sub := range r.subscriptions {
		select {
		case sub.Ch <- n:
		default:
			r.dropped.Add(1)
		}
	}
}

func (r *Registry) SubscriberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions)
}

func (r *Registry) DroppedCount() uint64 {
	return r.dropped.Load()
}

// Close unregisters every consumer; later publishes are discarded
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	for id, sub := range r.subscriptions {
		delete(r.subscriptions, id)
		close(sub.Ch)
	}
}
