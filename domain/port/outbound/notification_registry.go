package outbound

import (
	"github.com/ajkula/GoLayoutView/domain/model"
)

// defines operations to manage notification subscriptions
type NotificationRegistry interface {
	// RegisterSubscriber registers a new consumer and returns its id and channel
	RegisterSubscriber() (string, <-chan model.Notification)

	// UnregisterSubscriber removes a consumer and closes its channel
	UnregisterSubscriber(id string) error

	// Publish fans a notification out to all consumers without blocking;
	// consumers that lag lose notifications rather than stalling the watcher
	Publish(n model.Notification)

	// SubscriberCount returns the number of registered consumers
	SubscriberCount() int

	// DroppedCount returns how many notifications were discarded on full channels
	DroppedCount() uint64

	// Close unregisters every consumer
	Close()
}
