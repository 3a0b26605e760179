package inbound

import (
	"context"

	"github.com/ajkula/GoLayoutView/domain/model"
)

// DialogService defines operations for native file selection
type DialogService interface {
	// OpenFileDialog opens the layout file picker.
	// ok is false when the user cancelled; that is not an error.
	OpenFileDialog(ctx context.Context) (path string, ok bool, err error)
}

// WatchService defines operations for the single-file watch
type WatchService interface {
	// Watch declares path as the watch target and attaches a watcher to it.
	// Any previously attached watcher is released first.
	Watch(ctx context.Context, path string) error

	// Unwatch releases the active watcher and clears the target. Idempotent.
	Unwatch()

	// Status returns a snapshot of the watch state
	Status() model.WatchStatus

	// Close releases all resources held by the service
	Close()
}

// RecentFileService defines operations for the last opened file marker
type RecentFileService interface {
	// LastFilePath returns the persisted path, trimmed.
	// ok is false when no marker exists; that is not an error.
	LastFilePath() (path string, ok bool, err error)

	// SaveLastFilePath persists path verbatim, creating the data
	// directory when needed
	SaveLastFilePath(path string) error
}

// NotificationService defines operations for consuming change notifications
type NotificationService interface {
	// Subscribe registers a consumer and returns its id and channel
	Subscribe() (string, <-chan model.Notification)

	// Unsubscribe removes a consumer
	Unsubscribe(id string) error

	// SubscriberCount returns the number of active consumers
	SubscriberCount() int
}
