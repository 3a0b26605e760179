package outbound

import (
	"context"

	"github.com/ajkula/GoLayoutView/domain/model"
)

// defines operations for monitoring a single file for changes
type FileWatcher interface {
	// starts monitoring the given file and returns an owned handle.
	// The handle must be closed by the caller to release the watch.
	Watch(ctx context.Context, path string) (WatchHandle, error)
}

// WatchHandle is the owned reference to one active watch.
// Replacing or abandoning a watch without closing its handle
// leaks the underlying OS watcher.
type WatchHandle interface {
	// returns a channel of debounced change events for the watched file
	Events() <-chan model.WatchEvent

	// returns a channel of watcher runtime errors
	Errors() <-chan error

	// returns the absolute path of the watched file
	Path() string

	// stops the watch and releases resources; safe to call twice
	Close() error
}
