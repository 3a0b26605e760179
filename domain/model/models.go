package model

import (
	"time"
)

// WatchEventType identifies the kind of filesystem change reported by a watcher
type WatchEventType string

const (
	// FileModified is emitted when the watched file content changes
	FileModified WatchEventType = "modify"

	// FileCreated is emitted when the watched file appears in place
	FileCreated WatchEventType = "create"
)

// WatchEvent represents a debounced filesystem change on the watched file
type WatchEvent struct {
	Path      string         // Absolute path of the watched file
	Type      WatchEventType // Kind of change
	Timestamp time.Time      // When the debounce window closed
}

// WatchStatus is a snapshot of the watch state for introspection
type WatchStatus struct {
	Active bool      `json:"active"`          // A live watcher is attached
	Path   string    `json:"path,omitempty"`  // Declared watch target
	Since  time.Time `json:"since,omitempty"` // When the current target was declared
}

// NotificationFileChanged is the single notification type pushed to the UI
const NotificationFileChanged = "file-changed"

// Notification is the outward message sent to presentation layers.
// It intentionally carries no payload beyond its type: consumers
// re-read the file themselves when they receive it.
type Notification struct {
	Type string `json:"type"`
}

// FileFilter describes one filter group of the native open dialog
type FileFilter struct {
	Name       string   // Label shown in the dialog
	Extensions []string // Extensions without the leading dot
}

// DefaultLayoutFilters returns the filter groups offered when picking a layout file
func DefaultLayoutFilters() []FileFilter {
	return []FileFilter{
		{
			Name:       "GDS Files",
			Extensions: []string{"gds", "gdsii", "dxf"},
		},
	}
}

// DialogOptions configures a native file selection dialog
type DialogOptions struct {
	Title   string
	Filters []FileFilter
}
