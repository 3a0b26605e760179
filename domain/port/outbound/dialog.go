package outbound

import (
	"context"

	"github.com/ajkula/GoLayoutView/domain/model"
)

// defines access to the platform's native file selection dialog
type FileDialog interface {
	// PickFile opens a blocking file selection dialog.
	// ok is false when the user dismissed the dialog without choosing;
	// that is an absence, not an error.
	PickFile(ctx context.Context, opts model.DialogOptions) (path string, ok bool, err error)
}
