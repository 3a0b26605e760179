package dialog

import (
	"context"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ajkula/GoLayoutView/domain/model"
)

// WailsDialog opens native file dialogs through the Wails runtime.
// The runtime context only exists once the shell has started; until
// SetContext is called every pick reports ErrDialogUnavailable.
type WailsDialog struct {
	mu  sync.RWMutex
	ctx context.Context
}

func NewWailsDialog() *WailsDialog {
	return &WailsDialog{}
}

// SetContext injects the Wails runtime context, on application startup
func (d *WailsDialog) SetContext(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctx = ctx
}

func (d *WailsDialog) PickFile(_ context.Context, opts model.DialogOptions) (string, bool, error) {
	d.mu.RLock()
	runtimeCtx := d.ctx
	d.mu.RUnlock()

	if runtimeCtx == nil {
		return "", false, model.ErrDialogUnavailable
	}

	path, err := runtime.OpenFileDialog(runtimeCtx, runtime.OpenDialogOptions{
		Title:   opts.Title,
		Filters: toRuntimeFilters(opts.Filters),
	})
	if err != nil {
		return "", false, err
	}

	// the runtime reports a dismissed dialog as an empty path
	if path == "" {
		return "", false, nil
	}

	return path, true, nil
}

// toRuntimeFilters converts filter groups to the wails pattern format
func toRuntimeFilters(filters []model.FileFilter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		patterns := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			patterns = append(patterns, "*."+strings.TrimPrefix(ext, "."))
		}
		out = append(out, runtime.FileFilter{
			DisplayName: f.Name,
			Pattern:     strings.Join(patterns, ";"),
		})
	}
	return out
}
