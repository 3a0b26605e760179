package dialog

import (
	"context"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// HeadlessDialog is the picker used when no native shell is attached.
// The headless server has no window to parent a dialog to, so every
// pick reports unavailability.
type HeadlessDialog struct{}

func NewHeadlessDialog() outbound.FileDialog {
	return &HeadlessDialog{}
}

func (d *HeadlessDialog) PickFile(context.Context, model.DialogOptions) (string, bool, error) {
	return "", false, model.ErrDialogUnavailable
}
