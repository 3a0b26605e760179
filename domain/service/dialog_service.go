package service

import (
	"context"

	"github.com/ajkula/GoLayoutView/config"
	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type dialogService struct {
	dialog outbound.FileDialog
	cfg    *config.Config
	logger outbound.Logger
}

// NewDialogService crée le service des dialogues de fichiers
func NewDialogService(
	dialog outbound.FileDialog,
	cfg *config.Config,
	logger outbound.Logger,
) inbound.DialogService {
	return &dialogService{
		dialog: dialog,
		cfg:    cfg,
		logger: logger,
	}
}

// OpenFileDialog shows the layout picker. A cancelled dialog returns ok=false
// with a nil error so callers can tell it apart from a platform failure.
func (s *dialogService) OpenFileDialog(ctx context.Context) (string, bool, error) {
	opts := model.DialogOptions{
		Title:   "Open Layout File",
		Filters: s.filters(),
	}

	path, ok, err := s.dialog.PickFile(ctx, opts)
	if err != nil {
		s.logger.Error("File dialog failed", "error", err)
		return "", false, err
	}
	if !ok {
		s.logger.Debug("File dialog cancelled")
		return "", false, nil
	}

	s.logger.Info("File selected", "path", path)
	return path, true, nil
}

func (s *dialogService) filters() []model.FileFilter {
	filters := model.DefaultLayoutFilters()
	for _, extra := range s.cfg.Dialog.ExtraFilters {
		if extra.Name == "" || len(extra.Extensions) == 0 {
			continue
		}
		filters = append(filters, model.FileFilter{
			Name:       extra.Name,
			Extensions: extra.Extensions,
		})
	}
	return filters
}
