package service

import (
	"errors"
	"strings"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type recentFileService struct {
	repo   outbound.LastFileRepository
	logger outbound.Logger
}

// NewRecentFileService crée le service du dernier fichier ouvert
func NewRecentFileService(
	repo outbound.LastFileRepository,
	logger outbound.Logger,
) inbound.RecentFileService {
	return &recentFileService{
		repo:   repo,
		logger: logger,
	}
}

// LastFilePath returns the stored path with surrounding whitespace removed.
// A missing marker means no file was ever saved, which is not an error.
func (s *recentFileService) LastFilePath() (string, bool, error) {
	raw, err := s.repo.Load()
	if err != nil {
		if errors.Is(err, model.ErrLastFileNotFound) {
			return "", false, nil
		}
		s.logger.Error("Failed to load last file path", "error", err)
		return "", false, err
	}

	return strings.TrimSpace(raw), true, nil
}

func (s *recentFileService) SaveLastFilePath(path string) error {
	if path == "" {
		return model.ErrEmptyPath
	}

	if err := s.repo.Save(path); err != nil {
		s.logger.Error("Failed to save last file path", "path", path, "error", err)
		return err
	}

	s.logger.Debug("Saved last file path", "path", path)
	return nil
}
