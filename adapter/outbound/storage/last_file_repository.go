package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// lastFileRepository persists the most recently opened layout path
// as a plain text marker file in the app data directory.
type lastFileRepository struct {
	dataDir  string
	filePath string
	logger   outbound.Logger
}

func NewLastFileRepository(dataDir, filename string, logger outbound.Logger) outbound.LastFileRepository {
	return &lastFileRepository{
		dataDir:  dataDir,
		filePath: filepath.Join(dataDir, filename),
		logger:   logger,
	}
}

// Save overwrites the marker with the given path, verbatim.
// The data directory is created on demand; reading never creates it.
func (r *lastFileRepository) Save(path string) error {
	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create app data dir: %w", err)
	}

	if err := os.WriteFile(r.filePath, []byte(path), 0644); err != nil {
		return fmt.Errorf("failed to save last file path: %w", err)
	}

	r.logger.Debug("Last file marker saved", "path", path, "marker", r.filePath)
	return nil
}

// Load returns the raw marker content
func (r *lastFileRepository) Load() (string, error) {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return "", model.ErrLastFileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last file path: %w", err)
	}

	return string(data), nil
}

func (r *lastFileRepository) Exists() bool {
	// a marker behind an unreadable or clobbered data dir counts as absent
	_, err := os.Stat(r.filePath)
	return err == nil
}
