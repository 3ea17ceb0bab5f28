package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"deliverycli/internal/config"
	"deliverycli/internal/errors"
)

// Manager provides file management operations for pipeline artifacts
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// Paths returns the layout the manager writes into.
func (m *Manager) Paths() *config.Paths {
	return m.paths
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteRawReport stores the downloaded report text for date exactly as
// received and returns its path.
func (m *Manager) WriteRawReport(date time.Time, text string) (string, error) {
	path := m.paths.RawReportPath(date)
	if err := m.WriteFile(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}

// ReadRawReport returns the stored report text for date.
func (m *Manager) ReadRawReport(date time.Time) (string, error) {
	path := m.paths.RawReportPath(date)
	data, err := m.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFile reads the entire content of a file. A missing file is reported as
// a missing-file error.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	m.logger.Debug("Reading file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError(path)
		}
		return nil, errors.NewStorageError("failed to read file", err).WithContext("path", path)
	}
	return data, nil
}

// WriteFile writes data to path, creating parent directories.
func (m *Manager) WriteFile(path string, data []byte) error {
	m.logger.Info("Writing file",
		slog.String("path", path),
		slog.Int("size_bytes", len(data)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("failed to write file", err).WithContext("path", path)
	}
	return nil
}
