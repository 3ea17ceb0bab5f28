package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	CleanDir      string
	OutputDir     string
	LogsDir       string
}

// GetPaths resolves cfg against the executable directory.
// Absolute directories in cfg are used as-is.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return NewPaths(filepath.Dir(exe), cfg), nil
}

// NewPaths builds the directory layout below baseDir:
//
//	data/
//	  raw/      MTO_<date>.DAT as downloaded
//	  clean/    delivery_<date>.csv
//	  output/   top10_<date>.csv (+ .xlsx)
//	logs/
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	dataDir := resolve(baseDir, cfg.DataDir, DefaultDataDir)
	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		RawDir:        filepath.Join(dataDir, "raw"),
		CleanDir:      filepath.Join(dataDir, "clean"),
		OutputDir:     filepath.Join(dataDir, "output"),
		LogsDir:       resolve(baseDir, cfg.LogsDir, DefaultLogsDir),
	}
}

func resolve(baseDir, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.CleanDir,
		p.OutputDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// RawReportPath returns data/raw/MTO_<YYYY-MM-DD>.DAT
func (p *Paths) RawReportPath(date time.Time) string {
	return filepath.Join(p.RawDir, RawReportPrefix+date.Format("2006-01-02")+RawReportExt)
}

// CleanCSVPath returns data/clean/delivery_<YYYY-MM-DD>.csv
func (p *Paths) CleanCSVPath(date time.Time) string {
	return filepath.Join(p.CleanDir, CleanCSVPrefix+date.Format("2006-01-02")+CSVExt)
}

// RankingCSVPath returns data/output/top10_<YYYY-MM-DD>.csv
func (p *Paths) RankingCSVPath(date time.Time) string {
	return filepath.Join(p.OutputDir, RankingFilePrefix+date.Format("2006-01-02")+CSVExt)
}

// RankingXLSXPath returns data/output/top10_<YYYY-MM-DD>.xlsx
func (p *Paths) RankingXLSXPath(date time.Time) string {
	return filepath.Join(p.OutputDir, RankingFilePrefix+date.Format("2006-01-02")+XLSXExt)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("clean", p.CleanDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		))
}
