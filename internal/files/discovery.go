package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"deliverycli/internal/config"
	"deliverycli/pkg/contracts/domain"
)

// FileInfo represents a dated artifact found on disk
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Date    time.Time `json:"-"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DateString returns the artifact date as YYYY-MM-DD.
func (f FileInfo) DateString() string {
	return domain.FormatISODate(f.Date)
}

// Discovery provides file discovery operations
type Discovery struct {
	paths *config.Paths
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{paths: paths}
}

// RawReports lists stored MTO_<date>.DAT files, newest date first.
func (d *Discovery) RawReports() ([]FileInfo, error) {
	return findDated(d.paths.RawDir, config.RawReportPrefix, config.RawReportExt)
}

// CleanTables lists delivery_<date>.csv files, newest date first.
func (d *Discovery) CleanTables() ([]FileInfo, error) {
	return findDated(d.paths.CleanDir, config.CleanCSVPrefix, config.CSVExt)
}

// Rankings lists top10_<date>.csv files, newest date first.
func (d *Discovery) Rankings() ([]FileInfo, error) {
	return findDated(d.paths.OutputDir, config.RankingFilePrefix, config.CSVExt)
}

// GetLatestFile returns the file with the newest date
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}
	latest := files[0]
	for _, f := range files[1:] {
		if f.Date.After(latest.Date) {
			latest = f
		}
	}
	return latest, true
}

// findDated returns the files in dir named <prefix><YYYY-MM-DD><ext>. A
// missing directory yields no files.
func findDated(dir, prefix, ext string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		date, err := time.Parse(domain.ISODateLayout, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext))
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Date:    date,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Date.After(files[j].Date)
	})

	return files, nil
}
