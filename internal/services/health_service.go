package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"deliverycli/internal/config"
	"deliverycli/internal/files"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	discovery *files.Discovery
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		discovery: files.NewDiscovery(paths),
		startTime: time.Now(),
		logger:    logger,
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports "ready" when every data directory is present and
// at least one clean table can be served.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"raw":   checkDir(hs.paths.RawDir),
			"clean": checkDir(hs.paths.CleanDir),
			"data":  hs.checkData(),
		},
	}

	for name, s := range status.Services {
		if s.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.DebugContext(ctx, "Readiness check failed",
				slog.String("component", name),
				slog.String("message", s.Message))
		}
	}
	return status
}

func (hs *HealthService) checkData() ServiceHealth {
	tables, err := hs.discovery.CleanTables()
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	latest, ok := files.GetLatestFile(tables)
	if !ok {
		return ServiceHealth{Status: "not_ready", Message: ErrNoCleanTables.Error()}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clean tables, latest %s", len(tables), latest.DateString()),
	}
}

func checkDir(dir string) ServiceHealth {
	info, err := os.Stat(dir)
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("directory not found: %s", dir)}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	return ServiceHealth{Status: "ready"}
}
