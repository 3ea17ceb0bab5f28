package services

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverycli/internal/config"
	"deliverycli/internal/exporter"
	"deliverycli/internal/infrastructure"
)

func TestHealthService_Liveness(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{})
	hs := NewHealthService("1.2.3", paths, infrastructure.NewLogger(io.Discard, "info"))

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthService_Readiness(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{})
	hs := NewHealthService("1.2.3", paths, infrastructure.NewLogger(io.Discard, "debug"))

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["raw"].Status)

	require.NoError(t, paths.EnsureDirectories())
	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "ready", status.Services["clean"].Status)
	assert.Equal(t, ErrNoCleanTables.Error(), status.Services["data"].Message)

	w := exporter.NewCSVWriter(nil)
	writeClean(t, paths, w, "2025-10-17", rec("A", "EQ", 80))
	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	assert.Contains(t, status.Services["data"].Message, "latest 2025-10-17")
}
