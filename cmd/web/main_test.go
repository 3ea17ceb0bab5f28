package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverycli/internal/infrastructure"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-port", "9000", "-data", "/srv/delivery"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 9000, opts.port)
	assert.Equal(t, "/srv/delivery", opts.dataDir)

	_, err = parseFlags([]string{"-port", "70000"}, &stderr)
	assert.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "delivery-web v")
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Setenv("DELIVERY_TELEMETRY_TRACE_EXPORTER", "none")
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-data", t.TempDir(), "-port", "18931"}, &stdout, &stderr)
	assert.NoError(t, err)
}
