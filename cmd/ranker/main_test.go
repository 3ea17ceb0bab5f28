package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deliverycli/internal/errors"
	"deliverycli/internal/infrastructure"
)

func writeClean(t *testing.T, dataDir, date, body string) {
	t.Helper()
	dir := filepath.Join(dataDir, "clean")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "delivery_"+date+".csv"),
		[]byte("SYMBOL,SERIES,QTY_TRADED,DELIV_QTY,DELIV_PCT\n"+body), 0644))
}

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("DELIVERY_TELEMETRY_TRACE_EXPORTER", "none")
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dataDir := t.TempDir()
	writeClean(t, dataDir, "2025-10-17",
		"AAA,EQ,100,80,80\n"+
			"BBB,EQ,100,40,40\n"+
			"CCC,EQ,100,60,60\n"+
			"DDD,BE,100,99,99\n"+
			"NEW,EQ,100,90,90\n")
	writeClean(t, dataDir, "2025-10-16",
		"AAA,EQ,100,70,70\n"+
			"BBB,EQ,100,50,50\n"+
			"CCC,EQ,100,30,30\n"+
			"DDD,BE,100,1,1\n")
	return dataDir
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-date", "2025-10-17", "-top", "5", "-series", "BE", "-xlsx"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.top)
	assert.Equal(t, "BE", opts.series)
	assert.True(t, opts.xlsx)
	assert.True(t, opts.set["top"])

	_, err = parseFlags([]string{"-top", "0"}, &stderr)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dataDir := setup(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-date", "2025-10-17", "-data", dataDir}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Top 10 increase in delivery percentage (largest first)", lines[0])
	assert.Equal(t, "Date: 2025-10-17", lines[1])
	assert.Contains(t, lines[3], "CCC")
	assert.Contains(t, lines[3], "30.00")
	assert.Contains(t, lines[4], "AAA")
	assert.Contains(t, lines[5], "BBB")
	assert.Contains(t, lines[5], "-10.00")
	assert.NotContains(t, out, "NEW")
	assert.NotContains(t, out, "DDD")

	csvPath := filepath.Join(dataDir, "output", "top10_2025-10-17.csv")
	assert.Contains(t, out, "\nSaved CSV: "+csvPath+"\n")

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t,
		"symbol,today_pct,prev_pct,change_pct,date_today,date_prev\n"+
			"CCC,60,30,30,2025-10-17,2025-10-16\n"+
			"AAA,80,70,10,2025-10-17,2025-10-16\n"+
			"BBB,40,50,-10,2025-10-17,2025-10-16\n",
		string(content))
}

func TestRun_SeriesTopAndXLSX(t *testing.T) {
	dataDir := setup(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-date", "2025-10-17", "-data", dataDir, "-series", "BE", "-top", "1", "-xlsx"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Top 1 increase")
	assert.Contains(t, stdout.String(), "DDD")
	assert.NotContains(t, stdout.String(), "CCC")
	assert.FileExists(t, filepath.Join(dataDir, "output", "top10_2025-10-17.xlsx"))
	assert.Contains(t, stdout.String(), "Saved XLSX: ")
}

func TestRun_MissingPreviousTable(t *testing.T) {
	dataDir := setup(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-date", "2025-10-16", "-data", dataDir}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery_2025-10-15.csv")
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, filepath.Join(dataDir, "output", "top10_2025-10-16.csv"))
}

func TestRun_InvalidDate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-date", "2025-13-01"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "invalid target date")
	assert.Empty(t, stdout.String())
}
