package services

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverycli/internal/config"
	"deliverycli/internal/errors"
	"deliverycli/internal/exporter"
	"deliverycli/internal/files"
	"deliverycli/internal/infrastructure"
	"deliverycli/internal/shared/testutil"
)

var implicitSeriesReport = testutil.MTOReport(time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
	testutil.MTORow{Symbol: "AAA", Series: "EQ", Traded: "1000", Deliv: "800", Percent: "80.00"},
	testutil.MTORow{Symbol: "BBB", Series: "EQ", Traded: "2000", Deliv: "800", Percent: "40.00"},
	testutil.MTORow{Symbol: "CCC", Series: "BE", Traded: "500", Deliv: "50", Percent: "10.00"},
)

type fakeFetcher struct {
	reports map[string]string
	err     error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, date time.Time) (string, error) {
	key := date.Format("2006-01-02")
	f.calls = append(f.calls, key)
	if f.err != nil {
		return "", f.err
	}
	raw, ok := f.reports[key]
	if !ok {
		return "", errors.NewFetchError("all archive mirrors failed for "+key, stderrors.New("HTTP 404"))
	}
	return raw, nil
}

func newDeliveryService(t *testing.T, fetcher ReportFetcher) (*DeliveryService, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{DataDir: "data", LogsDir: "logs"})
	logger := infrastructure.NewLogger(io.Discard, "debug")
	svc := NewDeliveryService(fetcher, files.NewManager(paths, logger), exporter.NewCSVWriter(logger), infrastructure.NoopPipelineMetrics(), logger)
	return svc, paths
}

var (
	day     = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
	prevDay = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
)

func TestDeliveryService_FetchAndClean(t *testing.T) {
	svc, paths := newDeliveryService(t, &fakeFetcher{reports: map[string]string{"2025-10-17": implicitSeriesReport}})

	path, err := svc.FetchAndClean(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, paths.CleanCSVPath(day), path)

	raw, err := os.ReadFile(paths.RawReportPath(day))
	require.NoError(t, err)
	assert.Equal(t, implicitSeriesReport, string(raw))

	clean, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"SYMBOL,SERIES,QTY_TRADED,DELIV_QTY,DELIV_PCT\n"+
			"AAA,EQ,1000,800,80\n"+
			"BBB,EQ,2000,800,40\n"+
			"CCC,BE,500,50,10\n",
		string(clean))
}

func TestDeliveryService_ParseFailureKeepsRawOnly(t *testing.T) {
	page := "<html><body>maintenance</body></html>\nno,header,here\n"
	svc, paths := newDeliveryService(t, &fakeFetcher{reports: map[string]string{"2025-10-17": page}})

	_, err := svc.FetchAndClean(context.Background(), day)
	require.Error(t, err)
	assert.True(t, errors.IsFormatError(err))
	assert.Contains(t, err.Error(), paths.RawReportPath(day))

	assert.FileExists(t, paths.RawReportPath(day))
	assert.NoFileExists(t, paths.CleanCSVPath(day))
}

func TestDeliveryService_FetchFailureWritesNothing(t *testing.T) {
	svc, paths := newDeliveryService(t, &fakeFetcher{})

	_, err := svc.FetchAndClean(context.Background(), day)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.NoFileExists(t, paths.RawReportPath(day))
	assert.NoFileExists(t, paths.CleanCSVPath(day))
}

func TestDeliveryService_RunWithPrevious(t *testing.T) {
	fetcher := &fakeFetcher{reports: map[string]string{
		"2025-10-17": implicitSeriesReport,
		"2025-10-16": implicitSeriesReport,
	}}
	svc, paths := newDeliveryService(t, fetcher)

	written, err := svc.Run(context.Background(), day, FetchOptions{IncludePrevious: true})
	require.NoError(t, err)
	assert.Equal(t, []string{paths.CleanCSVPath(day), paths.CleanCSVPath(prevDay)}, written)
	assert.Equal(t, []string{"2025-10-17", "2025-10-16"}, fetcher.calls)
}

func TestDeliveryService_RunStopsAtFirstFailure(t *testing.T) {
	fetcher := &fakeFetcher{reports: map[string]string{"2025-10-17": implicitSeriesReport}}
	svc, paths := newDeliveryService(t, fetcher)

	written, err := svc.Run(context.Background(), day, FetchOptions{IncludePrevious: true})
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.Equal(t, []string{paths.CleanCSVPath(day)}, written)
}

func TestDeliveryService_CleanFromRawIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{reports: map[string]string{"2025-10-17": implicitSeriesReport}}
	svc, paths := newDeliveryService(t, fetcher)

	_, err := svc.FetchAndClean(context.Background(), day)
	require.NoError(t, err)
	first, err := os.ReadFile(paths.CleanCSVPath(day))
	require.NoError(t, err)

	written, err := svc.Run(context.Background(), day, FetchOptions{FromRaw: true})
	require.NoError(t, err)
	assert.Equal(t, []string{paths.CleanCSVPath(day)}, written)

	second, err := os.ReadFile(paths.CleanCSVPath(day))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, fetcher.calls, 1, "reprocessing must not download")
}

func TestDeliveryService_CleanFromRawMissing(t *testing.T) {
	svc, _ := newDeliveryService(t, &fakeFetcher{})

	_, err := svc.CleanFromRaw(context.Background(), day)
	require.Error(t, err)
	assert.True(t, errors.IsMissingFileError(err))
}

func TestDeliveryService_LogsArtifacts(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{DataDir: "data", LogsDir: "logs"})
	logger, logs := testutil.NewLogRecorder(t)
	fetcher := &fakeFetcher{reports: map[string]string{"2025-10-17": implicitSeriesReport}}
	svc := NewDeliveryService(fetcher, files.NewManager(paths, logger), exporter.NewCSVWriter(logger), nil, logger)

	_, err := svc.FetchAndClean(context.Background(), day)
	require.NoError(t, err)

	saved := testutil.AssertLogged(t, logs, slog.LevelInfo, "Saved raw report")
	assert.Equal(t, paths.RawReportPath(day), saved.Attrs["path"])
	assert.Equal(t, "2025-10-17", saved.Attrs["date"])
	testutil.AssertNoErrors(t, logs)
}
