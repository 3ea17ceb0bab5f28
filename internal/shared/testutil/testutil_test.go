package testutil

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewLogRecorder(t)
	child := logger.With(slog.String("component", "archive"))

	logger.Info("plain", slog.Int("n", 1))
	child.Warn("HTML/error from mirror", slog.String("url", "https://example.test/a"))
	child.Error("boom")

	require.Len(t, rec.Entries(), 3)
	assert.Equal(t, []string{"plain"}, rec.Messages(slog.LevelInfo))

	e := AssertLogged(t, rec, slog.LevelWarn, "HTML/error")
	assert.Equal(t, "archive", e.Attrs["component"])
	assert.Equal(t, "https://example.test/a", e.Attrs["url"])

	_, ok := rec.Find(slog.LevelWarn, "missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"boom"}, rec.Messages(slog.LevelError))
}

func TestMTOReport(t *testing.T) {
	date := time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
	report := MTOReport(date,
		MTORow{Symbol: "20MICRONS", Series: "EQ", Traded: "66443", Deliv: "38936", Percent: "58.60"},
		MTORow{Symbol: "3IINFOTECH", Series: "BE", Traded: "1,204,551", Deliv: "-", Percent: "NA"},
	)

	lines := strings.Split(strings.TrimSuffix(report, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "17-OCT-2025")
	assert.Equal(t, "10,MTO,17102025,4135628,0000001", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Record Type,Sr No,Name of Security"))
	assert.Equal(t, "20,1,20MICRONS,EQ,66443,38936,58.60", lines[3])
	assert.Equal(t, `20,2,3IINFOTECH,BE,"1,204,551",-,NA`, lines[4])
}
