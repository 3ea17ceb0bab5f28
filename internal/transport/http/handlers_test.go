package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverycli/internal/config"
	"deliverycli/internal/exporter"
	"deliverycli/internal/infrastructure"
	"deliverycli/internal/services"
	api "deliverycli/pkg/contracts/api/v1"
	"deliverycli/pkg/contracts/domain"
)

type testEnv struct {
	router *chi.Mux
	paths  *config.Paths
	writer *exporter.CSVWriter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{DataDir: "data", LogsDir: "logs"})
	logger := infrastructure.NewLogger(io.Discard, "debug")
	writer := exporter.NewCSVWriter(logger)
	ranker := services.NewRankingService(paths, writer, config.RankingConfig{Series: "EQ", TopN: 10}, nil, logger)

	health := NewHealthHandler(services.NewHealthService("test", paths, logger), logger)
	r := chi.NewRouter()
	r.Get("/healthz", health.LivenessCheck)
	r.Get("/readyz", health.ReadinessCheck)
	r.Get("/api/v1/version", health.Version)
	r.Mount("/api/v1/delivery", NewDeliveryHandler(paths, logger).Routes())
	r.Mount("/api/v1/top10", NewRankingHandler(paths, ranker, logger).Routes())

	return &testEnv{router: r, paths: paths, writer: writer}
}

func (e *testEnv) writeClean(t *testing.T, date string, records ...domain.DeliveryRecord) {
	t.Helper()
	d, err := time.ParseInLocation(domain.ISODateLayout, date, time.Local)
	require.NoError(t, err)
	require.NoError(t, e.writer.WriteDeliveryTable(e.paths.CleanCSVPath(d), &domain.DeliveryTable{Records: records}))
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func record(symbol, series string, pct float64) domain.DeliveryRecord {
	return domain.DeliveryRecord{
		Symbol:                symbol,
		Series:                series,
		QuantityTraded:        domain.Float(1000),
		DeliverableQuantity:   domain.Float(pct * 10),
		DeliverablePercentage: domain.Float(pct),
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.ErrorCode
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)

	rec = env.get(t, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"not_ready"`)

	require.NoError(t, env.paths.EnsureDirectories())
	env.writeClean(t, "2025-10-17", record("A", "EQ", 50))

	rec = env.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	rec = env.get(t, "/api/v1/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"api_version":"v1"`)
}

func TestDeliveryHandler_ListTables(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/v1/delivery")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty api.DeliveryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Files)

	env.writeClean(t, "2025-10-16", record("A", "EQ", 50))
	env.writeClean(t, "2025-10-17", record("A", "EQ", 60))

	rec = env.get(t, "/api/v1/delivery")
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.DeliveryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "2025-10-17", list.Files[0].Date)
	assert.Equal(t, "delivery_2025-10-17.csv", list.Files[0].Name)
	assert.Equal(t, "2025-10-16", list.Files[1].Date)
}

func TestDeliveryHandler_GetTable(t *testing.T) {
	env := newTestEnv(t)
	env.writeClean(t, "2025-10-16", record("OLD", "EQ", 10))
	env.writeClean(t, "2025-10-17", record("A", "EQ", 55.5), record("B", "BE", 20), record("C", "EQ", 70))

	tests := []struct {
		name    string
		target  string
		date    string
		symbols []string
	}{
		{name: "all series", target: "/api/v1/delivery/2025-10-17", date: "2025-10-17", symbols: []string{"A", "B", "C"}},
		{name: "series filter", target: "/api/v1/delivery/2025-10-17?series=EQ", date: "2025-10-17", symbols: []string{"A", "C"}},
		{name: "latest", target: "/api/v1/delivery/latest", date: "2025-10-17", symbols: []string{"A", "B", "C"}},
		{name: "older date", target: "/api/v1/delivery/2025-10-16", date: "2025-10-16", symbols: []string{"OLD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(t, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp api.DeliveryResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.date, resp.Date)
			assert.Equal(t, len(tt.symbols), resp.Count)

			var got []string
			for _, r := range resp.Records {
				got = append(got, r.Symbol)
			}
			assert.Equal(t, tt.symbols, got)
		})
	}

	rec := env.get(t, "/api/v1/delivery/2025-10-17")
	var resp api.DeliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Records[0].DeliverablePercentage)
	assert.Equal(t, 55.5, *resp.Records[0].DeliverablePercentage)
}

func TestDeliveryHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/v1/delivery/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", decodeError(t, rec))

	rec = env.get(t, "/api/v1/delivery/2025-10-17")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", decodeError(t, rec))

	rec = env.get(t, "/api/v1/delivery/17102025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec))

	rec = env.get(t, "/api/v1/delivery/2025-10-17?series=E%20Q")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankingHandler_Computed(t *testing.T) {
	env := newTestEnv(t)
	env.writeClean(t, "2025-10-17", record("A", "EQ", 80), record("B", "EQ", 40), record("C", "EQ", 60))
	env.writeClean(t, "2025-10-16", record("A", "EQ", 70), record("B", "EQ", 50), record("C", "EQ", 30))

	rec := env.get(t, "/api/v1/top10/2025-10-17")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.RankingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.SourceComputed, resp.Source)
	assert.Equal(t, "2025-10-17", resp.DateToday)
	assert.Equal(t, "2025-10-16", resp.DatePrev)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "C", resp.Entries[0].Symbol)
	assert.Equal(t, 30.0, *resp.Entries[0].ChangePct)
	assert.Equal(t, "B", resp.Entries[2].Symbol)

	rec = env.get(t, "/api/v1/top10/latest?top=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "C", resp.Entries[0].Symbol)

	assert.NoFileExists(t, env.paths.RankingCSVPath(time.Date(2025, 10, 17, 0, 0, 0, 0, time.Local)))
}

func TestRankingHandler_Stored(t *testing.T) {
	env := newTestEnv(t)
	date := time.Date(2025, 10, 17, 0, 0, 0, 0, time.Local)
	stored := []domain.RankedEntry{{
		Symbol:    "STORED",
		TodayPct:  domain.Float(90),
		PrevPct:   domain.Float(10),
		ChangePct: domain.Float(80),
		DateToday: "2025-10-17",
		DatePrev:  "2025-10-16",
	}}
	require.NoError(t, env.writer.WriteRanking(env.paths.RankingCSVPath(date), stored))

	rec := env.get(t, "/api/v1/top10/2025-10-17")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.RankingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.SourceStored, resp.Source)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "STORED", resp.Entries[0].Symbol)
}

func TestRankingHandler_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.writeClean(t, "2025-10-17", record("A", "EQ", 80))

	rec := env.get(t, "/api/v1/top10/2025-10-17")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ARTIFACT_NOT_FOUND", decodeError(t, rec))

	rec = env.get(t, "/api/v1/top10/2025-10-17?top=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec))

	rec = env.get(t, "/api/v1/top10/2025-10-17?top=0")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.get(t, "/api/v1/top10/yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("delivery_records_parsed_total 5\n"))
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exposition).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery_records_parsed_total")
}
