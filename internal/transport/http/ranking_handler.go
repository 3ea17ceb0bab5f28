package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"deliverycli/internal/config"
	apierrors "deliverycli/internal/errors"
	"deliverycli/internal/exporter"
	"deliverycli/internal/files"
	"deliverycli/internal/services"
	api "deliverycli/pkg/contracts/api/v1"
	"deliverycli/pkg/contracts/domain"
)

// RankingComputer ranks two clean tables without persisting the result.
type RankingComputer interface {
	Compute(ctx context.Context, date time.Time) (*services.RankingResult, error)
}

// RankingHandler serves the day-over-day delivery percentage ranking.
type RankingHandler struct {
	paths     *config.Paths
	discovery *files.Discovery
	ranker    RankingComputer
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(paths *config.Paths, ranker RankingComputer, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{
		paths:     paths,
		discovery: files.NewDiscovery(paths),
		ranker:    ranker,
		validate:  api.NewValidator(),
		now:       time.Now,
		logger:    logger.With(slog.String("handler", "ranking")),
	}
}

// Routes returns the ranking routes
func (h *RankingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/{date}", h.GetRanking)
	return r
}

// GetRanking handles GET /api/v1/top10/{date}?top=N. A persisted
// top10_<date>.csv is served as stored; otherwise the ranking is computed
// from the clean tables on the fly.
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	req := api.RankingRequest{Date: chi.URLParam(r, "date")}
	if raw := r.URL.Query().Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			renderError(w, r, h.logger, apierrors.NewAppValidationError("top must be an integer"))
			return
		}
		req.Top = top
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, h.logger, validationError(err))
		return
	}

	date, err := resolveDate(req.Date, h.discovery, h.now())
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	resp, err := h.load(r.Context(), date)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	if req.Top > 0 && req.Top < len(resp.Entries) {
		resp.Entries = resp.Entries[:req.Top]
	}
	resp.Count = len(resp.Entries)
	_ = render.Render(w, r, resp)
}

func (h *RankingHandler) load(ctx context.Context, date time.Time) (*api.RankingResponse, error) {
	resp := &api.RankingResponse{
		DateToday: domain.FormatISODate(date),
		DatePrev:  domain.FormatISODate(domain.PreviousCalendarDay(date)),
	}

	entries, err := exporter.ReadRanking(h.paths.RankingCSVPath(date))
	switch {
	case err == nil:
		resp.Source = api.SourceStored
		resp.Entries = entries
		return resp, nil
	case !apierrors.IsMissingFileError(err):
		return nil, err
	}

	result, err := h.ranker.Compute(ctx, date)
	if err != nil {
		return nil, err
	}
	resp.Source = api.SourceComputed
	resp.Entries = result.Entries
	return resp, nil
}
