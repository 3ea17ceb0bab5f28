package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"deliverycli/internal/config"
	apierrors "deliverycli/internal/errors"
	"deliverycli/internal/exporter"
	"deliverycli/internal/files"
	api "deliverycli/pkg/contracts/api/v1"
	"deliverycli/pkg/contracts/domain"
)

// DeliveryHandler serves clean delivery tables.
type DeliveryHandler struct {
	paths     *config.Paths
	discovery *files.Discovery
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(paths *config.Paths, logger *slog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		paths:     paths,
		discovery: files.NewDiscovery(paths),
		validate:  api.NewValidator(),
		now:       time.Now,
		logger:    logger.With(slog.String("handler", "delivery")),
	}
}

// Routes returns the delivery routes
func (h *DeliveryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListTables)
	r.Get("/{date}", h.GetTable)
	return r
}

// ListTables handles GET /api/v1/delivery
func (h *DeliveryHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.discovery.CleanTables()
	if err != nil {
		renderError(w, r, h.logger, apierrors.NewStorageError("list clean tables", err))
		return
	}

	resp := &api.DeliveryListResponse{
		Count: len(tables),
		Files: make([]api.DeliveryFile, 0, len(tables)),
	}
	for _, f := range tables {
		resp.Files = append(resp.Files, api.DeliveryFile{
			Date: f.DateString(),
			Name: f.Name,
			Size: f.Size,
		})
	}
	_ = render.Render(w, r, resp)
}

// GetTable handles GET /api/v1/delivery/{date}?series=EQ
func (h *DeliveryHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	req := api.DeliveryRequest{
		Date:   chi.URLParam(r, "date"),
		Series: strings.TrimSpace(r.URL.Query().Get("series")),
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

	table, err := exporter.ReadDeliveryTable(h.paths.CleanCSVPath(date))
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	records := table.Records
	if req.Series != "" {
		records = table.FilterSeries(req.Series)
	}

	_ = render.Render(w, r, &api.DeliveryResponse{
		Date:    domain.FormatISODate(date),
		Series:  req.Series,
		Count:   len(records),
		Records: records,
	})
}
