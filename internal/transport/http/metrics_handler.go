package http

import (
	"net/http"
)

// MetricsHandler serves the Prometheus exposition of the meter provider.
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the registry handler, usually
// OTelProviders.MetricsHandler().
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		http.Error(w, "metrics disabled", http.StatusNotFound)
		return
	}
	h.exposition.ServeHTTP(w, r)
}
