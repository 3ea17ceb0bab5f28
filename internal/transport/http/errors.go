package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "deliverycli/internal/errors"
)

// renderError logs err and writes the matching error response.
func renderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	apiErr := apierrors.FromError(err)
	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "Request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", apiErr.StatusCode),
		slog.String("error", err.Error()))

	_ = render.Render(w, r, apierrors.NewErrorResponse(apiErr))
}

// validationError turns a validator failure into an application error.
func validationError(err error) error {
	return apierrors.NewAppValidationError(err.Error())
}
