package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// ErrorHandler renders errors as consistent JSON payloads, mapping known
// error values to their API representation and everything else to a 500.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError writes the error response for err.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		h.logger.ErrorContext(r.Context(), "unhandled error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
		apiErr = ErrInternalServer
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("error_code", apiErr.ErrorCode),
			slog.String("path", r.URL.Path))
	}

	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"error":   apiErr,
	})
}
