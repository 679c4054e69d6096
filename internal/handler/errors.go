package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"quill/internal/domain"
	"quill/internal/httputil"
)

// respondDomainError maps a domain error to an HTTP response. All
// interpretation of adapter errors (status code, message) happens here;
// adapters only classify. Upstream faults are reported generically so no
// internal detail leaks.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrDependency):
		logger.Error("upstream dependency failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		logger.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
