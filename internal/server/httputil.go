package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/filestore"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDomainError maps domain errors to HTTP responses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "sign in required")
	case errors.Is(err, core.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, core.ErrReadOnlyField):
		writeError(w, http.StatusConflict, "READ_ONLY_FIELD", err.Error())
	case errors.Is(err, core.ErrInvalidItem), errors.Is(err, filestore.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, core.ErrCreateFailed):
		s.logger.Error("create failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "CREATE_FAILED", "failed to create memo")
	case errors.Is(err, core.ErrFetchFailed):
		s.logger.Error("fetch failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "FETCH_FAILED", "failed to load memos")
	default:
		s.logger.Error("internal error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
