package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/paisatrack/paisatrack/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a server error: logged in full, reported to the
// client as a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: validationErr.Message})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "invalid credentials"})
	case errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, messageResponse{Message: "already exists"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, messageResponse{Message: "not allowed"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "not found"})
	default:
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "server error"})
	}
}
