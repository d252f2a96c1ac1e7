package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anverma/filecab"
)

// ErrorResponse is the JSON error body. The message strings are part of the
// API contract and match what clients of the original service expect.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError maps a service error to its HTTP response.
func HandleError(w http.ResponseWriter, err error) {
	var verr *filecab.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, verr.Reason)
		return
	}

	switch {
	case errors.Is(err, filecab.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, filecab.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, filecab.ErrInvalidOperation):
		WriteError(w, http.StatusBadRequest, "A folder doesn't have content")
	case errors.Is(err, filecab.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "Bad request")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
