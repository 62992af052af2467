package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assettrack/internal/store"
)

// apiError carries an HTTP status with a message safe to show the caller.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

// invalidInput builds a 400 error for malformed or missing request fields.
func invalidInput(message string) error {
	return &apiError{status: http.StatusBadRequest, message: message}
}

// errorResponse is the body of every error response: a single
// human-readable string, no structured codes. Clients key off HTTP status.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError is the single error-taxonomy-to-status translation used by
// every handler. Store sentinel errors map to their statuses; anything
// unrecognized is logged server-side and surfaced as an opaque 500 with no
// internal detail in the body.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError

	switch {
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.status, errorResponse{Error: apiErr.message})
	case errors.Is(err, store.ErrAssetNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "asset not found"})
	case errors.Is(err, store.ErrDuplicateSerialNumber):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "serial number already in use"})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
