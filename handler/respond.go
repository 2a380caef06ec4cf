package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"shikayat/middleware"
	"shikayat/models"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondWithJSON(w, statusCode, models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	})
}

// writeServiceError maps service-layer sentinel errors onto HTTP statuses.
// Unknown errors are logged and returned as an opaque 500.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, models.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}

// getCaller extracts the authenticated caller set by the auth middleware.
func getCaller(r *http.Request) (models.Caller, bool) {
	return middleware.CallerFromContext(r.Context())
}

// queryID parses an optional numeric query parameter. A missing parameter
// returns (nil, nil); a malformed one is an error.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// pathID parses a required numeric path variable.
func pathID(vars map[string]string, name string) (int64, error) {
	return strconv.ParseInt(vars[name], 10, 64)
}
