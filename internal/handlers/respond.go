package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"maar-backend/internal/middleware"
	"maar-backend/internal/models"
	"maar-backend/internal/services"
)

// Client-facing error strings. Upstream details never reach the caller.
const (
	errMessageRequired = "Message required"
	errInvalidBody     = "Invalid request body"
	errTooLarge        = "Message too large"
	errServer          = "Server error"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var valErr *services.ValidationError
	var upErr *services.UpstreamError
	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, errorResp(errMessageRequired))
	case errors.As(err, &upErr):
		log.Printf("✗ chat [%s]: %v", requestID, upErr)
		writeJSON(w, http.StatusInternalServerError, errorResp(errServer))
	default:
		log.Printf("✗ chat [%s]: unexpected error: %v", requestID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp(errServer))
	}
}
