package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"economy/service"

	log "github.com/sirupsen/logrus"
)

// apiError is the body of every failed response
type apiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Message
}

func badRequest(message string) *apiError {
	return &apiError{StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

func unauthorized(message string) *apiError {
	return &apiError{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// statusFor maps the ledger error taxonomy to HTTP
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrStorageFailure):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrOnCooldown):
		return http.StatusTooManyRequests, "ON_COOLDOWN"
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInsufficientItems),
		errors.Is(err, service.ErrTargetTooPoor):
		return http.StatusUnprocessableEntity, "UNPROCESSABLE"
	case errors.Is(err, service.ErrItemExists),
		errors.Is(err, service.ErrDuelNotPending),
		errors.Is(err, service.ErrOwnListing):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, service.ErrNotListingOwner),
		errors.Is(err, service.ErrNotDuelOpponent):
		return http.StatusForbidden, "FORBIDDEN"
	case service.IsUserError(err):
		return http.StatusBadRequest, "BAD_REQUEST"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		status, code := statusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
			// Storage details stay in the logs
			message = "the ledger is temporarily unavailable, try again"
		}
		apiErr = &apiError{StatusCode: status, Code: code, Message: message}
	}
	writeJSON(w, apiErr.StatusCode, map[string]any{"error": apiErr})
}
