package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

var (
	// ErrNotFound reports an absent student, subject or result.
	ErrNotFound = errors.New("not found")

	// ErrValidation reports a request that failed input validation.
	ErrValidation = errors.New("validation error")
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

// notFound wraps ErrNotFound with a user-facing message.
func notFound(detail string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, detail)
}

// invalid wraps ErrValidation with a user-facing message.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// statusFor maps an error to its HTTP status code and detail message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, detailOf(err, ErrNotFound)
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity, detailOf(err, ErrValidation)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// detailOf strips the sentinel prefix added by notFound and invalid.
func detailOf(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// writeError writes err as a {"detail": ...} body with the mapped status.
func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Detail: detail}, logger)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
