package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fleetbook/driverapp/internal/domain"
)

// Error codes carried in the error envelope.
const (
	codeValidation      = "validation_error"
	codeNotFound        = "not_found"
	codeUnauthenticated = "unauthenticated"
	codeTooLarge        = "payload_too_large"
	codeUpstream        = "upstream_error"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeServiceError maps an error from the service layer onto the envelope.
// Anything that is not a known sentinel came from a source and is reported
// as an upstream failure.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
	default:
		s.log.ErrorContext(r.Context(), "upstream failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, codeUpstream, "backing store unavailable")
	}
}

// unwrapMessage extracts the human-readable part of a wrapped validation error.
// e.g. "service.DriverApp.AddExpense: validation error: description is required"
// → "description is required"
func unwrapMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && len(msg) > i+len(marker) {
		return msg[i+len(marker):]
	}
	return msg
}
