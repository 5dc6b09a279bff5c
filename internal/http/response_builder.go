// Package http provides the JSON API server and its handlers.
//
// This file maps handler results and domain errors onto JSON responses.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio/internal/analytics"
	"portfolio/internal/core"
	"portfolio/internal/log"
	"portfolio/internal/ports"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error to its HTTP status: bad input is 400, rejected
// entities 422, missing entities 404, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, analytics.ErrInvalidRange),
		errors.Is(err, analytics.ErrUnknownPeriod):
		return http.StatusBadRequest
	case core.IsValidationError(err),
		errors.Is(err, errInvalidDate),
		errors.Is(err, ports.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and hides their details from clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(),
			"Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeJSONError(w, status, "internal server error")
		return
	}
	writeJSONError(w, status, err.Error())
}
