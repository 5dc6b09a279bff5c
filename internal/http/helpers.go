package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	errBadRequest  = errors.New("bad request")
	errInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// parseID reads the {id} route parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// parseProjectFilter reads the optional project_id query parameter; 0 means all.
func parseProjectFilter(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid project_id %q", errBadRequest, raw)
	}
	return id, nil
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: body must contain a single JSON object", errBadRequest)
	}
	return nil
}

// parseDate parses a date string in YYYY-MM-DD format as a UTC calendar date.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse(time.DateOnly, strings.TrimSpace(dateStr))
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", errInvalidDate, dateStr)
	}
	return core.Date{Time: parsedTime}, nil
}

// parseOptionalDate is parseDate where an empty string means no date.
func parseOptionalDate(dateStr string) (core.Date, error) {
	if strings.TrimSpace(dateStr) == "" {
		return core.Date{}, nil
	}
	return parseDate(dateStr)
}

// formatDate renders a calendar date, or "" for the zero date.
func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
