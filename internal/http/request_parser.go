package http

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/analytics"
	"portfolio/internal/services"
)

// ParseReportRequest reads period, start and end from the query string.
// start and end are only read for the custom period; they accept a
// YYYY-MM-DD date in loc or an RFC 3339 timestamp. A date-only end covers
// the whole of that day.
func ParseReportRequest(q url.Values, loc *time.Location) (services.ReportRequest, error) {
	period, err := analytics.ParsePeriod(q.Get("period"))
	if err != nil {
		return services.ReportRequest{}, err
	}
	req := services.ReportRequest{Period: period}
	if period != analytics.PeriodCustom {
		return req, nil
	}

	start, _, err := parseBound(q.Get("start"), loc)
	if err != nil {
		return services.ReportRequest{}, fmt.Errorf("%w: start: %v", analytics.ErrInvalidRange, err)
	}
	end, endDateOnly, err := parseBound(q.Get("end"), loc)
	if err != nil {
		return services.ReportRequest{}, fmt.Errorf("%w: end: %v", analytics.ErrInvalidRange, err)
	}
	if start != nil && end != nil && start.After(*end) {
		return services.ReportRequest{}, fmt.Errorf("%w: start is after end", analytics.ErrInvalidRange)
	}
	if end != nil && endDateOnly {
		next := end.AddDate(0, 0, 1)
		end = &next
	}
	req.Start, req.End = start, end
	return req, nil
}

// parseBound returns nil for an empty value so that the resolver reports the
// missing bound. dateOnly reports whether raw carried no time of day.
func parseBound(raw string, loc *time.Location) (t *time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	if d, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return &d, true, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", raw)
	}
	ts = ts.In(loc)
	return &ts, false, nil
}
