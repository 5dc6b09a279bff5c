// Package analytics turns raw expense and backlink records into the bucketed
// series and rollups shown on the dashboard.
//
// The package is pure: callers pass "now" explicitly and receive fresh values,
// so every function is safe to call from concurrent requests.
package analytics

import (
	"errors"
	"strings"
	"time"
)

// Period selects a reporting interval by name.
type Period string

const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodYear     Period = "year"
	PeriodLastYear Period = "last_year"
	PeriodAll      Period = "all"
	PeriodCustom   Period = "custom"
)

var (
	ErrInvalidRange           = errors.New("invalid date range")
	ErrUnknownPeriod          = errors.New("unknown period")
	ErrUnsupportedGranularity = errors.New("unsupported granularity")
)

// ParsePeriod normalises a user supplied token. An empty token means month.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PeriodMonth, nil
	}
	if !p.IsValid() {
		return "", ErrUnknownPeriod
	}
	return p, nil
}

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodLastYear, PeriodAll, PeriodCustom:
		return true
	}
	return false
}

func (p Period) String() string {
	return string(p)
}

// DateRange is the half-open interval [Start, End).
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within [Start, End).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns the range length.
func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsEmpty reports whether the range holds no instants.
func (r DateRange) IsEmpty() bool {
	return !r.End.After(r.Start)
}

// Resolve maps a period to concrete bounds. Calendar boundaries are computed
// in now's location. customStart and customEnd are only read for PeriodCustom.
func Resolve(p Period, now time.Time, customStart, customEnd *time.Time) (DateRange, error) {
	loc := now.Location()
	switch p {
	case PeriodWeek:
		return DateRange{Start: now.AddDate(0, 0, -7), End: now}, nil
	case PeriodMonth:
		return DateRange{Start: midnight(now.Year(), now.Month(), 1, loc), End: now}, nil
	case PeriodYear:
		return DateRange{Start: midnight(now.Year(), time.January, 1, loc), End: now}, nil
	case PeriodLastYear:
		y := now.Year() - 1
		return DateRange{
			Start: midnight(y, time.January, 1, loc),
			End:   time.Date(y, time.December, 31, 23, 59, 59, 0, loc),
		}, nil
	case PeriodAll:
		return DateRange{Start: time.Unix(0, 0).In(loc), End: now}, nil
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return DateRange{}, ErrInvalidRange
		}
		if customStart.After(*customEnd) {
			return DateRange{}, ErrInvalidRange
		}
		return DateRange{Start: *customStart, End: *customEnd}, nil
	default:
		return DateRange{}, ErrUnknownPeriod
	}
}
