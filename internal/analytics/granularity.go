package analytics

import "time"

// Granularity is the bucket width of a series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

const (
	day = 24 * time.Hour

	// Custom ranges up to dailyMaxSpan get daily buckets, up to weeklyMaxSpan
	// weekly buckets, anything longer monthly buckets.
	dailyMaxSpan  = 31 * day
	weeklyMaxSpan = 366 * day

	// Daily series touching at most this many calendar days are labelled by
	// weekday alone.
	weekdayLabelMaxDays = 7
)

// ChooseGranularity picks the bucket width for a resolved period.
func ChooseGranularity(p Period, r DateRange) Granularity {
	switch p {
	case PeriodWeek:
		return Daily
	case PeriodMonth, PeriodYear, PeriodLastYear, PeriodAll:
		return Monthly
	}
	span := r.Duration()
	switch {
	case span <= dailyMaxSpan:
		return Daily
	case span <= weeklyMaxSpan:
		return Weekly
	default:
		return Monthly
	}
}

// NarrowToRecords moves the start of r forward to the month of the earliest
// record inside r. With no such record the range shrinks to the month that
// contains End. It never widens r.
func NarrowToRecords(r DateRange, records []Record) DateRange {
	var earliest time.Time
	found := false
	for _, rec := range records {
		if !r.Contains(rec.Timestamp) {
			continue
		}
		if !found || rec.Timestamp.Before(earliest) {
			earliest = rec.Timestamp
			found = true
		}
	}

	anchor := r.End
	if found {
		anchor = earliest
	}
	start := Monthly.truncate(anchor.In(r.End.Location()))
	if start.Before(r.Start) {
		start = r.Start
	}
	if start.After(r.End) {
		start = r.End
	}
	return DateRange{Start: start, End: r.End}
}

func (g Granularity) valid() bool {
	switch g {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// truncate returns the start of the calendar unit containing t.
func (g Granularity) truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Weekly:
		// Weeks start on Monday.
		offset := (int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Weekday()) + 6) % 7
		return midnight(y, m, d-offset, loc)
	case Monthly:
		return midnight(y, m, 1, loc)
	default:
		return midnight(y, m, d, loc)
	}
}

// next returns the start of the calendar unit following the one starting at t.
func (g Granularity) next(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Weekly:
		return midnight(y, m, d+7, loc)
	case Monthly:
		return midnight(y, m+1, 1, loc)
	default:
		return midnight(y, m, d+1, loc)
	}
}

// midnight returns the first instant of the calendar day y-m-d in loc. Where
// clocks jump forward at 00:00 that is the instant of the jump.
func midnight(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	wy, wm, wd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Date()
	if ty, tm, td := t.Date(); ty == wy && tm == wm && td == wd {
		return t
	}
	// 00:00 does not exist that day and was normalised into the previous one.
	if _, end := t.ZoneBounds(); !end.IsZero() {
		return end
	}
	return t
}

// calendarDaysTouched counts the calendar days that overlap r.
func calendarDaysTouched(r DateRange) int {
	if !r.End.After(r.Start) {
		return 0
	}
	last := r.End.Add(-time.Nanosecond).In(r.Start.Location())
	fy, fm, fd := r.Start.Date()
	ly, lm, ld := last.Date()
	first := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	final := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	return int(final.Sub(first)/day) + 1
}

// labeler returns the label function used for every bucket of r.
func (g Granularity) labeler(r DateRange) func(time.Time) string {
	switch g {
	case Monthly:
		last := r.End.Add(-time.Nanosecond)
		if r.Start.Year() == last.Year() {
			return func(t time.Time) string { return t.Format("Jan") }
		}
		return func(t time.Time) string { return t.Format("2006-01") }
	case Daily:
		// A rolling week touches eight days; the date keeps the two ends apart.
		if calendarDaysTouched(r) <= weekdayLabelMaxDays {
			return func(t time.Time) string { return t.Format("Mon") }
		}
		return func(t time.Time) string { return t.Format("Mon 02") }
	}
	return func(t time.Time) string { return t.Format("Jan 02") }
}
