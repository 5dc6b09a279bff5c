package services

import (
	"fmt"
	"time"

	"portfolio/internal/core"
)

// DuenessChecker decides whether a recurring cost should be materialised at
// now, given when it last ran and the date its schedule is anchored on.
type DuenessChecker interface {
	IsDue(lastExecution, now time.Time, startDate core.Date) bool
}

type (
	DailyChecker   struct{}
	WeeklyChecker  struct{}
	MonthlyChecker struct{}
	YearlyChecker  struct{}
)

// IsDue returns true once per calendar day.
func (DailyChecker) IsDue(lastExecution, now time.Time, _ core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	return lastExecution.In(now.Location()).Format(time.DateOnly) != now.Format(time.DateOnly)
}

// IsDue returns true when at least seven calendar days have passed.
func (WeeklyChecker) IsDue(lastExecution, now time.Time, _ core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	return calendarDays(lastExecution.In(now.Location()), now) >= 7
}

// IsDue returns true in a new month once the anchor day is reached. Anchors
// past the end of a short month fire on its last day.
func (MonthlyChecker) IsDue(lastExecution, now time.Time, startDate core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	last := lastExecution.In(now.Location())
	if last.Year() == now.Year() && last.Month() == now.Month() {
		return false
	}
	return now.Day() >= clampDay(now.Year(), now.Month(), startDate.Day())
}

// IsDue returns true in a new year once the anchor month and day are reached.
func (YearlyChecker) IsDue(lastExecution, now time.Time, startDate core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	if lastExecution.In(now.Location()).Year() == now.Year() {
		return false
	}

	target := time.Month(startDate.Month())
	switch {
	case now.Month() < target:
		return false
	case now.Month() == target:
		return now.Day() >= clampDay(now.Year(), target, startDate.Day())
	default:
		return true
	}
}

var duenessStrategies = map[core.RepetitionTypes]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

func GetDuenessChecker(frequency core.RepetitionTypes) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %s", frequency)
	}
	return checker, nil
}

func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// calendarDays counts midnights between a and b, ignoring DST shifts.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
