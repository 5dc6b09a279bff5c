package services

import (
	"testing"
	"time"

	"portfolio/internal/core"
)

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	startDate := core.NewDate(2024, 1, 1)

	tests := []struct {
		name          string
		lastExecution time.Time
		want          bool
	}{
		{
			name:          "never executed - is due",
			lastExecution: time.Time{},
			want:          true,
		},
		{
			name:          "executed today - not due",
			lastExecution: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			want:          false,
		},
		{
			name:          "executed yesterday - is due",
			lastExecution: time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC),
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, now, startDate)
			if got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	startDate := core.NewDate(2024, 1, 1)

	tests := []struct {
		name          string
		lastExecution time.Time
		want          bool
	}{
		{
			name:          "never executed - is due",
			lastExecution: time.Time{},
			want:          true,
		},
		{
			name:          "executed 3 days ago - not due",
			lastExecution: time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC),
			want:          false,
		},
		{
			name:          "executed 7 days ago - is due",
			lastExecution: time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
			want:          true,
		},
		{
			name:          "executed 10 days ago - is due",
			lastExecution: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, now, startDate)
			if got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		want          bool
	}{
		{
			name:          "never executed - is due",
			lastExecution: time.Time{},
			now:           time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 1, 10),
			want:          true,
		},
		{
			name:          "executed this month - not due",
			lastExecution: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 1, 10),
			want:          false,
		},
		{
			name:          "new month but before target day - not due",
			lastExecution: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 1, 15),
			want:          false,
		},
		{
			name:          "new month and on target day - is due",
			lastExecution: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 1, 15),
			want:          true,
		},
		{
			name:          "target day 31 in February - adjusts to 28/29",
			lastExecution: time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), // 2024 is a leap year
			startDate:     core.NewDate(2024, 1, 31),
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate)
			if got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDue(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		want          bool
	}{
		{
			name:          "never executed - is due",
			lastExecution: time.Time{},
			now:           time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 3, 15),
			want:          true,
		},
		{
			name:          "executed this year - not due",
			lastExecution: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 3, 15),
			want:          false,
		},
		{
			name:          "new year but before target month - not due",
			lastExecution: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 6, 15),
			want:          false,
		},
		{
			name:          "new year and past target month - is due",
			lastExecution: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 3, 15),
			want:          true,
		},
		{
			name:          "new year same month before target day - not due",
			lastExecution: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 6, 15),
			want:          false,
		},
		{
			name:          "new year same month on target day - is due",
			lastExecution: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:           time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			startDate:     core.NewDate(2024, 6, 15),
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate)
			if got != tt.want {
				t.Errorf("YearlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	tests := []struct {
		name      string
		frequency core.RepetitionTypes
		wantErr   bool
	}{
		{"daily", core.Daily, false},
		{"weekly", core.Weekly, false},
		{"monthly", core.Monthly, false},
		{"yearly", core.Yearly, false},
		{"unknown", core.RepetitionTypes("biweekly"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, err := GetDuenessChecker(tt.frequency)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetDuenessChecker() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && checker == nil {
				t.Error("GetDuenessChecker() returned nil checker")
			}
		})
	}
}

func TestWeeklyChecker_CountsCalendarDaysAcrossDST(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-03-31 loses an hour in Rome; seven calendar days still elapse.
	last := time.Date(2024, 3, 28, 9, 0, 0, 0, rome)
	now := time.Date(2024, 4, 4, 8, 30, 0, 0, rome)
	if !(WeeklyChecker{}).IsDue(last, now, core.NewDate(2024, 1, 1)) {
		t.Error("weekly cost should be due after seven calendar days")
	}
	if (WeeklyChecker{}).IsDue(last, now.AddDate(0, 0, -1), core.NewDate(2024, 1, 1)) {
		t.Error("weekly cost should not be due after six calendar days")
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2024, time.February, 31, 29},
		{2023, time.February, 30, 28},
		{2024, time.April, 31, 30},
		{2024, time.May, 15, 15},
	}
	for _, tt := range tests {
		if got := clampDay(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("clampDay(%d, %s, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}
