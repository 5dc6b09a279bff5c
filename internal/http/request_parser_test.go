package http

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"portfolio/internal/analytics"
)

func TestParseReportRequest(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	tests := []struct {
		name      string
		query     string
		want      analytics.Period
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{name: "default", query: "", want: analytics.PeriodMonth},
		{name: "case insensitive", query: "period=LAST_YEAR", want: analytics.PeriodLastYear},
		{name: "unknown", query: "period=fortnight", wantErr: analytics.ErrUnknownPeriod},
		{
			name:      "custom dates are inclusive",
			query:     "period=custom&start=2024-03-01&end=2024-03-31",
			want:      analytics.PeriodCustom,
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 4, 1, 0, 0, 0, 0, loc),
		},
		{
			name:      "custom timestamps are exact",
			query:     "period=custom&start=2024-03-01T10:00:00Z&end=2024-03-01T12:00:00Z",
			want:      analytics.PeriodCustom,
			wantStart: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "custom single day",
			query:     "period=custom&start=2024-01-01&end=2024-01-01",
			want:      analytics.PeriodCustom,
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, 1, 2, 0, 0, 0, 0, loc),
		},
		{name: "custom inverted dates", query: "period=custom&start=2024-01-02&end=2024-01-01", wantErr: analytics.ErrInvalidRange},
		{name: "custom inverted timestamps", query: "period=custom&start=2024-01-01T12:00:00Z&end=2024-01-01T10:00:00Z", wantErr: analytics.ErrInvalidRange},
		{name: "custom garbage", query: "period=custom&start=03/01/2024&end=2024-03-31", wantErr: analytics.ErrInvalidRange},
		{name: "bounds ignored outside custom", query: "period=week&start=garbage", want: analytics.PeriodWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got, err := ParseReportRequest(q, loc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Period != tt.want {
				t.Errorf("period = %q, want %q", got.Period, tt.want)
			}
			if tt.wantStart.IsZero() {
				if got.Start != nil || got.End != nil {
					t.Errorf("expected no bounds, got %v %v", got.Start, got.End)
				}
				return
			}
			if got.Start == nil || !got.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", got.Start, tt.wantStart)
			}
			if got.End == nil || !got.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestParseReportRequestMissingBound(t *testing.T) {
	q := url.Values{"period": {"custom"}, "start": {"2024-03-01"}}
	got, err := ParseReportRequest(q, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.End != nil {
		t.Fatalf("end = %v, want nil", got.End)
	}
}

func TestAmountInputAcceptsStringsAndNumbers(t *testing.T) {
	var p expensePayload
	for raw, want := range map[string]string{
		`{"amount":"12,50"}`: "12,50",
		`{"amount":7.25}`:    "7.25",
		`{"amount":null}`:    "",
	} {
		p = expensePayload{}
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if string(p.Amount) != want {
			t.Errorf("%s: amount = %q, want %q", raw, p.Amount, want)
		}
	}
}
