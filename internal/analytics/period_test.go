package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr error
	}{
		{in: "", want: PeriodMonth},
		{in: "week", want: PeriodWeek},
		{in: " Last_Year ", want: PeriodLastYear},
		{in: "ALL", want: PeriodAll},
		{in: "custom", want: PeriodCustom},
		{in: "fortnight", wantErr: ErrUnknownPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		period Period
		start  time.Time
		end    time.Time
	}{
		{PeriodWeek, time.Date(2024, time.March, 8, 10, 30, 0, 0, time.UTC), testNow},
		{PeriodMonth, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), testNow},
		{PeriodYear, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), testNow},
		{PeriodLastYear, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{PeriodAll, time.Unix(0, 0).UTC(), testNow},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			r, err := Resolve(tt.period, testNow, nil, nil)
			require.NoError(t, err)
			assert.True(t, tt.start.Equal(r.Start), "start = %v, want %v", r.Start, tt.start)
			assert.True(t, tt.end.Equal(r.End), "end = %v, want %v", r.End, tt.end)
			assert.False(t, r.Start.After(r.End))
		})
	}
}

func TestResolveUsesLocationOfNow(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2024, time.June, 1, 0, 30, 0, 0, rome)

	r, err := Resolve(PeriodMonth, now, nil, nil)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, rome).Equal(r.Start))
}

func TestResolveCustom(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		r, err := Resolve(PeriodCustom, testNow, ptr(start), ptr(end))
		require.NoError(t, err)
		assert.Equal(t, DateRange{Start: start, End: end}, r)
	})

	t.Run("equal bounds", func(t *testing.T) {
		r, err := Resolve(PeriodCustom, testNow, ptr(start), ptr(start))
		require.NoError(t, err)
		assert.True(t, r.IsEmpty())
	})

	invalid := map[string][2]*time.Time{
		"missing start":   {nil, ptr(end)},
		"missing end":     {ptr(start), nil},
		"missing both":    {nil, nil},
		"start after end": {ptr(end), ptr(start)},
	}
	for name, bounds := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(PeriodCustom, testNow, bounds[0], bounds[1])
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestResolveUnknownPeriod(t *testing.T) {
	_, err := Resolve(Period("decade"), testNow, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestDateRangeContainsIsHalfOpen(t *testing.T) {
	r := DateRange{Start: testNow, End: testNow.Add(time.Hour)}
	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.Start.Add(-time.Nanosecond)))
}
