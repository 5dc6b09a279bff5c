package analytics

import (
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeGroupsCategoriesCaseInsensitively(t *testing.T) {
	r := DateRange{Start: date(2024, time.January, 1), End: date(2024, time.February, 1)}
	records := []Record{
		rec(date(2024, time.January, 2), 10, "Hosting"),
		rec(date(2024, time.January, 3), 5, " hosting "),
		rec(date(2024, time.January, 4), 7, ""),
		rec(date(2024, time.January, 5), 3, "Domains"),
		rec(date(2024, time.March, 1), 100, "hosting"), // outside the buckets
	}

	buckets, err := Aggregate(records, r, Weekly)
	require.NoError(t, err)
	s := Compose(buckets, records)

	assert.Equal(t, 4, s.TotalCount)
	assert.Equal(t, "25", s.TotalAmount.String())
	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "15", s.ByCategory["hosting"].String())
	assert.Equal(t, "7", s.ByCategory[OtherCategory].String())
	assert.Equal(t, "3", s.ByCategory["domains"].String())

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "hosting", s.Categories[0].Key)
	assert.Equal(t, 2, s.Categories[0].Count)
	assert.Equal(t, 60.0, s.Categories[0].Share)
}

func TestComposeTotalsMatchBuckets(t *testing.T) {
	r := DateRange{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}
	var records []Record
	for i := 0; i < 30; i++ {
		records = append(records, Record{
			Timestamp: r.Start.AddDate(0, 0, i),
			Amount:    decimal.RequireFromString("0.10"),
			Category:  "c" + strconv.Itoa(i%3),
		})
	}

	buckets, err := Aggregate(records, r, Daily)
	require.NoError(t, err)
	s := Compose(buckets, records)

	// 30 * 0.10 drifts as float64; decimal summation must be exact.
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(3)), "total = %s", s.TotalAmount)
	assert.Equal(t, 30, s.TotalCount)
	for _, amount := range s.ByCategory {
		assert.True(t, amount.Equal(decimal.NewFromInt(1)))
	}
}

func TestComposeEmptyInputForAllPeriod(t *testing.T) {
	r, err := Resolve(PeriodAll, testNow, nil, nil)
	require.NoError(t, err)
	r = NarrowToRecords(r, nil)

	buckets, err := Aggregate(nil, r, ChooseGranularity(PeriodAll, r))
	require.NoError(t, err)
	s := Compose(buckets, nil)

	assert.Zero(t, s.TotalCount)
	assert.True(t, s.TotalAmount.IsZero())
	assert.Empty(t, s.ByCategory)
	assert.Empty(t, s.Categories)
	require.NotEmpty(t, s.Buckets)
	for _, b := range s.Buckets {
		assert.Zero(t, b.Count)
		assert.True(t, b.Sum.IsZero())
	}
}

func TestComposeWithoutBuckets(t *testing.T) {
	s := Compose(nil, []Record{rec(testNow, 4, "x")})
	assert.Zero(t, s.TotalCount)
	assert.NotNil(t, s.Buckets)
	assert.Empty(t, s.ByCategory)
}

func TestRank(t *testing.T) {
	byProject := func(r Record) string {
		if r.ProjectID == 0 {
			return ""
		}
		return strconv.FormatInt(r.ProjectID, 10)
	}
	records := []Record{
		{Amount: decimal.NewFromInt(10), ProjectID: 1},
		{Amount: decimal.NewFromInt(30), ProjectID: 2},
		{Amount: decimal.NewFromInt(20), ProjectID: 3},
		{Amount: decimal.NewFromInt(20), ProjectID: 1},
		{Amount: decimal.NewFromInt(99)},
		{Amount: decimal.NewFromInt(20), ProjectID: 4},
	}

	t.Run("ties keep first-seen order", func(t *testing.T) {
		got := Rank(records, byProject, 0)
		keys := make([]string, len(got))
		for i, g := range got {
			keys[i] = g.Key
		}
		// 1 and 2 both total 30; 1 was seen first. 3 and 4 both total 20.
		assert.Equal(t, []string{"1", "2", "3", "4"}, keys)
		assert.Equal(t, 2, got[0].Count)
		assert.Equal(t, 30.0, got[0].Share)
	})

	t.Run("top n", func(t *testing.T) {
		got := Rank(records, byProject, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "2", got[1].Key)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Rank(nil, byProject, 5))
	})
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, "hosting", CategoryKey("  HoStInG "))
	assert.Equal(t, OtherCategory, CategoryKey(""))
	assert.Equal(t, OtherCategory, CategoryKey("   "))
}
