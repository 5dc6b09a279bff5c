package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// OtherCategory collects records without a category.
const OtherCategory = "other"

var hundred = decimal.NewFromInt(100)

// Summary is the view-ready result of one aggregation pass.
type Summary struct {
	TotalCount  int                        `json:"total_count"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	Buckets     []Bucket                   `json:"buckets"`
	ByCategory  map[string]decimal.Decimal `json:"by_category"`
	Categories  []Ranked                   `json:"categories"`
}

// Ranked is one entry of a top-N ranking.
type Ranked struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	// Share is the percentage of the ranking total, rounded to two places.
	Share float64 `json:"share"`
}

// Compose reduces buckets and the records they were built from into a
// Summary. Only records inside the span of the buckets are considered.
func Compose(buckets []Bucket, records []Record) Summary {
	s := Summary{
		TotalAmount: decimal.Zero,
		Buckets:     buckets,
		ByCategory:  make(map[string]decimal.Decimal),
		Categories:  []Ranked{},
	}
	if s.Buckets == nil {
		s.Buckets = []Bucket{}
	}
	for _, b := range buckets {
		s.TotalCount += b.Count
		s.TotalAmount = s.TotalAmount.Add(b.Sum)
	}
	if len(buckets) == 0 {
		return s
	}

	span := DateRange{Start: buckets[0].Start, End: buckets[len(buckets)-1].End}
	s.Categories = Rank(Filter(records, span), func(r Record) string {
		return CategoryKey(r.Category)
	}, 0)
	for _, c := range s.Categories {
		s.ByCategory[c.Key] = c.Amount
	}
	return s
}

// CategoryKey normalises a category for case-insensitive grouping.
func CategoryKey(category string) string {
	k := strings.ToLower(strings.TrimSpace(category))
	if k == "" {
		return OtherCategory
	}
	return k
}

// Filter returns the records whose timestamp lies within r, in input order.
func Filter(records []Record, r DateRange) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Timestamp) {
			out = append(out, rec)
		}
	}
	return out
}

// Rank groups records by key and orders the groups by amount, largest
// first. Equal amounts keep the order in which their key was first seen.
// Records with an empty key are skipped. n <= 0 returns every group.
func Rank(records []Record, key func(Record) string, n int) []Ranked {
	index := make(map[string]int)
	groups := []Ranked{}
	total := decimal.Zero
	for _, rec := range records {
		k := key(rec)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Ranked{Key: k, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(rec.Amount)
		groups[i].Count++
		total = total.Add(rec.Amount)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount)
	})
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	if !total.IsZero() {
		for i := range groups {
			groups[i].Share = groups[i].Amount.Div(total).Mul(hundred).Round(2).InexactFloat64()
		}
	}
	return groups
}
