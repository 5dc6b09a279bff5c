package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single dated amount fetched from the store.
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	ProjectID int64           `json:"project_id,omitempty"`
}

// Bucket is one sub-interval [Start, End) of a series.
type Bucket struct {
	Label string          `json:"label"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// Buckets pre-generates the empty, contiguous buckets covering r. The first
// and last buckets are clipped to the range bounds.
func Buckets(r DateRange, g Granularity) ([]Bucket, error) {
	if !g.valid() {
		return nil, ErrUnsupportedGranularity
	}
	if r.End.Before(r.Start) {
		return nil, ErrInvalidRange
	}

	label := g.labeler(r)
	var out []Bucket
	for cursor := r.Start; cursor.Before(r.End); {
		unit := g.truncate(cursor)
		end := g.next(unit)
		if end.After(r.End) {
			end = r.End
		}
		if !end.After(cursor) {
			break
		}
		out = append(out, Bucket{
			Label: label(cursor),
			Start: cursor,
			End:   end,
			Sum:   decimal.Zero,
		})
		cursor = end
	}
	return out, nil
}

// Aggregate buckets records over r. Every bucket in the range is present,
// including empty ones; records outside r are ignored.
func Aggregate(records []Record, r DateRange, g Granularity) ([]Bucket, error) {
	buckets, err := Buckets(r, g)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		i := bucketIndex(buckets, rec.Timestamp)
		if i < 0 {
			continue
		}
		buckets[i].Count++
		buckets[i].Sum = buckets[i].Sum.Add(rec.Amount)
	}
	return buckets, nil
}

// bucketIndex returns the bucket holding t, or -1 when t is outside the
// series. A t equal to a bucket end belongs to the following bucket.
func bucketIndex(buckets []Bucket, t time.Time) int {
	if len(buckets) == 0 {
		return -1
	}
	if t.Before(buckets[0].Start) || !t.Before(buckets[len(buckets)-1].End) {
		return -1
	}
	return sort.Search(len(buckets), func(i int) bool {
		return buckets[i].End.After(t)
	})
}
