// Package series holds the time-indexed traffic data model shared by the
// API client, the gap-fill cache and the aggregation functions.
//
// A Series is always sorted ascending by timestamp with no duplicates, and
// all timestamps are UTC. Operations return new Series values; callers never
// mutate one in place.
package series

import (
	"sort"
	"time"
)

// Series is an ordered sequence of records, sorted ascending by timestamp
// with no duplicate timestamps.
type Series []Record

// Len returns the number of records.
func (s Series) Len() int { return len(s) }

// Empty reports whether the series has no records.
func (s Series) Empty() bool { return len(s) == 0 }

// Records returns a copy of the underlying records.
func (s Series) Records() []Record {
	out := make([]Record, len(s))
	copy(out, s)
	return out
}

// Bounds returns the first and last timestamps. ok is false for an empty
// series.
func (s Series) Bounds() (first, last time.Time, ok bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s[0].Time(), s[len(s)-1].Time(), true
}

// Slice returns the records with start <= timestamp <= end. Both bounds are
// inclusive; downstream aggregations rely on the inclusive upper bound.
func (s Series) Slice(start, end time.Time) Series {
	lo := sort.Search(len(s), func(i int) bool {
		return s[i].Timestamp >= start.UnixMilli()
	})
	hi := sort.Search(len(s), func(i int) bool {
		return s[i].Timestamp > end.UnixMilli()
	})
	if lo >= hi {
		return nil
	}
	out := make(Series, hi-lo)
	copy(out, s[lo:hi])
	return out
}

// Merge concatenates the given batches, deduplicates by timestamp and sorts
// ascending. On a duplicate timestamp the record from the later batch wins,
// and within one batch the later record wins, so freshly fetched data
// overrides previously persisted rows.
func Merge(batches ...Series) Series {
	byTS := make(map[int64]Record)
	for _, b := range batches {
		for _, r := range b {
			byTS[r.Timestamp] = r
		}
	}
	if len(byTS) == 0 {
		return nil
	}
	out := make(Series, 0, len(byTS))
	for _, r := range byTS {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// FromRecords builds a Series from unordered records, sorting ascending and
// keeping the last record for each duplicate timestamp.
func FromRecords(records []Record) Series {
	return Merge(Series(records))
}
