package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func rec(t time.Time, car float64) Record {
	return Record{Timestamp: t.UnixMilli(), Car: car, Uptime: 1}
}

func TestMergeDeduplicatesKeepingLastBatch(t *testing.T) {
	cached := Series{rec(ts(10, 8), 1), rec(ts(10, 9), 5)}
	fetched := Series{rec(ts(10, 8), 2)}

	merged := Merge(cached, fetched)

	require.Equal(t, 2, merged.Len())
	assert.Equal(t, 2.0, merged[0].Car, "freshly fetched value wins on duplicate timestamp")
	assert.Equal(t, 5.0, merged[1].Car)
}

func TestMergeSortsAscending(t *testing.T) {
	a := Series{rec(ts(12, 0), 3), rec(ts(10, 0), 1)}
	b := Series{rec(ts(11, 0), 2)}

	merged := Merge(a, b)

	require.Equal(t, 3, merged.Len())
	for i := 1; i < merged.Len(); i++ {
		assert.Less(t, merged[i-1].Timestamp, merged[i].Timestamp)
	}
}

func TestMergeEmpty(t *testing.T) {
	assert.True(t, Merge(nil, Series{}).Empty())
}

func TestSliceInclusiveBothBounds(t *testing.T) {
	s := Series{rec(ts(10, 0), 1), rec(ts(10, 12), 2), rec(ts(11, 0), 3), rec(ts(11, 1), 4)}

	got := s.Slice(ts(10, 0), ts(11, 0))

	require.Equal(t, 3, got.Len())
	assert.Equal(t, ts(10, 0).UnixMilli(), got[0].Timestamp)
	assert.Equal(t, ts(11, 0).UnixMilli(), got[2].Timestamp, "upper bound is inclusive")
}

func TestSliceOutsideRange(t *testing.T) {
	s := Series{rec(ts(10, 0), 1)}
	assert.True(t, s.Slice(ts(20, 0), ts(21, 0)).Empty())
}

func TestSliceDoesNotAliasSource(t *testing.T) {
	s := Series{rec(ts(10, 0), 1), rec(ts(10, 1), 2)}
	got := s.Slice(ts(10, 0), ts(10, 1))
	got[0].Car = 99
	assert.Equal(t, 1.0, s[0].Car)
}

func TestRecordsCopies(t *testing.T) {
	s := Series{rec(ts(10, 0), 1)}
	got := s.Records()
	got[0].Car = 99
	assert.Equal(t, 1.0, s[0].Car)
}

func TestBounds(t *testing.T) {
	_, _, ok := Series{}.Bounds()
	assert.False(t, ok)

	s := Series{rec(ts(10, 0), 1), rec(ts(12, 5), 2)}
	first, last, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, ts(10, 0), first)
	assert.Equal(t, ts(12, 5), last)
}

func TestFromRecordsNormalizes(t *testing.T) {
	got := FromRecords([]Record{
		rec(ts(11, 0), 2),
		rec(ts(10, 0), 1),
		rec(ts(11, 0), 3), // later record wins
	})
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 1.0, got[0].Car)
	assert.Equal(t, 3.0, got[1].Car)
}

func TestModalityAccess(t *testing.T) {
	lft := 4.0
	r := Record{Car: 10, CarLft: &lft}

	v, ok := r.Modality("car")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	v, ok = r.Modality("car_lft")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = r.Modality("bike_lft")
	assert.False(t, ok, "directional count absent on classic sensors")
}
