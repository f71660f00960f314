package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olane/telraam-analyser/internal/series"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func rec(t time.Time, ped, bike, car, heavy float64) series.Record {
	return series.Record{
		Timestamp:  t.UnixMilli(),
		Pedestrian: ped,
		Bike:       bike,
		Car:        car,
		Heavy:      heavy,
		Uptime:     1,
	}
}

func TestAvailableModalities(t *testing.T) {
	classic := series.Series{rec(at(1, 8), 1, 2, 3, 4)}
	assert.Equal(t, []string{"pedestrian", "bike", "car", "heavy"}, AvailableModalities(classic))

	lft := 1.5
	s2 := series.Series{func() series.Record {
		r := rec(at(1, 8), 1, 2, 3, 4)
		r.CarLft = &lft
		return r
	}()}
	assert.Contains(t, AvailableModalities(s2), "car_lft")
	assert.NotContains(t, AvailableModalities(s2), "bike_lft")
}

func TestFilterHours(t *testing.T) {
	s := series.Series{
		rec(at(1, 6), 0, 0, 1, 0),
		rec(at(1, 8), 0, 0, 2, 0),
		rec(at(1, 19), 0, 0, 3, 0),
		rec(at(1, 20), 0, 0, 4, 0),
	}
	got := FilterHours(s, 7, 19)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 2.0, got[0].Car)
	assert.Equal(t, 3.0, got[1].Car, "end hour is inclusive")
}

func TestFilterWeekdays(t *testing.T) {
	// 2024-01-01 is a Monday.
	s := series.Series{
		rec(at(1, 8), 0, 0, 1, 0), // Mon
		rec(at(6, 8), 0, 0, 2, 0), // Sat
		rec(at(8, 8), 0, 0, 3, 0), // Mon
	}
	got := FilterWeekdays(s, []time.Weekday{time.Monday})
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 1.0, got[0].Car)
	assert.Equal(t, 3.0, got[1].Car)
}

func TestAssignPeriodsInclusiveEndDay(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(10, 0)}}},
	}
	s := series.Series{
		rec(at(10, 23), 0, 0, 1, 0), // last hour of the end day: included
		rec(at(11, 0), 0, 0, 2, 0),  // next day: dropped
	}
	got := AssignPeriods(s, groups)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Group)
	assert.Equal(t, 1.0, got[0].Car)
}

func TestAssignPeriodsLaterGroupWinsOnOverlap(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(20, 0)}}},
		{Name: "B", Ranges: []DateRange{{Start: at(10, 0), End: at(15, 0)}}},
	}
	got := AssignPeriods(series.Series{rec(at(12, 8), 0, 0, 1, 0)}, groups)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Group)
}

func TestHourlyProfileMeans(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(2, 0)}}},
	}
	s := series.Series{
		rec(at(1, 8), 0, 0, 10, 0),
		rec(at(2, 8), 0, 0, 20, 0),
		rec(at(1, 9), 0, 0, 5, 0),
	}
	labeled := AssignPeriods(s, groups)

	rows := HourlyProfile(labeled, []string{"car"})
	require.Len(t, rows, 2)
	assert.Equal(t, 8, rows[0].Hour)
	assert.Equal(t, 15.0, rows[0].Means["car"])
	assert.Equal(t, 9, rows[1].Hour)
	assert.Equal(t, 5.0, rows[1].Means["car"])
}

func TestDailyTotals(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(2, 0)}}},
	}
	s := series.Series{
		rec(at(1, 8), 1, 0, 10, 0),
		rec(at(1, 9), 2, 0, 20, 0),
		rec(at(2, 8), 4, 0, 40, 0),
	}
	rows := DailyTotals(AssignPeriods(s, groups), []string{"pedestrian", "car"})

	require.Len(t, rows, 2)
	assert.Equal(t, at(1, 0), rows[0].Day)
	assert.Equal(t, 3.0, rows[0].Totals["pedestrian"])
	assert.Equal(t, 30.0, rows[0].Totals["car"])
	assert.Equal(t, 40.0, rows[1].Totals["car"])
}

func TestModalSplitPercentages(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(2, 0)}}},
	}
	s := series.Series{
		rec(at(1, 8), 10, 20, 60, 10),
	}
	rows := ModalSplit(AssignPeriods(s, groups), []string{"pedestrian", "bike", "car", "heavy"})

	require.Len(t, rows, 1)
	assert.InDelta(t, 10, rows[0].Shares["pedestrian"], 1e-9)
	assert.InDelta(t, 20, rows[0].Shares["bike"], 1e-9)
	assert.InDelta(t, 60, rows[0].Shares["car"], 1e-9)

	total := 0.0
	for _, v := range rows[0].Shares {
		total += v
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestModalSplitGroupsSorted(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "Zebra", Ranges: []DateRange{{Start: at(1, 0), End: at(5, 0)}}},
		{Name: "Alpha", Ranges: []DateRange{{Start: at(10, 0), End: at(15, 0)}}},
	}
	s := series.Series{
		rec(at(2, 8), 0, 0, 1, 0),
		rec(at(12, 8), 0, 0, 1, 0),
	}
	rows := ModalSplit(AssignPeriods(s, groups), []string{"car"})
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Group)
	assert.Equal(t, "Zebra", rows[1].Group)
}
