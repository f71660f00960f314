package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olane/telraam-analyser/internal/series"
)

func speedRec(t time.Time, v85 float64, hist70 []float64) series.Record {
	return series.Record{
		Timestamp:   t.UnixMilli(),
		Car:         10,
		Uptime:      1,
		V85:         &v85,
		SpeedHist70: hist70,
	}
}

func labeledSpeed(t *testing.T) []LabeledRecord {
	t.Helper()
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(5, 0)}}},
	}
	s := series.Series{
		speedRec(at(1, 8), 40, []float64{50, 30, 20}),
		speedRec(at(2, 8), 44, []float64{70, 20, 10}),
	}
	labeled := AssignPeriods(s, groups)
	require.Len(t, labeled, 2)
	return labeled
}

func TestComputeSpeedDistribution(t *testing.T) {
	dist := ComputeSpeedDistribution(labeledSpeed(t), "km/h")
	require.NotNil(t, dist)

	// 5 km/h bins, last bin open-ended.
	assert.Equal(t, []string{"0-5", "5-10", "10+"}, dist.Labels)
	require.Len(t, dist.Rows, 1)
	assert.Equal(t, "A", dist.Rows[0].Group)
	assert.InDelta(t, 60, dist.Rows[0].Means[0], 1e-9)
	assert.InDelta(t, 25, dist.Rows[0].Means[1], 1e-9)
	assert.InDelta(t, 15, dist.Rows[0].Means[2], 1e-9)
}

func TestComputeSpeedDistributionMph(t *testing.T) {
	dist := ComputeSpeedDistribution(labeledSpeed(t), "mph")
	require.NotNil(t, dist)
	// 5 km/h ~ 3.1 mph, 10 km/h ~ 6.2 mph; labels round to integers.
	assert.Equal(t, []string{"0-3", "3-6", "6+"}, dist.Labels)
}

func TestComputeSpeedDistributionNoData(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(5, 0)}}},
	}
	labeled := AssignPeriods(series.Series{rec(at(1, 8), 0, 0, 1, 0)}, groups)
	assert.Nil(t, ComputeSpeedDistribution(labeled, "mph"))
}

func TestComputeSpeedDistributionPrefers120Histogram(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(5, 0)}}},
	}
	r := speedRec(at(1, 8), 40, []float64{50, 50})
	r.SpeedHist120 = []float64{80, 20}
	labeled := AssignPeriods(series.Series{r}, groups)

	dist := ComputeSpeedDistribution(labeled, "km/h")
	require.NotNil(t, dist)
	// 10 km/h bins from the 0to120plus histogram.
	assert.Equal(t, []string{"0-10", "10+"}, dist.Labels)
	assert.InDelta(t, 80, dist.Rows[0].Means[0], 1e-9)
}

func TestComputeSpeedSummary(t *testing.T) {
	rows := ComputeSpeedSummary(labeledSpeed(t), "km/h")
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].V85)
	assert.InDelta(t, 42.0, *rows[0].V85, 1e-9)

	// Average histogram [60, 25, 15]; midpoints 2.5, 7.5 and 10 (open
	// bin uses its lower bound): 0.6*2.5 + 0.25*7.5 + 0.15*10 = 4.9 km/h.
	require.NotNil(t, rows[0].EstMean)
	assert.InDelta(t, 4.9, *rows[0].EstMean, 1e-9)
}

func TestComputeSpeedSummaryMphConversion(t *testing.T) {
	rows := ComputeSpeedSummary(labeledSpeed(t), "mph")
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].V85)
	// 42 km/h * 0.621371 = 26.1 mph, rounded to one decimal.
	assert.InDelta(t, 26.1, *rows[0].V85, 1e-9)
}

func TestComputeSpeedSummaryNoSpeedData(t *testing.T) {
	groups := []PeriodGroup{
		{Name: "A", Ranges: []DateRange{{Start: at(1, 0), End: at(5, 0)}}},
	}
	labeled := AssignPeriods(series.Series{rec(at(1, 8), 0, 0, 1, 0)}, groups)
	assert.Nil(t, ComputeSpeedSummary(labeled, "mph"))
}
