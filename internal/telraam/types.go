package telraam

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olane/telraam-analyser/internal/series"
)

// Request identifies one segment / time range / granularity combination.
// TimeStart is inclusive and TimeEnd exclusive, matching the remote API
// contract. Immutable once constructed; the cache derives sub-range
// requests from a single overarching one.
type Request struct {
	SegmentID string    `validate:"required"`
	TimeStart time.Time `validate:"required"`
	TimeEnd   time.Time `validate:"required,gtfield=TimeStart"`
	Level     string
	Format    string
}

// ProgressFunc is invoked after each completed chunk of a fetch. Purely
// observational; never used for flow control.
type ProgressFunc func(done, total int)

// APIError reports a non-success status or malformed payload from the
// remote API. Body is truncated so callers can diagnose remote failures
// without logging megabytes.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telraam API returned %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 500

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}

// rawRecord is one report row as returned by the API.
type rawRecord struct {
	Date   string  `json:"date"`
	Uptime float64 `json:"uptime"`

	Pedestrian float64 `json:"pedestrian"`
	Bike       float64 `json:"bike"`
	Car        float64 `json:"car"`
	Heavy      float64 `json:"heavy"`

	PedestrianLft *float64 `json:"pedestrian_lft"`
	PedestrianRgt *float64 `json:"pedestrian_rgt"`
	BikeLft       *float64 `json:"bike_lft"`
	BikeRgt       *float64 `json:"bike_rgt"`
	CarLft        *float64 `json:"car_lft"`
	CarRgt        *float64 `json:"car_rgt"`
	HeavyLft      *float64 `json:"heavy_lft"`
	HeavyRgt      *float64 `json:"heavy_rgt"`

	V85          *float64   `json:"v85"`
	SpeedHist70  flexFloats `json:"car_speed_hist_0to70plus"`
	SpeedHist120 flexFloats `json:"car_speed_hist_0to120plus"`
}

// toRecord converts a rawRecord to a series.Record. The date is parsed as
// UTC; an unparseable date is a malformed payload.
func (rr rawRecord) toRecord() (series.Record, error) {
	ts, err := parseDate(rr.Date)
	if err != nil {
		return series.Record{}, err
	}
	return series.Record{
		Timestamp:     ts.UnixMilli(),
		Uptime:        rr.Uptime,
		Pedestrian:    rr.Pedestrian,
		Bike:          rr.Bike,
		Car:           rr.Car,
		Heavy:         rr.Heavy,
		PedestrianLft: rr.PedestrianLft,
		PedestrianRgt: rr.PedestrianRgt,
		BikeLft:       rr.BikeLft,
		BikeRgt:       rr.BikeRgt,
		CarLft:        rr.CarLft,
		CarRgt:        rr.CarRgt,
		HeavyLft:      rr.HeavyLft,
		HeavyRgt:      rr.HeavyRgt,
		V85:           rr.V85,
		SpeedHist70:   []float64(rr.SpeedHist70),
		SpeedHist120:  []float64(rr.SpeedHist120),
	}, nil
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// flexFloats parses a float array that the API sometimes encodes as a JSON
// string ("[1.0, 2.0]") instead of a plain array.
type flexFloats []float64

func (f *flexFloats) UnmarshalJSON(data []byte) error {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err == nil {
		*f = vals
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot parse speed histogram: %s", string(data))
	}
	if err := json.Unmarshal([]byte(s), &vals); err != nil {
		return fmt.Errorf("cannot parse speed histogram string: %w", err)
	}
	*f = vals
	return nil
}
