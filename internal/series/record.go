package series

import "time"

// Record is one per-period observation from a traffic sensor.
// Shared by the API client, the cache and serialization (json, parquet).
type Record struct {
	Timestamp int64   `json:"timestamp" parquet:"timestamp"` // Unix timestamp in milliseconds, UTC
	Uptime    float64 `json:"uptime" parquet:"uptime"`

	Pedestrian float64 `json:"pedestrian" parquet:"pedestrian"`
	Bike       float64 `json:"bike" parquet:"bike"`
	Car        float64 `json:"car" parquet:"car"`
	Heavy      float64 `json:"heavy" parquet:"heavy"`

	// Directional counts are only reported by S2 sensors.
	PedestrianLft *float64 `json:"pedestrian_lft,omitempty" parquet:"pedestrian_lft,optional"`
	PedestrianRgt *float64 `json:"pedestrian_rgt,omitempty" parquet:"pedestrian_rgt,optional"`
	BikeLft       *float64 `json:"bike_lft,omitempty" parquet:"bike_lft,optional"`
	BikeRgt       *float64 `json:"bike_rgt,omitempty" parquet:"bike_rgt,optional"`
	CarLft        *float64 `json:"car_lft,omitempty" parquet:"car_lft,optional"`
	CarRgt        *float64 `json:"car_rgt,omitempty" parquet:"car_rgt,optional"`
	HeavyLft      *float64 `json:"heavy_lft,omitempty" parquet:"heavy_lft,optional"`
	HeavyRgt      *float64 `json:"heavy_rgt,omitempty" parquet:"heavy_rgt,optional"`

	// V85 and the speed histograms are supplementary speed statistics.
	V85          *float64  `json:"v85,omitempty" parquet:"v85,optional"`
	SpeedHist70  []float64 `json:"car_speed_hist_0to70plus,omitempty" parquet:"car_speed_hist_0to70plus,list"`
	SpeedHist120 []float64 `json:"car_speed_hist_0to120plus,omitempty" parquet:"car_speed_hist_0to120plus,list"`
}

// Time returns the record timestamp as UTC time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

// Modality returns the count for the named modality. The second return is
// false when the modality is not carried by this record (direction splits on
// classic sensors).
func (r Record) Modality(name string) (float64, bool) {
	switch name {
	case "pedestrian":
		return r.Pedestrian, true
	case "bike":
		return r.Bike, true
	case "car":
		return r.Car, true
	case "heavy":
		return r.Heavy, true
	case "pedestrian_lft":
		return deref(r.PedestrianLft)
	case "pedestrian_rgt":
		return deref(r.PedestrianRgt)
	case "bike_lft":
		return deref(r.BikeLft)
	case "bike_rgt":
		return deref(r.BikeRgt)
	case "car_lft":
		return deref(r.CarLft)
	case "car_rgt":
		return deref(r.CarRgt)
	case "heavy_lft":
		return deref(r.HeavyLft)
	case "heavy_rgt":
		return deref(r.HeavyRgt)
	}
	return 0, false
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// ClassicModalities are the counts reported by all sensors.
var ClassicModalities = []string{"pedestrian", "bike", "car", "heavy"}

// S2Modalities adds the per-direction splits reported by S2 sensors.
var S2Modalities = []string{
	"pedestrian", "bike", "car", "heavy",
	"pedestrian_lft", "pedestrian_rgt",
	"bike_lft", "bike_rgt",
	"car_lft", "car_rgt",
	"heavy_lft", "heavy_rgt",
}
