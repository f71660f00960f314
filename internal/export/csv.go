package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/olane/telraam-analyser/internal/series"
)

// CSVSaver writes one row per record. Speed histograms are embedded as
// JSON arrays so the file stays rectangular.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

var csvHeader = []string{
	"date", "uptime",
	"pedestrian", "bike", "car", "heavy",
	"pedestrian_lft", "pedestrian_rgt",
	"bike_lft", "bike_rgt",
	"car_lft", "car_rgt",
	"heavy_lft", "heavy_rgt",
	"v85",
	"car_speed_hist_0to70plus", "car_speed_hist_0to120plus",
}

func (CSVSaver) Save(s series.Series, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range s {
		row := []string{
			r.Time().Format(time.RFC3339),
			floatStr(r.Uptime),
			floatStr(r.Pedestrian),
			floatStr(r.Bike),
			floatStr(r.Car),
			floatStr(r.Heavy),
			ptrStr(r.PedestrianLft),
			ptrStr(r.PedestrianRgt),
			ptrStr(r.BikeLft),
			ptrStr(r.BikeRgt),
			ptrStr(r.CarLft),
			ptrStr(r.CarRgt),
			ptrStr(r.HeavyLft),
			ptrStr(r.HeavyRgt),
			ptrStr(r.V85),
			histStr(r.SpeedHist70),
			histStr(r.SpeedHist120),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func ptrStr(p *float64) string {
	if p == nil {
		return ""
	}
	return floatStr(*p)
}

func histStr(h []float64) string {
	if len(h) == 0 {
		return ""
	}
	b, _ := json.Marshal(h)
	return string(b)
}
