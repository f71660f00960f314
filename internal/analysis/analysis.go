// Package analysis holds the pure aggregation functions. Every function
// takes series data and returns derived rows; none of them do I/O.
package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/olane/telraam-analyser/internal/series"
)

const kmhToMph = 0.621371

// DateRange is a civil date range; End is inclusive through 23:59:59.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodGroup names a set of date ranges to compare against other groups
// (term time vs holidays, before vs after an intervention, ...).
type PeriodGroup struct {
	Name   string      `json:"name"`
	Ranges []DateRange `json:"ranges"`
}

// LabeledRecord is a record tagged with the period group it falls in.
type LabeledRecord struct {
	series.Record
	Group string
}

// AvailableModalities returns the modalities present in the series,
// preserving the canonical order. Directional splits count as present when
// any record carries them.
func AvailableModalities(s series.Series) []string {
	var out []string
	for _, m := range series.S2Modalities {
		for _, r := range s {
			if _, ok := r.Modality(m); ok {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// SpeedHistKind reports which speed histogram the series carries:
// "0to120plus" (10 km/h bins), "0to70plus" (5 km/h bins) or "" for none.
func SpeedHistKind(s series.Series) string {
	for _, r := range s {
		if len(r.SpeedHist120) > 0 {
			return "0to120plus"
		}
	}
	for _, r := range s {
		if len(r.SpeedHist70) > 0 {
			return "0to70plus"
		}
	}
	return ""
}

// FilterHours keeps records whose hour of day falls within
// [startHour, endHour].
func FilterHours(s series.Series, startHour, endHour int) series.Series {
	var out series.Series
	for _, r := range s {
		h := r.Time().Hour()
		if h >= startHour && h <= endHour {
			out = append(out, r)
		}
	}
	return out
}

// FilterWeekdays keeps records whose weekday is in days.
func FilterWeekdays(s series.Series, days []time.Weekday) series.Series {
	keep := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		keep[d] = true
	}
	var out series.Series
	for _, r := range s {
		if keep[r.Time().Weekday()] {
			out = append(out, r)
		}
	}
	return out
}

// AssignPeriods labels each record with the period group it falls in and
// drops records outside all groups. When ranges overlap, the later group in
// the list wins.
func AssignPeriods(s series.Series, groups []PeriodGroup) []LabeledRecord {
	var out []LabeledRecord
	for _, r := range s {
		t := r.Time()
		group := ""
		for _, g := range groups {
			for _, dr := range g.Ranges {
				end := dayOf(dr.End).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
				if !t.Before(dayOf(dr.Start)) && !t.After(end) {
					group = g.Name
				}
			}
		}
		if group != "" {
			out = append(out, LabeledRecord{Record: r, Group: group})
		}
	}
	return out
}

// ProfileRow is the mean count per modality for one (group, hour) cell.
type ProfileRow struct {
	Group string
	Hour  int
	Means map[string]float64
}

// HourlyProfile computes the mean count per (group, hour of day) for each
// modality. Records not carrying a modality are excluded from its mean.
func HourlyProfile(records []LabeledRecord, modalities []string) []ProfileRow {
	type cell struct {
		sums   map[string]float64
		counts map[string]int
	}
	cells := make(map[string]map[int]*cell)
	for _, lr := range records {
		h := lr.Time().Hour()
		if cells[lr.Group] == nil {
			cells[lr.Group] = make(map[int]*cell)
		}
		c := cells[lr.Group][h]
		if c == nil {
			c = &cell{sums: make(map[string]float64), counts: make(map[string]int)}
			cells[lr.Group][h] = c
		}
		for _, m := range modalities {
			if v, ok := lr.Modality(m); ok {
				c.sums[m] += v
				c.counts[m]++
			}
		}
	}

	var out []ProfileRow
	for _, group := range sortedKeys(cells) {
		for h := 0; h < 24; h++ {
			c, ok := cells[group][h]
			if !ok {
				continue
			}
			means := make(map[string]float64, len(modalities))
			for _, m := range modalities {
				if n := c.counts[m]; n > 0 {
					means[m] = c.sums[m] / float64(n)
				}
			}
			out = append(out, ProfileRow{Group: group, Hour: h, Means: means})
		}
	}
	return out
}

// DailyRow is the summed count per modality for one (group, day) cell.
type DailyRow struct {
	Group  string
	Day    time.Time
	Totals map[string]float64
}

// DailyTotals computes the summed count per (group, day) for each modality.
func DailyTotals(records []LabeledRecord, modalities []string) []DailyRow {
	type dayKey struct {
		group string
		day   int64
	}
	totals := make(map[dayKey]map[string]float64)
	for _, lr := range records {
		k := dayKey{group: lr.Group, day: dayOf(lr.Time()).Unix()}
		if totals[k] == nil {
			totals[k] = make(map[string]float64)
		}
		for _, m := range modalities {
			if v, ok := lr.Modality(m); ok {
				totals[k][m] += v
			}
		}
	}

	keys := make([]dayKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].group != keys[j].group {
			return keys[i].group < keys[j].group
		}
		return keys[i].day < keys[j].day
	})

	out := make([]DailyRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyRow{
			Group:  k.group,
			Day:    time.Unix(k.day, 0).UTC(),
			Totals: totals[k],
		})
	}
	return out
}

// SplitRow is the percentage share per modality for one group.
type SplitRow struct {
	Group  string
	Shares map[string]float64
}

// ModalSplit computes each modality's percentage share of the group total.
func ModalSplit(records []LabeledRecord, modalities []string) []SplitRow {
	sums := make(map[string]map[string]float64)
	for _, lr := range records {
		if sums[lr.Group] == nil {
			sums[lr.Group] = make(map[string]float64)
		}
		for _, m := range modalities {
			if v, ok := lr.Modality(m); ok {
				sums[lr.Group][m] += v
			}
		}
	}

	var out []SplitRow
	for _, group := range sortedKeys(sums) {
		total := 0.0
		for _, m := range modalities {
			total += sums[group][m]
		}
		shares := make(map[string]float64, len(modalities))
		if total > 0 {
			for _, m := range modalities {
				shares[m] = sums[group][m] / total * 100
			}
		}
		out = append(out, SplitRow{Group: group, Shares: shares})
	}
	return out
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
