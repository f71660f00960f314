package analysis

import (
	"fmt"
	"math"
)

// SpeedDistribution is the averaged speed histogram per period group.
// Labels name the speed bins in the requested unit; the last bin is
// open-ended.
type SpeedDistribution struct {
	Labels []string
	Rows   []SpeedDistributionRow
}

// SpeedDistributionRow is one group's mean percentage per speed bin.
type SpeedDistributionRow struct {
	Group string
	Means []float64
}

// ComputeSpeedDistribution averages the car speed histograms per group.
// unit is "mph" or "km/h". Returns nil when the records carry no speed
// histogram.
func ComputeSpeedDistribution(records []LabeledRecord, unit string) *SpeedDistribution {
	hists, kind := groupHistograms(records)
	if kind == "" {
		return nil
	}

	maxBins := 0
	for _, gh := range hists {
		for _, h := range gh {
			if len(h) > maxBins {
				maxBins = len(h)
			}
		}
	}

	stepKmh, factor := histScale(kind, unit)

	labels := make([]string, maxBins)
	for i := 0; i < maxBins-1; i++ {
		lo := math.Round(float64(i) * stepKmh * factor)
		hi := math.Round(float64(i+1) * stepKmh * factor)
		labels[i] = fmt.Sprintf("%.0f-%.0f", lo, hi)
	}
	labels[maxBins-1] = fmt.Sprintf("%.0f+", math.Round(float64(maxBins-1)*stepKmh*factor))

	out := &SpeedDistribution{Labels: labels}
	for _, group := range sortedKeys(hists) {
		means := meanHistogram(hists[group], maxBins)
		out.Rows = append(out.Rows, SpeedDistributionRow{Group: group, Means: means})
	}
	return out
}

// SpeedSummaryRow carries the mean V85 and the estimated mean speed for
// one group, in the requested unit. Nil fields mean the underlying data is
// absent.
type SpeedSummaryRow struct {
	Group   string
	V85     *float64
	EstMean *float64
}

// ComputeSpeedSummary computes the mean V85 per group, plus a mean speed
// estimated from the histogram bin midpoints (the open-ended last bin uses
// its lower bound).
func ComputeSpeedSummary(records []LabeledRecord, unit string) []SpeedSummaryRow {
	factor := 1.0
	if unit == "mph" {
		factor = kmhToMph
	}

	hists, kind := groupHistograms(records)

	v85s := make(map[string][]float64)
	groups := make(map[string]bool)
	for _, lr := range records {
		groups[lr.Group] = true
		if lr.V85 != nil {
			v85s[lr.Group] = append(v85s[lr.Group], *lr.V85)
		}
	}
	if len(v85s) == 0 && kind == "" {
		return nil
	}

	var out []SpeedSummaryRow
	for _, group := range sortedKeys(groups) {
		row := SpeedSummaryRow{Group: group}

		if vals := v85s[group]; len(vals) > 0 {
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			mean := round1(sum / float64(len(vals)) * factor)
			row.V85 = &mean
		}

		if gh := hists[group]; len(gh) > 0 {
			stepKmh, _ := histScale(kind, unit)
			maxBins := 0
			for _, h := range gh {
				if len(h) > maxBins {
					maxBins = len(h)
				}
			}
			avg := meanHistogram(gh, maxBins)
			meanKmh := 0.0
			for i, pct := range avg {
				mid := (float64(i) + 0.5) * stepKmh
				if i == maxBins-1 {
					mid = float64(i) * stepKmh
				}
				meanKmh += mid * pct / 100
			}
			est := round1(meanKmh * factor)
			row.EstMean = &est
		}

		out = append(out, row)
	}
	return out
}

// groupHistograms collects the non-empty histograms per group, preferring
// the 10 km/h 0to120plus histogram when both kinds appear.
func groupHistograms(records []LabeledRecord) (map[string][][]float64, string) {
	kind := ""
	for _, lr := range records {
		if len(lr.SpeedHist120) > 0 {
			kind = "0to120plus"
			break
		}
	}
	if kind == "" {
		for _, lr := range records {
			if len(lr.SpeedHist70) > 0 {
				kind = "0to70plus"
				break
			}
		}
	}
	if kind == "" {
		return nil, ""
	}

	hists := make(map[string][][]float64)
	for _, lr := range records {
		h := lr.SpeedHist120
		if kind == "0to70plus" {
			h = lr.SpeedHist70
		}
		if len(h) > 0 {
			hists[lr.Group] = append(hists[lr.Group], h)
		}
	}
	return hists, kind
}

// histScale returns the bin width in km/h for the histogram kind and the
// unit conversion factor.
func histScale(kind, unit string) (stepKmh, factor float64) {
	stepKmh = 10
	if kind == "0to70plus" {
		stepKmh = 5
	}
	factor = 1.0
	if unit == "mph" {
		factor = kmhToMph
	}
	return stepKmh, factor
}

func meanHistogram(hists [][]float64, bins int) []float64 {
	sums := make([]float64, bins)
	counts := make([]int, bins)
	for _, h := range hists {
		for i, v := range h {
			sums[i] += v
			counts[i]++
		}
	}
	means := make([]float64, bins)
	for i := range sums {
		if counts[i] > 0 {
			means[i] = sums[i] / float64(counts[i])
		}
	}
	return means
}
