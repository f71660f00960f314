package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/olane/telraam-analyser/internal/analysis"
	"github.com/olane/telraam-analyser/internal/cache"
	"github.com/olane/telraam-analyser/internal/presets"
	"github.com/olane/telraam-analyser/internal/series"
	"github.com/olane/telraam-analyser/pkg/logger"
)

// reportCmd aggregates cached (or freshly fetched) data into a comparison
// table across period groups.
type reportCmd struct {
	segment    string
	preset     string
	start      string
	end        string
	kind       string
	modalities string
	hours      string
	days       string
	unit       string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "aggregate traffic data across period groups" }
func (*reportCmd) Usage() string {
	return `report -kind hourly|daily|split|speed-dist|speed-summary (-preset NAME | -start YYYY-MM-DD -end YYYY-MM-DD):
  Print an aggregation table. With -preset, period groups and the weekday
  filter come from a builtin or saved preset; otherwise a single group
  spans the given range.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.segment, "segment", "", "segment ID (default: first configured)")
	f.StringVar(&c.preset, "preset", "", "builtin or saved preset name")
	f.StringVar(&c.start, "start", "", "start date, YYYY-MM-DD (without -preset)")
	f.StringVar(&c.end, "end", "", "end date, YYYY-MM-DD, inclusive (without -preset)")
	f.StringVar(&c.kind, "kind", "daily", "hourly | daily | split | speed-dist | speed-summary")
	f.StringVar(&c.modalities, "modalities", "", "comma-separated modalities (default: all classic)")
	f.StringVar(&c.hours, "hours", "0-23", "inclusive hour-of-day range, e.g. 7-19")
	f.StringVar(&c.days, "days", "", "comma-separated weekdays, e.g. Mon,Tue (default: preset or all)")
	f.StringVar(&c.unit, "unit", "mph", "speed unit: mph | km/h")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := initApp()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	log := logger.Get()

	segment, err := resolveSegment(a, c.segment)
	if err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}

	groups, presetDays, err := c.periodGroups(a.Presets)
	if err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}

	// Overall fetch range spans all group ranges; the end day is included.
	overallStart, overallEnd, ok := overallRange(groups)
	if !ok {
		log.Error("preset has no date ranges")
		return subcommands.ExitUsageError
	}

	key := cache.Key{SegmentID: segment, Level: a.Config.Level, Format: a.Config.Format}
	s, err := a.Store.GetOrFetch(ctx, key, overallStart, overallEnd, a.Client, func(done, total int) {
		log.Infow("fetch progress", "chunk", done, "total", total)
	})
	if err != nil {
		log.Errorw("load failed", "segment", segment, "error", err)
		return subcommands.ExitFailure
	}
	if s.Empty() {
		fmt.Println("no data for the selected ranges")
		return subcommands.ExitSuccess
	}

	s, err = c.applyFilters(s, presetDays)
	if err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}

	labeled := analysis.AssignPeriods(s, groups)
	modalities := c.selectModalities(s)

	if err := c.printReport(labeled, modalities); err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// periodGroups resolves -preset (builtin first, then saved) or builds a
// single group from -start/-end.
func (c *reportCmd) periodGroups(store *presets.Store) ([]analysis.PeriodGroup, []time.Weekday, error) {
	if c.preset != "" {
		if p, ok := presets.Builtin[c.preset]; ok {
			return p.Groups, p.Days, nil
		}
		groups, err := store.Load(c.preset)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown preset %q: %w", c.preset, err)
		}
		return groups, nil, nil
	}

	start, err := parseDate(c.start)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDate(c.end)
	if err != nil {
		return nil, nil, err
	}
	return []analysis.PeriodGroup{
		{Name: "All", Ranges: []analysis.DateRange{{Start: start, End: end}}},
	}, nil, nil
}

func overallRange(groups []analysis.PeriodGroup) (start, end time.Time, ok bool) {
	for _, g := range groups {
		for _, r := range g.Ranges {
			if !ok || r.Start.Before(start) {
				start = r.Start
			}
			if !ok || r.End.After(end) {
				end = r.End
			}
			ok = true
		}
	}
	// Include the full final day.
	return start, end.AddDate(0, 0, 1), ok
}

func (c *reportCmd) applyFilters(s series.Series, presetDays []time.Weekday) (series.Series, error) {
	startHour, endHour, err := parseHours(c.hours)
	if err != nil {
		return nil, err
	}
	s = analysis.FilterHours(s, startHour, endHour)

	days := presetDays
	if c.days != "" {
		days, err = parseDays(c.days)
		if err != nil {
			return nil, err
		}
	}
	if len(days) > 0 {
		s = analysis.FilterWeekdays(s, days)
	}
	return s, nil
}

func (c *reportCmd) selectModalities(s series.Series) []string {
	if c.modalities == "" {
		available := analysis.AvailableModalities(s)
		var out []string
		for _, m := range available {
			for _, classic := range series.ClassicModalities {
				if m == classic {
					out = append(out, m)
				}
			}
		}
		return out
	}
	var out []string
	for _, m := range strings.Split(c.modalities, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (c *reportCmd) printReport(labeled []analysis.LabeledRecord, modalities []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch c.kind {
	case "hourly":
		fmt.Fprintln(w, "group\thour\t"+strings.Join(modalities, "\t"))
		for _, row := range analysis.HourlyProfile(labeled, modalities) {
			fmt.Fprintf(w, "%s\t%d", row.Group, row.Hour)
			for _, m := range modalities {
				fmt.Fprintf(w, "\t%.1f", row.Means[m])
			}
			fmt.Fprintln(w)
		}

	case "daily":
		fmt.Fprintln(w, "group\tday\t"+strings.Join(modalities, "\t"))
		for _, row := range analysis.DailyTotals(labeled, modalities) {
			fmt.Fprintf(w, "%s\t%s", row.Group, row.Day.Format(dateLayout))
			for _, m := range modalities {
				fmt.Fprintf(w, "\t%.0f", row.Totals[m])
			}
			fmt.Fprintln(w)
		}

	case "split":
		fmt.Fprintln(w, "group\t"+strings.Join(modalities, "\t"))
		for _, row := range analysis.ModalSplit(labeled, modalities) {
			fmt.Fprintf(w, "%s", row.Group)
			for _, m := range modalities {
				fmt.Fprintf(w, "\t%.1f%%", row.Shares[m])
			}
			fmt.Fprintln(w)
		}

	case "speed-dist":
		dist := analysis.ComputeSpeedDistribution(labeled, c.unit)
		if dist == nil {
			fmt.Fprintln(w, "no speed histogram data")
			return nil
		}
		fmt.Fprintln(w, "group\t"+strings.Join(dist.Labels, "\t"))
		for _, row := range dist.Rows {
			fmt.Fprintf(w, "%s", row.Group)
			for _, v := range row.Means {
				fmt.Fprintf(w, "\t%.1f%%", v)
			}
			fmt.Fprintln(w)
		}

	case "speed-summary":
		rows := analysis.ComputeSpeedSummary(labeled, c.unit)
		if rows == nil {
			fmt.Fprintln(w, "no speed data")
			return nil
		}
		fmt.Fprintf(w, "group\tV85 (%s)\test. mean (%s)\n", c.unit, c.unit)
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.Group, fmtPtr(row.V85), fmtPtr(row.EstMean))
		}

	default:
		return fmt.Errorf("unknown report kind %q", c.kind)
	}
	return nil
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
