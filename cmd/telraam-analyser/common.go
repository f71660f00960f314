package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olane/telraam-analyser/internal/analysis"
	"github.com/olane/telraam-analyser/internal/app"
	"github.com/olane/telraam-analyser/pkg/logger"
)

const dateLayout = "2006-01-02"

// initApp builds the application and sets up the global logger from its
// config.
func initApp() (*app.App, error) {
	a, err := InitializeApp()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(a.Config.LogLevel, a.Config.Env); err != nil {
		return nil, err
	}
	return a, nil
}

// resolveSegment falls back to the first configured segment ID when the
// flag is empty.
func resolveSegment(a *app.App, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if len(a.Config.SegmentIDs) > 0 {
		return a.Config.SegmentIDs[0], nil
	}
	return "", fmt.Errorf("no segment: pass -segment or set TELRAAM_SEGMENT_IDS")
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

var dayNames = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

// parseDays parses a comma-separated day list like "Mon,Tue,Fri".
func parseDays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		d, ok := dayNames[part[:min(3, len(part))]]
		if !ok {
			return nil, fmt.Errorf("unknown day %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

// parseGroups parses a period-group spec like
// "Before=2024-01-01..2024-03-31;After=2024-06-01..2024-08-31,2024-10-01..2024-10-15".
// Groups are separated by ";", ranges within a group by ",".
func parseGroups(s string) ([]analysis.PeriodGroup, error) {
	var groups []analysis.PeriodGroup
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rangesSpec, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid group %q (want Name=START..END)", part)
		}
		g := analysis.PeriodGroup{Name: name}
		for _, rs := range strings.Split(rangesSpec, ",") {
			rs = strings.TrimSpace(rs)
			startStr, endStr, ok := strings.Cut(rs, "..")
			if !ok {
				return nil, fmt.Errorf("invalid range %q (want START..END)", rs)
			}
			start, err := parseDate(startStr)
			if err != nil {
				return nil, err
			}
			end, err := parseDate(endStr)
			if err != nil {
				return nil, err
			}
			if end.Before(start) {
				return nil, fmt.Errorf("range %q ends before it starts", rs)
			}
			g.Ranges = append(g.Ranges, analysis.DateRange{Start: start, End: end})
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no period groups: pass -groups")
	}
	return groups, nil
}

// parseHours parses an inclusive hour range like "7-19".
func parseHours(s string) (startHour, endHour int, err error) {
	if _, err := fmt.Sscanf(s, "%d-%d", &startHour, &endHour); err != nil {
		return 0, 0, fmt.Errorf("invalid hour range %q (want H-H): %w", s, err)
	}
	if startHour < 0 || endHour > 23 || startHour > endHour {
		return 0, 0, fmt.Errorf("hour range %q out of bounds", s)
	}
	return startHour, endHour, nil
}
