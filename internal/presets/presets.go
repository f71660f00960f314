// Package presets provides builtin and saved period-group selections.
package presets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olane/telraam-analyser/internal/analysis"
)

// Preset is a named set of period groups with an optional day-of-week
// filter.
type Preset struct {
	Groups []analysis.PeriodGroup
	Days   []time.Weekday
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Cambridgeshire school term dates 2025-26.
// https://www.cambridgeshire.gov.uk/residents/children-and-families/schools-learning/school-term-dates-closures
var cambridgeHolidays2526 = []analysis.DateRange{
	{Start: date(2025, 10, 27), End: date(2025, 10, 31)}, // Autumn half term
	{Start: date(2025, 12, 22), End: date(2026, 1, 2)},   // Christmas
	{Start: date(2026, 2, 16), End: date(2026, 2, 20)},   // February half term
	{Start: date(2026, 3, 30), End: date(2026, 4, 10)},   // Easter
	{Start: date(2026, 5, 25), End: date(2026, 5, 29)},   // May half term
}

var cambridgeTerms2526 = []analysis.DateRange{
	{Start: date(2025, 9, 1), End: date(2025, 10, 24)},
	{Start: date(2025, 11, 3), End: date(2025, 12, 19)},
	{Start: date(2026, 1, 5), End: date(2026, 2, 13)},
	{Start: date(2026, 2, 23), End: date(2026, 3, 27)},
	{Start: date(2026, 4, 13), End: date(2026, 5, 22)},
	{Start: date(2026, 6, 1), End: date(2026, 7, 20)},
}

// Builtin holds the presets that ship with the tool.
var Builtin = map[string]Preset{
	"Cambridge: Term vs Holidays 2025-26": {
		Groups: []analysis.PeriodGroup{
			{Name: "Term time", Ranges: cambridgeTerms2526},
			{Name: "School holidays", Ranges: cambridgeHolidays2526},
		},
		Days: weekdays,
	},
	"Cambridge: Term time 2025-26": {
		Groups: []analysis.PeriodGroup{
			{Name: "Term time", Ranges: cambridgeTerms2526},
		},
		Days: weekdays,
	},
	"Cambridge: School holidays 2025-26": {
		Groups: []analysis.PeriodGroup{
			{Name: "School holidays", Ranges: cambridgeHolidays2526},
		},
		Days: weekdays,
	},
}

// Store saves and loads named period groups as JSON files in a directory.
type Store struct {
	dir string
}

// NewStore returns a preset store rooted at dir. The directory is created
// lazily on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

const dateLayout = "2006-01-02"

type groupJSON struct {
	Name   string      `json:"name"`
	Ranges [][2]string `json:"ranges"`
}

// Save writes the groups under name. The name is sanitized into a safe
// filename. Returns the file path.
func (s *Store) Save(name string, groups []analysis.PeriodGroup) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create presets dir: %w", err)
	}

	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		gj := groupJSON{Name: g.Name}
		for _, r := range g.Ranges {
			gj.Ranges = append(gj.Ranges, [2]string{
				r.Start.Format(dateLayout),
				r.End.Format(dateLayout),
			})
		}
		out = append(out, gj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, sanitize(name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write preset: %w", err)
	}
	return path, nil
}

// List returns the names of saved presets, sorted.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names
}

// Load reads a saved preset by name.
func (s *Store) Load(name string) ([]analysis.PeriodGroup, error) {
	path := filepath.Join(s.dir, sanitize(name)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}

	var raw []groupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", name, err)
	}

	groups := make([]analysis.PeriodGroup, 0, len(raw))
	for _, gj := range raw {
		g := analysis.PeriodGroup{Name: gj.Name}
		for _, pair := range gj.Ranges {
			start, err := time.Parse(dateLayout, pair[0])
			if err != nil {
				return nil, fmt.Errorf("parse preset %s: %w", name, err)
			}
			end, err := time.Parse(dateLayout, pair[1])
			if err != nil {
				return nil, fmt.Errorf("parse preset %s: %w", name, err)
			}
			g.Ranges = append(g.Ranges, analysis.DateRange{Start: start, End: end})
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// sanitize keeps alphanumerics, spaces, dashes and underscores.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
