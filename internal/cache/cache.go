// Package cache persists fetched traffic series as one parquet file per
// (segment, level, format) key and serves requested spans by fetching only
// the date ranges not already on disk.
//
// Known limitation: only boundary gaps
// are detected. Once persisted data covers a span it is assumed contiguous;
// holes strictly between the persisted minimum and maximum are never
// refetched.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/olane/telraam-analyser/internal/series"
	"github.com/olane/telraam-analyser/internal/telraam"
	"github.com/olane/telraam-analyser/pkg/logger"
)

// ErrInvalidRange is returned when a requested range has start >= end.
// Rejected before any I/O.
var ErrInvalidRange = errors.New("invalid range: start must precede end")

// Key identifies one persisted storage unit. Each key maps to exactly one
// parquet file; no storage is shared across keys.
type Key struct {
	SegmentID string
	Level     string
	Format    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s", k.SegmentID, k.Level, k.Format)
}

// Gap is a date range not covered by the persisted series. Gaps are
// computed per request, never persisted.
type Gap struct {
	Start, End time.Time
}

// Fetcher retrieves a series for one request. Satisfied by
// *telraam.Client; tests substitute a scripted fake.
type Fetcher interface {
	Fetch(ctx context.Context, req telraam.Request, progress telraam.ProgressFunc) (series.Series, error)
}

// Store owns the cache directory. Single-writer model: each storage unit is
// exclusively owned by one Store instance at a time; concurrent writers to
// the same key are not supported.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir, log: logger.Get()}, nil
}

func (s *Store) path(key Key) string {
	return filepath.Join(s.dir, key.String()+".parquet")
}

// GetOrFetch returns the series for [start, end], fetching only the date
// ranges not already persisted for key. The returned slice is inclusive of
// both bounds at the timestamp level. Gap edges are computed at whole-day
// precision. When zero gaps are found no network call is made. A fetch
// failure aborts the call without touching the on-disk unit.
func (s *Store) GetOrFetch(
	ctx context.Context,
	key Key,
	start, end time.Time,
	client Fetcher,
	progress telraam.ProgressFunc,
) (series.Series, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, start, end)
	}

	log := s.log.With("call_id", shortID(), "key", key.String())

	path := s.path(key)
	cached := s.load(path, log)

	gaps := findGaps(cached, dayOf(start), dayOf(end))
	if len(gaps) == 0 {
		log.Debugw("range fully cached", "rows", cached.Len())
		return cached.Slice(start, end), nil
	}
	log.Infow("fetching missing ranges", "gaps", len(gaps), "cached_rows", cached.Len())

	batches := make([]series.Series, 0, len(gaps)+1)
	batches = append(batches, cached)
	for _, gap := range gaps {
		req := telraam.Request{
			SegmentID: key.SegmentID,
			TimeStart: gap.Start,
			TimeEnd:   gap.End,
			Level:     key.Level,
			Format:    key.Format,
		}
		fetched, err := client.Fetch(ctx, req, progress)
		if err != nil {
			return nil, fmt.Errorf("fetch %s to %s: %w",
				gap.Start.Format("2006-01-02"), gap.End.Format("2006-01-02"), err)
		}
		if !fetched.Empty() {
			batches = append(batches, fetched)
		}
	}

	merged := series.Merge(batches...)
	if merged.Empty() {
		return nil, nil
	}

	if err := s.save(path, merged); err != nil {
		return nil, err
	}
	log.Infow("cache updated", "rows", merged.Len())

	return merged.Slice(start, end), nil
}

// load reads the persisted series for a key. A missing file is an empty
// cache; an unreadable or corrupt file is logged and likewise treated as
// empty rather than failing the call.
func (s *Store) load(path string, log *logger.Logger) series.Series {
	rows, err := parquet.ReadFile[series.Record](path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnw("discarding unreadable cache file", "path", path, "error", err)
		}
		return nil
	}
	// Re-sorting guards against files written before an interrupted merge.
	return series.FromRecords(rows)
}

// save writes the series to a temporary file and renames it over the
// destination, so a failed write never corrupts the existing unit.
func (s *Store) save(path string, merged series.Series) error {
	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, []series.Record(merged)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// findGaps compares the requested [start, end) against the persisted
// series bounds. Only leading and trailing gaps are detected; interior
// holes are assumed absent (see the package comment).
func findGaps(cached series.Series, start, end time.Time) []Gap {
	if cached.Empty() {
		return appendGap(nil, start, end)
	}

	first, last, _ := cached.Bounds()
	cachedStart := dayOf(first)
	cachedEnd := dayOf(last)

	var gaps []Gap
	if start.Before(cachedStart) {
		gaps = appendGap(gaps, start, minTime(cachedStart, end))
	}
	if end.After(cachedEnd) {
		gaps = appendGap(gaps, maxTime(cachedEnd, start), end)
	}
	return gaps
}

// appendGap drops zero-width spans, which arise when a sub-day request
// truncates to a single day. A zero-width gap has nothing to fetch.
func appendGap(gaps []Gap, start, end time.Time) []Gap {
	if !start.Before(end) {
		return gaps
	}
	return append(gaps, Gap{Start: start, End: end})
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func shortID() string {
	return uuid.NewString()[:8]
}
