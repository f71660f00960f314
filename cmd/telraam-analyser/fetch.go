package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/olane/telraam-analyser/internal/cache"
	"github.com/olane/telraam-analyser/pkg/logger"
)

// fetchCmd pulls a date range for a segment through the cache, fetching
// only what is missing from disk.
type fetchCmd struct {
	segment string
	start   string
	end     string
	level   string
	format  string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch traffic data for a segment and date range" }
func (*fetchCmd) Usage() string {
	return `fetch -start YYYY-MM-DD -end YYYY-MM-DD [-segment ID]:
  Fetch the date range (end inclusive) into the local cache.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.segment, "segment", "", "segment ID (default: first configured)")
	f.StringVar(&c.start, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&c.end, "end", "", "end date, YYYY-MM-DD, inclusive")
	f.StringVar(&c.level, "level", "", "report level (default: configured)")
	f.StringVar(&c.format, "format", "", "report format (default: configured)")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	start, err := parseDate(c.start)
	if err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}
	end, err := parseDate(c.end)
	if err != nil {
		log.Error(err)
		return subcommands.ExitUsageError
	}

	key := cache.Key{
		SegmentID: segment,
		Level:     orDefault(c.level, a.Config.Level),
		Format:    orDefault(c.format, a.Config.Format),
	}

	progress := func(done, total int) {
		log.Infow("fetch progress", "chunk", done, "total", total)
	}

	// The end date is inclusive: extend to the next midnight.
	s, err := a.Store.GetOrFetch(ctx, key, start, end.AddDate(0, 0, 1), a.Client, progress)
	if err != nil {
		log.Errorw("fetch failed", "segment", segment, "error", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d rows cached for segment %s (%s to %s)\n", s.Len(), segment, c.start, c.end)
	return subcommands.ExitSuccess
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
