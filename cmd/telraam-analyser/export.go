package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/olane/telraam-analyser/internal/cache"
	"github.com/olane/telraam-analyser/internal/export"
	"github.com/olane/telraam-analyser/pkg/logger"
)

// exportCmd writes a cached date range to a file for external tools.
// Missing data is fetched through the cache first.
type exportCmd struct {
	segment string
	start   string
	end     string
	format  string
	out     string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a date range to csv, json or parquet" }
func (*exportCmd) Usage() string {
	return `export -start YYYY-MM-DD -end YYYY-MM-DD [-out FILE] [-format csv|json|parquet]:
  Export the date range (end inclusive), fetching anything missing first.
  Without -out the file is named after the cache key and format.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.segment, "segment", "", "segment ID (default: first configured)")
	f.StringVar(&c.start, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&c.end, "end", "", "end date, YYYY-MM-DD, inclusive")
	f.StringVar(&c.format, "format", "csv", "output format: csv | json | parquet")
	f.StringVar(&c.out, "out", "", "output file path (default: <segment>_<level>_<format>.<ext>)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := initApp()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	log := logger.Get()

	saver := export.NewSaver(c.format)
	if saver == nil {
		log.Errorw("unsupported format", "format", c.format, "allowed", "csv, json, parquet")
		return subcommands.ExitUsageError
	}

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

	key := cache.Key{SegmentID: segment, Level: a.Config.Level, Format: a.Config.Format}
	out := c.out
	if out == "" {
		out = defaultOutPath(key, saver)
	}

	s, err := a.Store.GetOrFetch(ctx, key, start, end.AddDate(0, 0, 1), a.Client, nil)
	if err != nil {
		log.Errorw("load failed", "segment", segment, "error", err)
		return subcommands.ExitFailure
	}

	if err := saver.Save(s, out); err != nil {
		log.Errorw("export failed", "path", out, "error", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %d rows to %s\n", s.Len(), out)
	return subcommands.ExitSuccess
}

// defaultOutPath derives the output filename from the cache key, so the
// exported file sits next to its storage unit's naming scheme.
func defaultOutPath(key cache.Key, s export.Saver) string {
	return key.String() + "." + s.Extension()
}
