// Package export writes a traffic series to a file for use outside the
// tool. The CLI injects the implementation; callers depend only on the
// Saver interface.
package export

import (
	"fmt"
	"strings"

	"github.com/olane/telraam-analyser/internal/series"
)

// Saver writes a series to a file in one output format.
type Saver interface {
	Save(s series.Series, path string) error
	Extension() string
}

// NewSaver creates an implementation by format (csv, json, parquet).
// Returns nil if the format is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// MustSaver is NewSaver but panics on an unsupported format.
func MustSaver(format string) Saver {
	s := NewSaver(format)
	if s == nil {
		panic(fmt.Sprintf("export: unsupported format %q (use: csv, json, parquet)", format))
	}
	return s
}
