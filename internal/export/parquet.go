package export

import (
	"github.com/parquet-go/parquet-go"

	"github.com/olane/telraam-analyser/internal/series"
)

// ParquetSaver writes the series in the same columnar layout the cache
// uses.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(s series.Series, path string) error {
	return parquet.WriteFile(path, []series.Record(s))
}
