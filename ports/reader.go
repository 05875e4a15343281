package ports

import (
	"context"
	"io"

	"energyexplain/domain/series"
)

// RecordReader parses an uploaded file into validated time-series records.
// Implementations live at the ingestion boundary; the core only ever sees
// the returned records.
type RecordReader interface {
	ReadRecords(ctx context.Context, r io.Reader, filename string) ([]series.Record, error)
}
