package market

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"energyexplain/domain/core"
	"energyexplain/domain/market"
	"energyexplain/domain/series"
)

// Build aggregates records into a market context. Only records newer than
// window before the latest timestamp count; window 0 uses every record.
func Build(country string, records []series.Record, window time.Duration) (market.Context, error) {
	if len(records) == 0 {
		return market.Context{}, core.NewValidationError("records", "empty input")
	}
	latest := records[len(records)-1]
	start := 0
	if window > 0 {
		cutoff := latest.Timestamp.Add(-window)
		for start < len(records)-1 && !records[start].Timestamp.After(cutoff) {
			start++
		}
	}
	recent := records[start:]

	price, err := aggregate(series.Prices(recent))
	if err != nil {
		return market.Context{}, err
	}
	load, err := aggregate(series.Consumption(recent))
	if err != nil {
		return market.Context{}, err
	}
	return market.Context{
		Country: country,
		AsOf:    latest.Timestamp,
		Price:   price,
		Load:    load,
		Samples: len(recent),
	}, nil
}

func aggregate(values []float64) (market.Stats, error) {
	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return market.Stats{}, core.NewValidationError("market", err.Error())
	}
	hi, _ := data.Max()
	lo, _ := data.Min()
	return market.Stats{Latest: values[len(values)-1], Mean: mean, Max: hi, Min: lo}, nil
}

// SnapshotSource derives the market context from the uploaded snapshot
// itself. It satisfies ports.MarketDataSource.
type SnapshotSource struct {
	window time.Duration
}

// NewSnapshotSource creates a source aggregating over window.
func NewSnapshotSource(window time.Duration) *SnapshotSource {
	return &SnapshotSource{window: window}
}

// MarketContext aggregates the snapshot's trailing window.
func (s *SnapshotSource) MarketContext(ctx context.Context, snapshot *series.Snapshot) (market.Context, error) {
	if err := ctx.Err(); err != nil {
		return market.Context{}, err
	}
	return Build(snapshot.Country(), snapshot.Records(), s.window)
}
