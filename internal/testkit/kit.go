package testkit

import (
	"time"

	"energyexplain/domain/series"
)

// Epoch is the first timestamp of every fixture series
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Records builds hourly records from parallel consumption and price slices.
// prices may be nil, in which case every price is 50.
func Records(consumption, prices []float64) []series.Record {
	records := make([]series.Record, len(consumption))
	for i, c := range consumption {
		p := 50.0
		if prices != nil {
			p = prices[i]
		}
		records[i] = series.Record{
			Timestamp:   Epoch.Add(time.Duration(i) * time.Hour),
			Consumption: c,
			Price:       p,
		}
	}
	return records
}

// Hourly returns n generated records with the default generator and the given seed
func Hourly(n int, seed int64) []series.Record {
	cfg := DefaultEnergyConfig()
	cfg.Count = n
	cfg.Seed = seed
	return NewEnergyDataGenerator(cfg).Generate()
}

// Snapshot builds a validated snapshot or panics; for fixtures only
func Snapshot(country string, records []series.Record) *series.Snapshot {
	snap, err := series.NewSnapshot(country, records)
	if err != nil {
		panic(err)
	}
	return snap
}
