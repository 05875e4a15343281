package testkit

import (
	"math"
	"math/rand"
	"time"

	"energyexplain/domain/series"
)

// EnergyGeneratorConfig configures the synthetic hourly energy series
type EnergyGeneratorConfig struct {
	Start            time.Time     `json:"start"`
	Count            int           `json:"count"`
	Interval         time.Duration `json:"interval"`
	BaseConsumption  float64       `json:"base_consumption"`
	ConsumptionNoise float64       `json:"consumption_noise"`
	MinConsumption   float64       `json:"min_consumption"`
	BasePrice        float64       `json:"base_price"`
	PricePerUnit     float64       `json:"price_per_unit"`
	PeakPremium      float64       `json:"peak_premium"`
	PriceNoise       float64       `json:"price_noise"`
	MinPrice         float64       `json:"min_price"`
	Seed             int64         `json:"seed"`
}

// DefaultEnergyConfig returns one week of hourly data starting 2024-10-01
func DefaultEnergyConfig() EnergyGeneratorConfig {
	return EnergyGeneratorConfig{
		Start:            time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		Count:            168,
		Interval:         time.Hour,
		BaseConsumption:  50,
		ConsumptionNoise: 5,
		MinConsumption:   20,
		BasePrice:        50,
		PricePerUnit:     0.5,
		PeakPremium:      20,
		PriceNoise:       5,
		MinPrice:         20,
		Seed:             42,
	}
}

// EnergyDataGenerator generates consumption with daily and weekly cycles and
// prices that follow consumption plus a peak-hour premium
type EnergyDataGenerator struct {
	config EnergyGeneratorConfig
	rng    *rand.Rand
}

// NewEnergyDataGenerator creates a new generator; equal seeds give equal output
func NewEnergyDataGenerator(config EnergyGeneratorConfig) *EnergyDataGenerator {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	return &EnergyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces Count records in strictly increasing time order
func (g *EnergyDataGenerator) Generate() []series.Record {
	records := make([]series.Record, g.config.Count)
	for i := range records {
		ts := g.config.Start.Add(time.Duration(i) * g.config.Interval)
		consumption := g.consumptionAt(ts)
		records[i] = series.Record{
			Timestamp:   ts,
			Consumption: consumption,
			Price:       g.priceAt(ts, consumption),
		}
	}
	return records
}

func (g *EnergyDataGenerator) consumptionAt(ts time.Time) float64 {
	hour := ts.Hour()

	hourly := 0.7
	if hour >= 6 && hour <= 22 {
		hourly = 1.3 + 0.3*math.Sin(float64(hour-6)*math.Pi/16)
	}

	weekly := 1.0
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		weekly = 0.85
	}

	value := g.config.BaseConsumption*hourly*weekly + g.rng.NormFloat64()*g.config.ConsumptionNoise
	return math.Max(g.config.MinConsumption, value)
}

func (g *EnergyDataGenerator) priceAt(ts time.Time, consumption float64) float64 {
	hour := ts.Hour()
	peak := 0.0
	if (hour >= 7 && hour <= 9) || (hour >= 18 && hour <= 21) {
		peak = g.config.PeakPremium
	}
	value := g.config.BasePrice + consumption*g.config.PricePerUnit + peak + g.rng.NormFloat64()*g.config.PriceNoise
	return math.Max(g.config.MinPrice, value)
}
