package config

import (
	"fmt"
	"math"
	"time"

	"energyexplain/domain/fuzzy"
	"energyexplain/domain/model"
	"energyexplain/internal/errors"
)

// Pipeline carries every tunable the explainability core consumes. It is
// injected into each component at construction.
type Pipeline struct {
	Features FeatureConfig
	Training TrainingConfig
	Fuzzy    FuzzyConfig
	Drivers  DriverConfig
}

// FeatureConfig controls feature engineering.
type FeatureConfig struct {
	PeakHours         []int          // hour of day, 0-23
	OffPeakHours      []int          // hour of day, 0-23
	BusinessStartHour int            // inclusive
	BusinessEndHour   int            // inclusive
	BusinessDays      []time.Weekday // days counted as business days
	RollingWindow     int            // samples, including the current one
	Lags              []int          // samples back, emitted in this order
	RatioOffset       float64        // added to consumption in price_demand_ratio
}

// TrainingConfig controls the model fit.
type TrainingConfig struct {
	Target        model.Target
	TestFraction  float64 // share of rows held out, in (0,1)
	Seed          int64
	SampleCount   int     // prediction samples in the summary
	RankTolerance float64 // relative singular value cutoff; 0 selects eps*max(n,p)
	// ExcludeTargetDerived drops columns computed from the target's
	// current value, such as consumption itself when predicting consumption.
	ExcludeTargetDerived bool
}

// TrendConfig sets the trend window and percentage-change cutoffs.
type TrendConfig struct {
	Lookback  int     // samples per window; 0 compares halves
	StablePct float64 // |change| below this is stable
	RapidPct  float64 // |change| above this is rapid
}

// CorrelationConfig sets |r| cutoffs.
type CorrelationConfig struct {
	Strong   float64
	Moderate float64
}

// VolatilityConfig sets coefficient-of-variation cutoffs.
type VolatilityConfig struct {
	High     float64
	Moderate float64
}

// PeakPremiumConfig sets peak-over-off-peak premium cutoffs in percent.
type PeakPremiumConfig struct {
	Significant float64
	Moderate    float64
}

// FuzzyConfig controls linguistic categorization.
type FuzzyConfig struct {
	Price       fuzzy.Thresholds
	Consumption fuzzy.Thresholds
	Trend       TrendConfig
	Correlation CorrelationConfig
	Volatility  VolatilityConfig
	PeakPremium PeakPremiumConfig
}

// Band is a pair of deviation thresholds; exceeding High yields a high
// impact driver, exceeding Moderate a moderate one.
type Band struct {
	Moderate float64
	High     float64
}

// DriverConfig holds the reason-extractor rule thresholds.
type DriverConfig struct {
	PriceDeviation Band // percent vs recent mean
	LoadDeviation  Band // percent vs recent mean
	Volatility     Band // (max-min)/|mean|
	Capacity       Band // latest load as percent of recent max
	// Window is the trailing span the market context aggregates; 0 uses
	// the whole snapshot.
	Window time.Duration
}

// DefaultPipeline returns the standard parameter set.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Features: FeatureConfig{
			PeakHours:         []int{7, 8, 9, 18, 19, 20, 21},
			OffPeakHours:      []int{1, 2, 3, 4, 5},
			BusinessStartHour: 9,
			BusinessEndHour:   17,
			BusinessDays:      append([]time.Weekday(nil), weekdays...),
			RollingWindow:     24,
			Lags:              []int{1, 24},
			RatioOffset:       1,
		},
		Training: TrainingConfig{
			Target:       model.TargetPrice,
			TestFraction: 0.2,
			Seed:         42,
			SampleCount:  10,
		},
		Fuzzy: FuzzyConfig{
			Price:       fuzzy.Thresholds{Low: 30, ModerateLow: 50, ModerateHigh: 75, High: 100},
			Consumption: fuzzy.Thresholds{Low: 400, ModerateLow: 500, ModerateHigh: 600, High: 700},
			Trend:       TrendConfig{Lookback: 0, StablePct: 2, RapidPct: 8},
			Correlation: CorrelationConfig{Strong: 0.7, Moderate: 0.4},
			Volatility:  VolatilityConfig{High: 0.15, Moderate: 0.08},
			PeakPremium: PeakPremiumConfig{Significant: 15, Moderate: 5},
		},
		Drivers: DriverConfig{
			PriceDeviation: Band{Moderate: 10, High: 20},
			LoadDeviation:  Band{Moderate: 5, High: 15},
			Volatility:     Band{Moderate: 0.5, High: 1.0},
			Capacity:       Band{Moderate: 85, High: 90},
			Window:         48 * time.Hour,
		},
	}
}

// Validate rejects parameter sets the pipeline cannot run with.
func (p Pipeline) Validate() error {
	if err := p.Features.Validate(); err != nil {
		return err
	}
	if err := p.Training.Validate(); err != nil {
		return err
	}
	if err := p.Fuzzy.Validate(); err != nil {
		return err
	}
	return p.Drivers.Validate()
}

// Validate checks hour ranges, window size and lags.
func (f FeatureConfig) Validate() error {
	for _, set := range []struct {
		name  string
		hours []int
	}{{"peak hours", f.PeakHours}, {"off-peak hours", f.OffPeakHours}} {
		for _, h := range set.hours {
			if h < 0 || h > 23 {
				return errors.ConfigInvalid(fmt.Sprintf("%s: hour %d outside 0-23", set.name, h))
			}
		}
	}
	if f.BusinessStartHour < 0 || f.BusinessEndHour > 23 || f.BusinessStartHour > f.BusinessEndHour {
		return errors.ConfigInvalid(fmt.Sprintf("business hours %d-%d invalid", f.BusinessStartHour, f.BusinessEndHour))
	}
	for _, d := range f.BusinessDays {
		if d < time.Sunday || d > time.Saturday {
			return errors.ConfigInvalid(fmt.Sprintf("business day %d outside 0-6", d))
		}
	}
	if f.RollingWindow < 2 {
		return errors.ConfigInvalid(fmt.Sprintf("rolling window %d must be at least 2", f.RollingWindow))
	}
	seen := make(map[int]bool, len(f.Lags))
	for _, lag := range f.Lags {
		if lag < 1 {
			return errors.ConfigInvalid(fmt.Sprintf("lag %d must be positive", lag))
		}
		if seen[lag] {
			return errors.ConfigInvalid(fmt.Sprintf("lag %d listed twice", lag))
		}
		seen[lag] = true
	}
	if !(f.RatioOffset > 0) || math.IsInf(f.RatioOffset, 0) {
		return errors.ConfigInvalid("ratio offset must be a positive finite number")
	}
	return nil
}

// Validate checks the target and split parameters.
func (t TrainingConfig) Validate() error {
	if t.Target != model.TargetPrice && t.Target != model.TargetConsumption {
		return errors.ConfigInvalid(fmt.Sprintf("unknown target %q", t.Target))
	}
	if !(t.TestFraction > 0 && t.TestFraction < 1) {
		return errors.ConfigInvalid(fmt.Sprintf("test fraction %v outside (0,1)", t.TestFraction))
	}
	if t.SampleCount < 0 {
		return errors.ConfigInvalid("sample count must not be negative")
	}
	if t.RankTolerance < 0 || t.RankTolerance >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("rank tolerance %v outside [0,1)", t.RankTolerance))
	}
	return nil
}

// Validate checks thresholds and cutoffs for ordering.
func (f FuzzyConfig) Validate() error {
	if err := f.Price.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("price thresholds: %w", err))
	}
	if err := f.Consumption.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("consumption thresholds: %w", err))
	}
	if f.Trend.Lookback < 0 {
		return errors.ConfigInvalid("trend lookback must not be negative")
	}
	if !(f.Trend.StablePct > 0 && f.Trend.StablePct < f.Trend.RapidPct) {
		return errors.ConfigInvalid("trend cutoffs must satisfy 0 < stable < rapid")
	}
	if !(f.Correlation.Moderate > 0 && f.Correlation.Moderate < f.Correlation.Strong && f.Correlation.Strong <= 1) {
		return errors.ConfigInvalid("correlation cutoffs must satisfy 0 < moderate < strong <= 1")
	}
	if !(f.Volatility.Moderate > 0 && f.Volatility.Moderate < f.Volatility.High) {
		return errors.ConfigInvalid("volatility cutoffs must satisfy 0 < moderate < high")
	}
	if !(f.PeakPremium.Moderate > 0 && f.PeakPremium.Moderate < f.PeakPremium.Significant) {
		return errors.ConfigInvalid("peak premium cutoffs must satisfy 0 < moderate < significant")
	}
	return nil
}

// Validate checks that every band is positive and ordered.
func (d DriverConfig) Validate() error {
	if d.Window < 0 {
		return errors.ConfigInvalid("market window must not be negative")
	}
	for _, b := range []struct {
		name string
		band Band
	}{
		{"price deviation", d.PriceDeviation},
		{"load deviation", d.LoadDeviation},
		{"volatility", d.Volatility},
		{"capacity", d.Capacity},
	} {
		if !(b.band.Moderate > 0 && b.band.Moderate < b.band.High) {
			return errors.ConfigInvalid(fmt.Sprintf("%s band must satisfy 0 < moderate < high", b.name))
		}
	}
	return nil
}
