package fuzzy

import (
	"encoding/json"
	"fmt"
	"math"
)

// Category is one of five ordered linguistic bands.
type Category string

const (
	VeryLow  Category = "very_low"
	Low      Category = "low"
	Moderate Category = "moderate"
	High     Category = "high"
	VeryHigh Category = "very_high"
)

// Categories lists the bands in ascending order.
var Categories = []Category{VeryLow, Low, Moderate, High, VeryHigh}

var linguistic = map[Category]string{
	VeryLow:  "very low",
	Low:      "relatively low",
	Moderate: "moderate",
	High:     "relatively high",
	VeryHigh: "very high",
}

// Linguistic returns the human-readable term for the category.
func (c Category) Linguistic() string {
	if term, ok := linguistic[c]; ok {
		return term
	}
	return "unknown"
}

var colors = map[Category]string{
	VeryLow:  "green",
	Low:      "green",
	Moderate: "orange",
	High:     "red",
	VeryHigh: "red",
}

// Color returns the fixed display colour for the category.
func (c Category) Color() string {
	if color, ok := colors[c]; ok {
		return color
	}
	return "gray"
}

// Trend is a five-way direction label.
type Trend string

const (
	RisingRapidly  Trend = "rising rapidly"
	Rising         Trend = "rising"
	Stable         Trend = "stable"
	Falling        Trend = "falling"
	FallingRapidly Trend = "falling rapidly"
)

// IsRising reports whether the trend is in the rising family.
func (t Trend) IsRising() bool { return t == Rising || t == RisingRapidly }

// IsFalling reports whether the trend is in the falling family.
func (t Trend) IsFalling() bool { return t == Falling || t == FallingRapidly }

// Thresholds are four increasing breakpoints. Bands are half-open and
// lower-inclusive: [-inf,Low) [Low,ModerateLow) [ModerateLow,ModerateHigh)
// [ModerateHigh,High) [High,+inf).
type Thresholds struct {
	Low          float64 `json:"low"`
	ModerateLow  float64 `json:"moderate_low"`
	ModerateHigh float64 `json:"moderate_high"`
	High         float64 `json:"high"`
}

// Validate rejects non-finite or non-increasing breakpoints.
func (t Thresholds) Validate() error {
	points := []float64{t.Low, t.ModerateLow, t.ModerateHigh, t.High}
	for i, p := range points {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("threshold %d is not finite", i)
		}
		if i > 0 && p <= points[i-1] {
			return fmt.Errorf("thresholds must be strictly increasing: %v", points)
		}
	}
	return nil
}

// Categorize selects the band whose lower bound is the greatest value <= v.
func (t Thresholds) Categorize(v float64) Category {
	switch {
	case v < t.Low:
		return VeryLow
	case v < t.ModerateLow:
		return Low
	case v < t.ModerateHigh:
		return Moderate
	case v < t.High:
		return High
	default:
		return VeryHigh
	}
}

// Assignment is the categorization of one metric's current value.
type Assignment struct {
	Metric     string   `json:"metric"`
	Current    float64  `json:"current"`
	Mean       float64  `json:"mean"`
	Category   Category `json:"category"`
	Linguistic string   `json:"linguistic"`
	Trend      Trend    `json:"trend"`
	TrendPct   float64  `json:"trend_pct"`
	Percentage float64  `json:"percentage"`
}

// MarshalJSON writes an infinite TrendPct (change from a zero base) as null.
func (a Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment
	out := struct {
		plain
		TrendPct *float64 `json:"trend_pct"`
	}{plain: plain(a)}
	if !math.IsInf(a.TrendPct, 0) && !math.IsNaN(a.TrendPct) {
		v := a.TrendPct
		out.TrendPct = &v
	}
	return json.Marshal(out)
}

// Strength buckets the magnitude of a correlation coefficient.
type Strength string

const (
	Strong       Strength = "strong"
	ModerateCorr Strength = "moderate"
	Weak         Strength = "weak"
)

// Direction is the sign of a correlation coefficient.
type Direction string

const (
	Positive Direction = "positive"
	Negative Direction = "negative"
	NoSign   Direction = "none"
)

// Correlation is the price-consumption Pearson coefficient and its reading.
// Defined is false when the coefficient does not exist for the window.
type Correlation struct {
	Defined        bool      `json:"defined"`
	Value          float64   `json:"value"`
	Strength       Strength  `json:"strength,omitempty"`
	Direction      Direction `json:"direction,omitempty"`
	Interpretation string    `json:"interpretation"`
	Reason         string    `json:"reason,omitempty"`
}

// Volatility labels the price coefficient of variation.
type Volatility string

const (
	VolatilityHigh     Volatility = "high"
	VolatilityModerate Volatility = "moderate"
	VolatilityLow      Volatility = "low"
)

// PeakPattern summarises the time-of-use price premium.
type PeakPattern struct {
	PeakPremiumPct float64 `json:"peak_premium"`
	PeakPricing    string  `json:"peak_pricing"`
	PeakMean       float64 `json:"peak_price_avg"`
	OffPeakMean    float64 `json:"offpeak_price_avg"`
	CurrentHour    int     `json:"current_hour"`
	IsPeakHour     bool    `json:"is_peak_hour"`
}

// ModelAssessment is the linguistic reading of model test metrics.
type ModelAssessment struct {
	R2               float64 `json:"r2"`
	MAE              float64 `json:"mae"`
	Category         string  `json:"category"`
	MAEPercentage    float64 `json:"mae_percentage"`
	ErrorDescription string  `json:"error_description"`
	Reliability      string  `json:"reliability"`
}

// Analysis is the full linguistic categorization of a snapshot.
type Analysis struct {
	Price       Assignment       `json:"price"`
	Consumption Assignment       `json:"consumption"`
	Correlation Correlation      `json:"correlation"`
	Volatility  Volatility       `json:"volatility"`
	Patterns    *PeakPattern     `json:"patterns,omitempty"`
	Model       *ModelAssessment `json:"model_performance,omitempty"`
}
