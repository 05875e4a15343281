package fuzzy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"energyexplain/domain/core"
	fz "energyexplain/domain/fuzzy"
)

// Correlate computes the Pearson coefficient between prices and
// consumption. It fails when the coefficient is undefined: fewer than two
// samples, mismatched lengths or a series with zero variance.
func (c *Categorizer) Correlate(prices, consumption []float64) (fz.Correlation, error) {
	const metric = "correlation"
	if len(prices) != len(consumption) {
		return fz.Correlation{}, core.NewFuzzyError(metric, fmt.Sprintf("series lengths differ (%d vs %d)", len(prices), len(consumption)))
	}
	if len(prices) < 2 {
		return fz.Correlation{}, core.NewFuzzyError(metric, fmt.Sprintf("need at least 2 samples, got %d", len(prices)))
	}
	if stat.Variance(prices, nil) == 0 {
		return fz.Correlation{}, core.NewFuzzyError(metric, "price series has zero variance")
	}
	if stat.Variance(consumption, nil) == 0 {
		return fz.Correlation{}, core.NewFuzzyError(metric, "consumption series has zero variance")
	}

	r := stat.Correlation(prices, consumption, nil)
	if math.IsNaN(r) {
		return fz.Correlation{}, core.NewFuzzyError(metric, "coefficient is not a number")
	}

	strength := c.strength(r)
	direction := fz.NoSign
	switch {
	case r > 0:
		direction = fz.Positive
	case r < 0:
		direction = fz.Negative
	}
	return fz.Correlation{
		Defined:        true,
		Value:          r,
		Strength:       strength,
		Direction:      direction,
		Interpretation: interpretCorrelation(strength, direction),
	}, nil
}

func (c *Categorizer) strength(r float64) fz.Strength {
	abs := math.Abs(r)
	switch {
	case abs >= c.cfg.Correlation.Strong:
		return fz.Strong
	case abs >= c.cfg.Correlation.Moderate:
		return fz.ModerateCorr
	default:
		return fz.Weak
	}
}

func interpretCorrelation(s fz.Strength, d fz.Direction) string {
	switch s {
	case fz.Strong:
		if d == fz.Negative {
			return "Strong negative correlation: prices fall as demand rises"
		}
		return "Strong positive correlation: price heavily influenced by demand"
	case fz.ModerateCorr:
		if d == fz.Negative {
			return "Moderate negative correlation: prices partly move against demand"
		}
		return "Moderate positive correlation: price partially driven by demand"
	default:
		return "Weak correlation: other factors may dominate pricing"
	}
}
