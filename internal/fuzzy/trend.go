package fuzzy

import (
	"math"

	fz "energyexplain/domain/fuzzy"
)

// Trend compares the mean of a recent window with the window before it and
// returns the label and the percentage change. With Lookback 0, or when two
// lookback windows do not fit, the series is split into halves.
func (c *Categorizer) Trend(values []float64) (fz.Trend, float64) {
	first, second := trendWindows(values, c.cfg.Trend.Lookback)
	delta := percentChange(mean(first), mean(second))
	return classifyTrend(delta, c.cfg.Trend.StablePct, c.cfg.Trend.RapidPct), delta
}

func trendWindows(values []float64, lookback int) ([]float64, []float64) {
	n := len(values)
	if lookback > 0 && 2*lookback <= n {
		return values[n-2*lookback : n-lookback], values[n-lookback:]
	}
	return values[:n/2], values[n/2:]
}

// percentChange is (to-from)/|from|*100. From zero it is 0 when to is
// also zero and signed infinity otherwise.
func percentChange(from, to float64) float64 {
	if from == 0 {
		switch {
		case to > 0:
			return math.Inf(1)
		case to < 0:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	return (to - from) / math.Abs(from) * 100
}

// classifyTrend applies the cutoffs symmetrically:
// |d| < stable, stable <= |d| <= rapid, |d| > rapid.
func classifyTrend(delta, stable, rapid float64) fz.Trend {
	abs := math.Abs(delta)
	switch {
	case abs < stable:
		return fz.Stable
	case abs <= rapid && delta > 0:
		return fz.Rising
	case abs <= rapid:
		return fz.Falling
	case delta > 0:
		return fz.RisingRapidly
	default:
		return fz.FallingRapidly
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
