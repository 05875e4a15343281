package fuzzy

import (
	"math"

	"github.com/montanaflynn/stats"

	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
)

// Volatility labels prices by their coefficient of variation
// (population std / mean).
func (c *Categorizer) Volatility(prices []float64) fz.Volatility {
	m, err := stats.Mean(prices)
	if err != nil || m == 0 {
		return fz.VolatilityLow
	}
	sd, err := stats.StandardDeviationPopulation(prices)
	if err != nil {
		return fz.VolatilityLow
	}
	cv := sd / math.Abs(m)
	switch {
	case cv > c.cfg.Volatility.High:
		return fz.VolatilityHigh
	case cv > c.cfg.Volatility.Moderate:
		return fz.VolatilityModerate
	default:
		return fz.VolatilityLow
	}
}

// PeakPattern compares mean price in peak hours with the rest. It returns
// nil when either group is empty or the off-peak mean is zero.
func (c *Categorizer) PeakPattern(records []series.Record) *fz.PeakPattern {
	if len(records) == 0 {
		return nil
	}
	var peak, offPeak []float64
	for _, r := range records {
		if c.peakHours[r.Timestamp.Hour()] {
			peak = append(peak, r.Price)
		} else {
			offPeak = append(offPeak, r.Price)
		}
	}
	if len(peak) == 0 || len(offPeak) == 0 {
		return nil
	}
	peakMean, _ := stats.Mean(peak)
	offMean, _ := stats.Mean(offPeak)
	if offMean == 0 {
		return nil
	}

	premium := (peakMean - offMean) / offMean * 100
	label := "minimal"
	switch {
	case premium > c.cfg.PeakPremium.Significant:
		label = "significant"
	case premium > c.cfg.PeakPremium.Moderate:
		label = "moderate"
	}
	hour := records[len(records)-1].Timestamp.Hour()
	return &fz.PeakPattern{
		PeakPremiumPct: premium,
		PeakPricing:    label,
		PeakMean:       peakMean,
		OffPeakMean:    offMean,
		CurrentHour:    hour,
		IsPeakHour:     c.peakHours[hour],
	}
}

// AssessModel reads test metrics linguistically. MAE is expressed as a
// percentage of the target mean's magnitude; with a zero mean there is no
// percentage and ErrorDescription stays empty.
func (c *Categorizer) AssessModel(metrics model.Metrics, targetMean float64) fz.ModelAssessment {
	r2, mae := metrics.Test.R2, metrics.Test.MAE

	category := "poor"
	switch {
	case r2 > 0.9:
		category = "excellent"
	case r2 > 0.75:
		category = "good"
	case r2 > 0.5:
		category = "moderate"
	}

	var maePct float64
	var errDesc string
	if base := math.Abs(targetMean); base > 0 {
		maePct = mae / base * 100
		errDesc = "significant deviations"
		switch {
		case maePct < 5:
			errDesc = "minimal deviations"
		case maePct < 10:
			errDesc = "small deviations"
		case maePct < 20:
			errDesc = "moderate deviations"
		}
	}

	reliability := "low"
	switch {
	case r2 > 0.8:
		reliability = "high"
	case r2 > 0.6:
		reliability = "medium"
	}

	return fz.ModelAssessment{
		R2:               r2,
		MAE:              mae,
		Category:         category,
		MAEPercentage:    maePct,
		ErrorDescription: errDesc,
		Reliability:      reliability,
	}
}
