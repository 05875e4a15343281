package fuzzy

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"energyexplain/domain/core"
	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/config"
)

// Metric names used in assignments and errors.
const (
	MetricPrice       = "price"
	MetricConsumption = "consumption"
)

// Categorizer maps numeric series to linguistic categories and trends.
// It holds only configuration.
type Categorizer struct {
	cfg       config.FuzzyConfig
	peakHours [24]bool
	logger    *internal.Logger
}

// NewCategorizer validates cfg. peakHours feed the time-of-use pattern.
func NewCategorizer(cfg config.FuzzyConfig, peakHours []int, logger *internal.Logger) (*Categorizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Categorizer{cfg: cfg, logger: internal.OrDefault(logger)}
	for _, h := range peakHours {
		if h < 0 || h > 23 {
			return nil, core.NewValidationError("peak hours", fmt.Sprintf("hour %d outside 0-23", h))
		}
		c.peakHours[h] = true
	}
	return c, nil
}

// Analyze categorizes the latest sample of values against thresholds.
// Percentage is the share of all samples falling in the same band.
func (c *Categorizer) Analyze(values []float64, metric string, thresholds fz.Thresholds) (fz.Assignment, error) {
	if len(values) < 2 {
		return fz.Assignment{}, core.NewFuzzyError(metric, fmt.Sprintf("need at least 2 samples, got %d", len(values)))
	}
	if err := thresholds.Validate(); err != nil {
		return fz.Assignment{}, core.NewFuzzyError(metric, err.Error())
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fz.Assignment{}, core.NewFuzzyError(metric, fmt.Sprintf("sample %d is not finite", i))
		}
	}

	current := values[len(values)-1]
	category := thresholds.Categorize(current)
	same := 0
	for _, v := range values {
		if thresholds.Categorize(v) == category {
			same++
		}
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return fz.Assignment{}, core.NewFuzzyError(metric, err.Error())
	}
	trend, delta := c.Trend(values)

	return fz.Assignment{
		Metric:     metric,
		Current:    current,
		Mean:       mean,
		Category:   category,
		Linguistic: category.Linguistic(),
		Trend:      trend,
		TrendPct:   delta,
		Percentage: float64(same) / float64(len(values)) * 100,
	}, nil
}

// AnalyzeSnapshot runs the full linguistic analysis of a record set. An
// undefined correlation is reported in the result, not as an error.
// m may be nil when no model has been trained.
func (c *Categorizer) AnalyzeSnapshot(records []series.Record, m *model.TrainedModel) (fz.Analysis, error) {
	prices := series.Prices(records)
	consumption := series.Consumption(records)

	price, err := c.Analyze(prices, MetricPrice, c.cfg.Price)
	if err != nil {
		return fz.Analysis{}, err
	}
	cons, err := c.Analyze(consumption, MetricConsumption, c.cfg.Consumption)
	if err != nil {
		return fz.Analysis{}, err
	}

	corr, err := c.Correlate(prices, consumption)
	if err != nil {
		corr = fz.Correlation{
			Defined:        false,
			Interpretation: "correlation undefined for this window",
			Reason:         err.Error(),
		}
	}

	analysis := fz.Analysis{
		Price:       price,
		Consumption: cons,
		Correlation: corr,
		Volatility:  c.Volatility(prices),
		Patterns:    c.PeakPattern(records),
	}
	if m != nil {
		targetMean := price.Mean
		if m.Target() == model.TargetConsumption {
			targetMean = cons.Mean
		}
		assessment := c.AssessModel(m.Metrics(), targetMean)
		analysis.Model = &assessment
	}

	c.logger.Debug("fuzzy analysis: price %s (%s), consumption %s (%s), correlation defined=%t",
		price.Category, price.Trend, cons.Category, cons.Trend, corr.Defined)
	return analysis, nil
}
