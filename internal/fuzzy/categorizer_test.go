package fuzzy

import (
	"math"
	"testing"

	"energyexplain/domain/core"
	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/model"
	"energyexplain/internal/config"
	"energyexplain/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var priceThresholds = fz.Thresholds{Low: 30, ModerateLow: 50, ModerateHigh: 75, High: 100}

func newCategorizer(t *testing.T) *Categorizer {
	t.Helper()
	cfg := config.DefaultPipeline()
	c, err := NewCategorizer(cfg.Fuzzy, cfg.Features.PeakHours, nil)
	require.NoError(t, err)
	return c
}

func TestAnalyzeCategoryScenarios(t *testing.T) {
	c := newCategorizer(t)
	cases := []struct {
		current float64
		want    fz.Category
	}{
		{82, fz.High},
		{30, fz.Low},
		{101, fz.VeryHigh},
		{29.999, fz.VeryLow},
		{50, fz.Moderate},
		{75, fz.High},
		{100, fz.VeryHigh},
		{-5, fz.VeryLow},
	}
	for _, tc := range cases {
		a, err := c.Analyze([]float64{60, tc.current}, MetricPrice, priceThresholds)
		require.NoError(t, err)
		assert.Equal(t, tc.want, a.Category, "value %v", tc.current)
		assert.Equal(t, tc.want.Linguistic(), a.Linguistic)
	}
}

func TestBandsPartitionTheLine(t *testing.T) {
	for v := -10.0; v <= 120; v += 0.25 {
		matches := 0
		cat := priceThresholds.Categorize(v)
		for _, candidate := range fz.Categories {
			if candidate == cat {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "value %v", v)
	}
}

func TestAnalyzeTooFewSamples(t *testing.T) {
	c := newCategorizer(t)

	_, err := c.Analyze(nil, MetricPrice, priceThresholds)
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)

	_, err = c.Analyze([]float64{42}, MetricPrice, priceThresholds)
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)
	assert.True(t, core.IsFuzzyError(err))
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	c := newCategorizer(t)

	_, err := c.Analyze([]float64{1, math.NaN()}, MetricPrice, priceThresholds)
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)

	_, err = c.Analyze([]float64{1, 2}, MetricPrice, fz.Thresholds{Low: 5, ModerateLow: 4, ModerateHigh: 6, High: 7})
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)
}

func TestAnalyzePercentageAndMean(t *testing.T) {
	c := newCategorizer(t)
	a, err := c.Analyze([]float64{80, 90, 20, 85}, MetricPrice, priceThresholds)
	require.NoError(t, err)

	assert.Equal(t, fz.High, a.Category)
	assert.InDelta(t, 75.0, a.Percentage, 1e-12)
	assert.InDelta(t, 68.75, a.Mean, 1e-12)
	assert.Equal(t, 85.0, a.Current)
}

func TestTrendClassification(t *testing.T) {
	c := newCategorizer(t)

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	trend, delta := c.Trend(rising)
	assert.True(t, trend.IsRising())
	assert.Greater(t, delta, 0.0)

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	trend, _ = c.Trend(falling)
	assert.True(t, trend.IsFalling())

	trend, delta = c.Trend([]float64{7, 7, 7, 7, 7})
	assert.Equal(t, fz.Stable, trend)
	assert.Equal(t, 0.0, delta)

	trend, delta = c.Trend([]float64{0, 0, 0, 0})
	assert.Equal(t, fz.Stable, trend)
	assert.Equal(t, 0.0, delta)

	trend, delta = c.Trend([]float64{0, 0, 1, 1})
	assert.Equal(t, fz.RisingRapidly, trend)
	assert.True(t, math.IsInf(delta, 1))
}

func TestClassifyTrendBoundariesAreSymmetric(t *testing.T) {
	cases := []struct {
		delta float64
		want  fz.Trend
	}{
		{0, fz.Stable},
		{1.99, fz.Stable},
		{-1.99, fz.Stable},
		{2, fz.Rising},
		{-2, fz.Falling},
		{8, fz.Rising},
		{-8, fz.Falling},
		{8.01, fz.RisingRapidly},
		{-8.01, fz.FallingRapidly},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyTrend(tc.delta, 2, 8), "delta %v", tc.delta)
	}
}

func TestTrendLookbackWindow(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.Fuzzy.Trend.Lookback = 2
	c, err := NewCategorizer(cfg.Fuzzy, cfg.Features.PeakHours, nil)
	require.NoError(t, err)

	// halves would read a large rise; the last two windows are flat
	trend, delta := c.Trend([]float64{1, 1, 1, 1, 50, 50, 50, 50})
	assert.Equal(t, fz.Stable, trend)
	assert.Equal(t, 0.0, delta)

	// 2*lookback > n falls back to halves
	trend, _ = c.Trend([]float64{10, 20, 30})
	assert.True(t, trend.IsRising())
}

func TestCorrelationPerfectLinear(t *testing.T) {
	c := newCategorizer(t)
	consumption := []float64{10, 20, 15, 40, 35, 60}
	positive := make([]float64, len(consumption))
	negative := make([]float64, len(consumption))
	for i, v := range consumption {
		positive[i] = 2.5 * v
		negative[i] = -2.5 * v
	}

	corr, err := c.Correlate(positive, consumption)
	require.NoError(t, err)
	assert.True(t, corr.Defined)
	assert.InDelta(t, 1.0, corr.Value, 1e-12)
	assert.Equal(t, fz.Strong, corr.Strength)
	assert.Equal(t, fz.Positive, corr.Direction)

	corr, err = c.Correlate(negative, consumption)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, corr.Value, 1e-12)
	assert.Equal(t, fz.Strong, corr.Strength)
	assert.Equal(t, fz.Negative, corr.Direction)
}

func TestCorrelationStrengthBuckets(t *testing.T) {
	c := newCategorizer(t)
	assert.Equal(t, fz.Strong, c.strength(0.7))
	assert.Equal(t, fz.Strong, c.strength(-0.95))
	assert.Equal(t, fz.ModerateCorr, c.strength(0.4))
	assert.Equal(t, fz.ModerateCorr, c.strength(-0.69))
	assert.Equal(t, fz.Weak, c.strength(0.39))
	assert.Equal(t, fz.Weak, c.strength(0))
}

func TestCorrelationUndefined(t *testing.T) {
	c := newCategorizer(t)

	_, err := c.Correlate([]float64{1, 2, 3}, []float64{5, 5, 5})
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)

	_, err = c.Correlate([]float64{1}, []float64{2})
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)

	_, err = c.Correlate([]float64{1, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrFuzzyAnalysis)
}

func TestAnalyzeSnapshotReportsUndefinedCorrelation(t *testing.T) {
	c := newCategorizer(t)
	records := testkit.Records([]float64{400, 450, 500, 550}, []float64{60, 60, 60, 60})

	a, err := c.AnalyzeSnapshot(records, nil)
	require.NoError(t, err)
	assert.False(t, a.Correlation.Defined)
	assert.NotEmpty(t, a.Correlation.Reason)
	assert.Equal(t, fz.Moderate, a.Price.Category)
	assert.Equal(t, fz.Moderate, a.Consumption.Category)
	assert.Nil(t, a.Model)
}

func TestAnalyzeSnapshotWithModel(t *testing.T) {
	cfg := config.DefaultPipeline()
	c := newCategorizer(t)
	records := testkit.Hourly(168, 42)

	m := model.NewTrainedModel(model.Params{
		Target:  model.TargetPrice,
		Metrics: model.Metrics{Test: model.PartitionMetrics{R2: 0.92, MAE: 2}},
	})
	a, err := c.AnalyzeSnapshot(records, m)
	require.NoError(t, err)

	require.NotNil(t, a.Model)
	assert.Equal(t, "excellent", a.Model.Category)
	assert.Equal(t, "high", a.Model.Reliability)
	assert.Equal(t, "minimal deviations", a.Model.ErrorDescription)
	require.NotNil(t, a.Patterns)
	assert.Greater(t, a.Patterns.PeakPremiumPct, cfg.Fuzzy.PeakPremium.Moderate)
	assert.True(t, a.Correlation.Defined)
	assert.Equal(t, fz.Positive, a.Correlation.Direction)
}

func TestVolatility(t *testing.T) {
	c := newCategorizer(t)
	assert.Equal(t, fz.VolatilityLow, c.Volatility([]float64{100, 101, 99, 100}))
	assert.Equal(t, fz.VolatilityModerate, c.Volatility([]float64{90, 110, 90, 110}))
	assert.Equal(t, fz.VolatilityHigh, c.Volatility([]float64{50, 150, 50, 150}))
	assert.Equal(t, fz.VolatilityLow, c.Volatility([]float64{0, 0}))
}

func TestAssessModelBands(t *testing.T) {
	c := newCategorizer(t)
	cases := []struct {
		r2, mae           float64
		category, errDesc string
		reliability       string
	}{
		{0.95, 1, "excellent", "minimal deviations", "high"},
		{0.8, 6, "good", "small deviations", "medium"},
		{0.6, 15, "moderate", "moderate deviations", "low"},
		{0.2, 30, "poor", "significant deviations", "low"},
	}
	for _, tc := range cases {
		a := c.AssessModel(model.Metrics{Test: model.PartitionMetrics{R2: tc.r2, MAE: tc.mae}}, 100)
		assert.Equal(t, tc.category, a.Category)
		assert.Equal(t, tc.errDesc, a.ErrorDescription)
		assert.Equal(t, tc.reliability, a.Reliability)
		assert.InDelta(t, tc.mae, a.MAEPercentage, 1e-12)
	}
}

func TestAssessModelNonPositiveMean(t *testing.T) {
	c := newCategorizer(t)
	metrics := model.Metrics{Test: model.PartitionMetrics{R2: 0.8, MAE: 15}}

	negative := c.AssessModel(metrics, -100)
	assert.InDelta(t, 15, negative.MAEPercentage, 1e-12)
	assert.Equal(t, "moderate deviations", negative.ErrorDescription)

	zero := c.AssessModel(metrics, 0)
	assert.Zero(t, zero.MAEPercentage)
	assert.Empty(t, zero.ErrorDescription)
	assert.Equal(t, "good", zero.Category)
}

func TestPeakPatternNeedsBothGroups(t *testing.T) {
	c := newCategorizer(t)
	// hours 0..5 are all off-peak
	records := testkit.Records([]float64{1, 2, 3, 4, 5, 6}, nil)
	assert.Nil(t, c.PeakPattern(records))
	assert.Nil(t, c.PeakPattern(nil))
}
