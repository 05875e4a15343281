package narrative

import (
	"math"
	"strings"
	"testing"

	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() Input {
	return Input{
		Analysis: fz.Analysis{
			Price: fz.Assignment{
				Metric: "price", Current: 82, Mean: 60, Category: fz.High,
				Linguistic: fz.High.Linguistic(), Trend: fz.Rising, TrendPct: 6.5, Percentage: 25,
			},
			Consumption: fz.Assignment{
				Metric: "consumption", Current: 120, Mean: 150, Category: fz.Low,
				Linguistic: fz.Low.Linguistic(), Trend: fz.Stable, Percentage: 40,
			},
			Correlation: fz.Correlation{
				Defined: true, Value: 0.82, Strength: fz.Strong, Direction: fz.Positive,
				Interpretation: "Strong positive correlation: price heavily influenced by demand",
			},
			Volatility: fz.VolatilityHigh,
			Patterns:   &fz.PeakPattern{PeakPremiumPct: 22, PeakPricing: "significant"},
			Model: &fz.ModelAssessment{
				R2: 0.91, MAE: 2.1, Category: "excellent", MAEPercentage: 3.5,
				ErrorDescription: "minimal deviations", Reliability: "high",
			},
		},
		Drivers: []market.Driver{
			{Factor: "Above-average price", Description: "Price 36.7% above 48h mean", Impact: market.ImpactHigh},
			{Factor: "High volatility", Description: "Price range spans 60% of mean", Impact: market.ImpactModerate},
		},
		Interpretations: []string{"Evening peak demand period"},
	}
}

func TestGenerateSections(t *testing.T) {
	exp := NewGenerator(false).Generate(sampleInput())

	sections := strings.Split(exp.Text, SectionSeparator)
	require.Len(t, sections, 7)
	assert.True(t, strings.HasPrefix(sections[0], "## Price Analysis"))
	assert.True(t, strings.HasPrefix(sections[1], "## Consumption Analysis"))
	assert.True(t, strings.HasPrefix(sections[2], "## Price–Consumption Relationship"))
	assert.True(t, strings.HasPrefix(sections[3], "## Key Market Drivers"))
	assert.True(t, strings.HasPrefix(sections[4], "## Market Interpretation"))
	assert.True(t, strings.HasPrefix(sections[5], "## Time-of-Use Pattern"))
	assert.True(t, strings.HasPrefix(sections[6], "## Prediction Model"))

	assert.Contains(t, sections[0], "**Energy prices are currently relatively high** (€82.00/MWh vs mean €60.00/MWh)")
	assert.Contains(t, sections[0], "**rising** (+6.5%)")
	assert.Contains(t, sections[0], "volatility is **high**")
	assert.NotContains(t, sections[1], "Demand is")
	assert.Contains(t, sections[2], "r = 0.820")
	assert.Contains(t, sections[2], "Supply constraints")
	assert.Contains(t, sections[3], "1. **Above-average price** (high impact)")
	assert.Contains(t, sections[3], "2. **High volatility** (moderate impact)")
	assert.Contains(t, sections[4], "- Evening peak demand period")
	assert.Contains(t, sections[6], "R² = 0.910")
	assert.Contains(t, sections[6], "with minimal deviations (MAE 3.5% of the mean). Reliability: high")

	assert.Empty(t, exp.HTML)
	assert.Empty(t, string(exp.ID))
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator(true)
	a := g.Generate(sampleInput())
	b := g.Generate(sampleInput())
	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, a.HTML, b.HTML)
}

func TestGenerateColors(t *testing.T) {
	exp := NewGenerator(false).Generate(sampleInput())
	assert.Equal(t, map[string]string{"price": "red", "consumption": "green"}, exp.Colors)

	palette := Palette()
	assert.Len(t, palette, 5)
	assert.Equal(t, "orange", palette[fz.Moderate])
	assert.Equal(t, "red", palette[fz.VeryHigh])
}

func TestGenerateWithoutOptionalSections(t *testing.T) {
	in := sampleInput()
	in.Analysis.Patterns = nil
	in.Analysis.Model = nil
	in.Drivers = nil
	in.Interpretations = nil
	in.Analysis.Correlation = fz.Correlation{Defined: false, Reason: "zero variance in price"}

	exp := NewGenerator(false).Generate(in)
	sections := strings.Split(exp.Text, SectionSeparator)
	require.Len(t, sections, 5)
	assert.Contains(t, exp.Text, "No significant market drivers identified")
	assert.Contains(t, exp.Text, "Correlation is undefined for this window (zero variance in price)")
	assert.NotContains(t, exp.Text, "Prediction Model")
}

func TestGenerateMinimalPeakPatternOmitted(t *testing.T) {
	in := sampleInput()
	in.Analysis.Patterns = &fz.PeakPattern{PeakPremiumPct: 2, PeakPricing: "minimal"}
	exp := NewGenerator(false).Generate(in)
	assert.NotContains(t, exp.Text, "Time-of-Use")
}

func TestGenerateModelWithoutErrorPercentage(t *testing.T) {
	in := sampleInput()
	in.Analysis.Model = &fz.ModelAssessment{R2: 0.7, MAE: 4, Category: "moderate", Reliability: "medium"}

	exp := NewGenerator(false).Generate(in)
	assert.Contains(t, exp.Text, "**Forecasting accuracy is moderate** (R² = 0.700). Reliability: medium")
	assert.NotContains(t, exp.Text, "of the mean")
}

func TestCombinedReading(t *testing.T) {
	assert.Contains(t, combinedReading(fz.VeryHigh, fz.High), "Peak demand period")
	assert.Contains(t, combinedReading(fz.VeryLow, fz.VeryLow), "Off-peak/baseload period")
	assert.Contains(t, combinedReading(fz.Low, fz.VeryHigh), "Renewable energy surplus")
	assert.Empty(t, combinedReading(fz.Moderate, fz.Moderate))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "+5.0%", formatChange(5))
	assert.Equal(t, "-12.3%", formatChange(-12.34))
	assert.Equal(t, "up from zero", formatChange(math.Inf(1)))
	assert.Equal(t, "down from zero", formatChange(math.Inf(-1)))
}

func TestToHTML(t *testing.T) {
	out := ToHTML("## Key Market Drivers\n\n1. **High demand** (high impact): load above mean")
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<strong>High demand</strong>")
	assert.Contains(t, out, "<ol>")
}
