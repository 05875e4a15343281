package narrative

import (
	"fmt"
	"math"
	"strings"

	"energyexplain/domain/explanation"
	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/market"
)

// SectionSeparator joins the markdown sections of an explanation.
const SectionSeparator = "\n\n---\n\n"

// Input is everything a linguistic explanation is rendered from.
type Input struct {
	Analysis        fz.Analysis
	Drivers         []market.Driver
	Interpretations []string
}

// Generator renders analyses as markdown and HTML. Output depends only on
// the input: no randomness and no clock.
type Generator struct {
	renderHTML bool
}

// NewGenerator creates a generator; withHTML adds the HTML rendering.
func NewGenerator(withHTML bool) *Generator {
	return &Generator{renderHTML: withHTML}
}

// Palette returns the fixed category to colour table.
func Palette() map[fz.Category]string {
	out := make(map[fz.Category]string, len(fz.Categories))
	for _, c := range fz.Categories {
		out[c] = c.Color()
	}
	return out
}

// Generate assembles the explanation. The returned value has no ID; callers
// that persist or serve it assign one.
func (g *Generator) Generate(in Input) explanation.Explanation {
	a := in.Analysis
	sections := []string{
		priceSection(a),
		consumptionSection(a),
		relationshipSection(a),
		driversSection(in.Drivers),
		interpretationSection(in.Interpretations),
	}
	if s := timeOfUseSection(a.Patterns); s != "" {
		sections = append(sections, s)
	}
	if s := modelSection(a.Model); s != "" {
		sections = append(sections, s)
	}
	text := strings.Join(sections, SectionSeparator)

	exp := explanation.Explanation{
		Text: text,
		Colors: map[string]string{
			"price":       a.Price.Category.Color(),
			"consumption": a.Consumption.Category.Color(),
		},
		Analysis:        a,
		Drivers:         append([]market.Driver(nil), in.Drivers...),
		Interpretations: append([]string(nil), in.Interpretations...),
	}
	if g.renderHTML {
		exp.HTML = ToHTML(text)
	}
	return exp
}

func priceSection(a fz.Analysis) string {
	p := a.Price
	lines := []string{
		"## Price Analysis",
		fmt.Sprintf("**Energy prices are currently %s** (€%.2f/MWh vs mean €%.2f/MWh)", p.Linguistic, p.Current, p.Mean),
		fmt.Sprintf("%.0f%% of recent samples fall in the same %s band", p.Percentage, p.Linguistic),
	}
	if p.Trend != fz.Stable {
		lines = append(lines, fmt.Sprintf("Prices are **%s** (%s) based on recent data", p.Trend, formatChange(p.TrendPct)))
	}
	if a.Volatility == fz.VolatilityHigh {
		lines = append(lines, "Market volatility is **high**, indicating unstable pricing conditions")
	}
	return strings.Join(lines, "\n\n")
}

func consumptionSection(a fz.Analysis) string {
	c := a.Consumption
	lines := []string{
		"## Consumption Analysis",
		fmt.Sprintf("**Energy consumption is %s** (%.2f MW vs mean %.2f MW)", c.Linguistic, c.Current, c.Mean),
		fmt.Sprintf("%.0f%% of recent samples fall in the same %s band", c.Percentage, c.Linguistic),
	}
	if c.Trend != fz.Stable {
		lines = append(lines, fmt.Sprintf("Demand is **%s** (%s) in recent hours", c.Trend, formatChange(c.TrendPct)))
	}
	return strings.Join(lines, "\n\n")
}

func relationshipSection(a fz.Analysis) string {
	lines := []string{"## Price–Consumption Relationship"}
	if a.Correlation.Defined {
		lines = append(lines, fmt.Sprintf("Pearson correlation r = %.3f. %s", a.Correlation.Value, a.Correlation.Interpretation))
	} else {
		lines = append(lines, fmt.Sprintf("Correlation is undefined for this window (%s)", a.Correlation.Reason))
	}
	if s := combinedReading(a.Price.Category, a.Consumption.Category); s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n\n")
}

func combinedReading(price, cons fz.Category) string {
	high := func(c fz.Category) bool { return c == fz.High || c == fz.VeryHigh }
	low := func(c fz.Category) bool { return c == fz.Low || c == fz.VeryLow }
	switch {
	case price == fz.VeryHigh && high(cons):
		return "**Peak demand period**: high consumption combined with elevated prices suggests peak hours or extreme weather driving up demand for heating or cooling"
	case price == fz.VeryLow && cons == fz.VeryLow:
		return "**Off-peak/baseload period**: low demand with abundant renewable generation and nuclear baseload creating surplus capacity and minimal pricing"
	case high(price) && low(cons):
		return "**Supply constraints or fuel scarcity**: elevated prices despite moderate demand suggest generation outages, transmission congestion or high fuel costs"
	case low(price) && high(cons):
		return "**Renewable energy surplus**: high demand met by strong renewable generation keeping prices low despite elevated consumption"
	}
	return ""
}

func driversSection(drivers []market.Driver) string {
	if len(drivers) == 0 {
		return "## Key Market Drivers\n\nNo significant market drivers identified"
	}
	lines := make([]string, 0, len(drivers))
	for i, d := range drivers {
		lines = append(lines, fmt.Sprintf("%d. **%s** (%s impact): %s", i+1, d.Factor, d.Impact, d.Description))
	}
	return "## Key Market Drivers\n\n" + strings.Join(lines, "\n")
}

func interpretationSection(lines []string) string {
	if len(lines) == 0 {
		return "## Market Interpretation\n\nNo contextual interpretation available"
	}
	items := make([]string, len(lines))
	for i, l := range lines {
		items[i] = "- " + l
	}
	return "## Market Interpretation\n\n" + strings.Join(items, "\n")
}

func timeOfUseSection(p *fz.PeakPattern) string {
	if p == nil {
		return ""
	}
	switch p.PeakPricing {
	case "significant":
		return fmt.Sprintf("## Time-of-Use Pattern\n\n**Time-of-use pricing effect is significant**: %s during peak hours reflects higher generation costs from peaker plants and grid capacity constraints",
			formatChange(p.PeakPremiumPct))
	case "moderate":
		return fmt.Sprintf("## Time-of-Use Pattern\n\n**Moderate peak pricing pattern**: %s during peak hours indicates balanced supply and demand with adequate generation reserves",
			formatChange(p.PeakPremiumPct))
	}
	return ""
}

func modelSection(m *fz.ModelAssessment) string {
	if m == nil {
		return ""
	}
	accuracy := fmt.Sprintf("**Forecasting accuracy is %s** (R² = %.3f)", m.Category, m.R2)
	if m.ErrorDescription != "" {
		accuracy += fmt.Sprintf(" with %s (MAE %.1f%% of the mean)", m.ErrorDescription, m.MAEPercentage)
	}
	lines := []string{
		"## Prediction Model",
		accuracy + ". Reliability: " + m.Reliability,
	}
	switch m.Category {
	case "excellent", "good":
		lines = append(lines, "The model captures demand cycles, calendar patterns and price swings well enough for day-ahead use")
	case "moderate":
		lines = append(lines, "Accuracy is moderate: volatility or unexpected events such as outages or weather extremes may affect predictions")
	}
	return strings.Join(lines, "\n\n")
}

func formatChange(pct float64) string {
	switch {
	case math.IsInf(pct, 1):
		return "up from zero"
	case math.IsInf(pct, -1):
		return "down from zero"
	}
	return fmt.Sprintf("%+.1f%%", pct)
}
