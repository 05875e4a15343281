package reasons

import (
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"energyexplain/domain/core"
	"energyexplain/domain/market"
	"energyexplain/domain/series"
)

// Interpret turns drivers into contextual sentences. Time-of-day and
// weekday context comes from ctx.AsOf, so equal inputs give equal output.
func (e *Extractor) Interpret(ctx market.Context, drivers []market.Driver) []string {
	has := func(factor string) bool {
		for _, d := range drivers {
			if d.Factor == factor {
				return true
			}
		}
		return false
	}
	highPrice := has(FactorAbovePrice) || has(FactorHighDemand)
	lowPrice := has(FactorBelowPrice)
	risingDemand := has(FactorHighDemand)
	fallingDemand := has(FactorLowDemand)

	var out []string
	if highPrice && risingDemand {
		out = append(out, "Rising demand is pushing prices higher, typical during peak business hours or extreme weather")
	}
	if lowPrice && fallingDemand {
		out = append(out, "Lower demand allows prices to drop, often seen during night hours or weekends")
	}
	if highPrice && !risingDemand {
		out = append(out, "High prices despite stable demand may indicate supply constraints or fuel cost pressures")
	}
	if has(FactorVolatility) {
		out = append(out, "High market volatility suggests rapid changes in supply-demand balance or renewable generation")
	}

	if !ctx.AsOf.IsZero() {
		switch hour := ctx.AsOf.Hour(); {
		case hour >= 7 && hour <= 9:
			out = append(out, "Morning peak hours typically see increased industrial and commercial activity")
		case hour >= 18 && hour <= 21:
			out = append(out, "Evening peak hours feature high residential consumption and continued business operations")
		case hour >= 22 || hour <= 6:
			out = append(out, "Night hours generally show lower demand and reduced prices")
		}
		if wd := ctx.AsOf.Weekday(); wd == time.Saturday || wd == time.Sunday {
			out = append(out, "Weekend periods typically have lower industrial demand compared to weekdays")
		}
	}

	if len(out) == 0 {
		out = append(out, "Market conditions are relatively stable with normal supply-demand balance")
	}
	return out
}

// MarketInsight renders the current conditions, drivers and
// interpretation as a markdown block.
func (e *Extractor) MarketInsight(ctx market.Context) (string, error) {
	drivers, err := e.ExtractPriceDrivers(ctx)
	if err != nil {
		return "", err
	}

	country := ctx.Country
	if country == "" {
		country = "Unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Real-Time Market Insights: %s\n\n", country)
	b.WriteString("**Current Conditions:**\n")
	fmt.Fprintf(&b, "- Electricity Price: €%.2f/MWh\n", ctx.Price.Latest)
	fmt.Fprintf(&b, "- System Load: %.0f MW\n\n", ctx.Load.Latest)

	if len(drivers) > 0 {
		b.WriteString("**Key Market Factors:**\n\n")
		for _, d := range drivers {
			fmt.Fprintf(&b, "- [%s] **%s**: %s\n", d.Impact, d.Factor, d.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Market Interpretation:**\n")
	for _, line := range e.Interpret(ctx, drivers) {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// DataInsights summarises the last 24 records (or all of them when fewer).
func DataInsights(records []series.Record) (market.DataInsights, error) {
	if len(records) == 0 {
		return market.DataInsights{}, core.NewValidationError("records", "empty input")
	}
	if len(records) > 24 {
		records = records[len(records)-24:]
	}
	prices := stats.Float64Data(series.Prices(records))
	consumption := stats.Float64Data(series.Consumption(records))

	priceMean, _ := prices.Mean()
	priceStd, _ := prices.StandardDeviationPopulation()
	consMean, _ := consumption.Mean()

	return market.DataInsights{
		PriceMean24h:       priceMean,
		PriceStd24h:        priceStd,
		ConsumptionMean24h: consMean,
		PriceTrend:         direction(prices[len(prices)-1], priceMean),
		ConsumptionTrend:   direction(consumption[len(consumption)-1], consMean),
	}, nil
}

func direction(latest, mean float64) string {
	if latest > mean {
		return "increasing"
	}
	return "decreasing"
}
