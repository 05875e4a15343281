package reasons

import (
	"fmt"
	"math"

	"energyexplain/domain/core"
	"energyexplain/domain/market"
	"energyexplain/internal"
	"energyexplain/internal/config"
)

// Driver factor names, in rule priority order.
const (
	FactorAbovePrice   = "Above-Average Pricing"
	FactorBelowPrice   = "Below-Average Pricing"
	FactorHighDemand   = "High Demand Period"
	FactorLowDemand    = "Low Demand Period"
	FactorVolatility   = "High Price Volatility"
	FactorNearCapacity = "Near Peak Capacity"
)

type rule struct {
	name string
	eval func(ctx market.Context) (deviation float64, driver func(market.Impact) market.Driver, ok bool)
	band func(cfg config.DriverConfig) config.Band
}

// Extractor derives ordered price drivers from a market context. The rule
// list order is part of the contract: drivers come out in rule order,
// never sorted by magnitude.
type Extractor struct {
	cfg    config.DriverConfig
	rules  []rule
	logger *internal.Logger
}

// NewExtractor validates cfg and installs the fixed rule list.
func NewExtractor(cfg config.DriverConfig, logger *internal.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{
		cfg:    cfg,
		rules:  []rule{priceRule, loadRule, volatilityRule, capacityRule},
		logger: internal.OrDefault(logger),
	}, nil
}

// ExtractPriceDrivers evaluates every rule in priority order. A rule fires
// with high impact when |deviation| > High and moderate when > Moderate.
// A context carrying an error fails with ErrMarketError.
func (e *Extractor) ExtractPriceDrivers(ctx market.Context) ([]market.Driver, error) {
	if !ctx.Available() {
		return nil, fmt.Errorf("%w: %s", core.ErrMarketError, ctx.Error)
	}
	drivers := make([]market.Driver, 0, len(e.rules))
	for _, r := range e.rules {
		deviation, build, ok := r.eval(ctx)
		if !ok {
			e.logger.Trace("rule %s skipped: zero reference", r.name)
			continue
		}
		impact, fired := classify(math.Abs(deviation), r.band(e.cfg))
		if !fired {
			continue
		}
		d := build(impact)
		e.logger.Debug("rule %s fired: %s (%s)", r.name, d.Factor, d.Impact)
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func classify(abs float64, band config.Band) (market.Impact, bool) {
	switch {
	case abs > band.High:
		return market.ImpactHigh, true
	case abs > band.Moderate:
		return market.ImpactModerate, true
	default:
		return "", false
	}
}

var priceRule = rule{
	name: "price-vs-mean",
	band: func(cfg config.DriverConfig) config.Band { return cfg.PriceDeviation },
	eval: func(ctx market.Context) (float64, func(market.Impact) market.Driver, bool) {
		if ctx.Price.Mean == 0 {
			return 0, nil, false
		}
		dev := (ctx.Price.Latest - ctx.Price.Mean) / math.Abs(ctx.Price.Mean) * 100
		return dev, func(impact market.Impact) market.Driver {
			factor, side := FactorAbovePrice, "above"
			if dev < 0 {
				factor, side = FactorBelowPrice, "below"
			}
			return market.Driver{
				Factor:      factor,
				Description: fmt.Sprintf("Current price is %.1f%% %s the recent average", math.Abs(dev), side),
				Impact:      impact,
			}
		}, true
	},
}

var loadRule = rule{
	name: "load-vs-mean",
	band: func(cfg config.DriverConfig) config.Band { return cfg.LoadDeviation },
	eval: func(ctx market.Context) (float64, func(market.Impact) market.Driver, bool) {
		if ctx.Load.Mean == 0 {
			return 0, nil, false
		}
		dev := (ctx.Load.Latest - ctx.Load.Mean) / math.Abs(ctx.Load.Mean) * 100
		return dev, func(impact market.Impact) market.Driver {
			factor, side := FactorHighDemand, "above"
			if dev < 0 {
				factor, side = FactorLowDemand, "below"
			}
			return market.Driver{
				Factor:      factor,
				Description: fmt.Sprintf("Consumption is %.1f%% %s average", math.Abs(dev), side),
				Impact:      impact,
			}
		}, true
	},
}

var volatilityRule = rule{
	name: "price-range",
	band: func(cfg config.DriverConfig) config.Band { return cfg.Volatility },
	eval: func(ctx market.Context) (float64, func(market.Impact) market.Driver, bool) {
		if ctx.Price.Mean == 0 {
			return 0, nil, false
		}
		spread := (ctx.Price.Max - ctx.Price.Min) / math.Abs(ctx.Price.Mean)
		return spread, func(impact market.Impact) market.Driver {
			return market.Driver{
				Factor:      FactorVolatility,
				Description: fmt.Sprintf("Prices vary widely (€%.2f - €%.2f)", ctx.Price.Min, ctx.Price.Max),
				Impact:      impact,
			}
		}, true
	},
}

var capacityRule = rule{
	name: "load-vs-max",
	band: func(cfg config.DriverConfig) config.Band { return cfg.Capacity },
	eval: func(ctx market.Context) (float64, func(market.Impact) market.Driver, bool) {
		if ctx.Load.Max == 0 {
			return 0, nil, false
		}
		usage := ctx.Load.Latest / ctx.Load.Max * 100
		return usage, func(impact market.Impact) market.Driver {
			return market.Driver{
				Factor:      FactorNearCapacity,
				Description: fmt.Sprintf("System operating at %.1f%% of recent maximum", usage),
				Impact:      impact,
			}
		}, true
	},
}
