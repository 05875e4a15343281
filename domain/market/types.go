package market

import "time"

// Stats aggregates one series over the recent window.
type Stats struct {
	Latest float64 `json:"latest"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// Context is the aggregated market snapshot consumed read-only by the
// reason extractor. A non-empty Error marks the snapshot as unusable.
type Context struct {
	Country string    `json:"country"`
	AsOf    time.Time `json:"as_of"`
	Price   Stats     `json:"price"`
	Load    Stats     `json:"load"`
	Samples int       `json:"samples"`
	Error   string    `json:"error,omitempty"`
}

// Available reports whether the context carries usable statistics.
func (c Context) Available() bool {
	return c.Error == ""
}

// Impact is derived from how far a rule's deviation exceeds its thresholds.
type Impact string

const (
	ImpactHigh     Impact = "high"
	ImpactModerate Impact = "moderate"
)

// Driver is one named factor contributing to the observed pattern.
type Driver struct {
	Factor      string `json:"factor"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// DataInsights summarises the trailing day of a record set.
type DataInsights struct {
	PriceMean24h       float64 `json:"price_mean_24h"`
	PriceStd24h        float64 `json:"price_std_24h"`
	ConsumptionMean24h float64 `json:"consumption_mean_24h"`
	PriceTrend         string  `json:"price_trend"`
	ConsumptionTrend   string  `json:"consumption_trend"`
}
