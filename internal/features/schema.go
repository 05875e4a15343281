package features

import (
	"fmt"

	"energyexplain/domain/model"
	"energyexplain/internal/config"
)

// Source tags what a feature column is computed from.
type Source string

const (
	SourceCalendar    Source = "calendar"
	SourceConsumption Source = "consumption"         // the current consumption value
	SourceHistory     Source = "consumption-history" // strictly earlier consumption values
	SourcePrice       Source = "price"               // the current price (and consumption)
)

// Column is one entry of the feature schema.
type Column struct {
	Name   string `json:"name"`
	Source Source `json:"source"`
	// Raw marks integer calendar fields kept for display but not modelled.
	Raw bool `json:"raw,omitempty"`
}

// DerivedFrom reports whether the column reads the target's current value.
func (c Column) DerivedFrom(target model.Target) bool {
	switch target {
	case model.TargetPrice:
		return c.Source == SourcePrice
	case model.TargetConsumption:
		return c.Source == SourceConsumption || c.Source == SourcePrice
	}
	return false
}

// Schema is the ordered set of feature columns for one configuration.
// It depends only on the configuration, never on the input.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema derives the column list from cfg.
func NewSchema(cfg config.FeatureConfig) Schema {
	cols := []Column{
		{Name: "hour", Source: SourceCalendar, Raw: true},
		{Name: "day_of_week", Source: SourceCalendar, Raw: true},
		{Name: "month", Source: SourceCalendar, Raw: true},
		{Name: "day_of_month", Source: SourceCalendar, Raw: true},
		{Name: "hour_sin", Source: SourceCalendar},
		{Name: "hour_cos", Source: SourceCalendar},
		{Name: "dow_sin", Source: SourceCalendar},
		{Name: "dow_cos", Source: SourceCalendar},
		{Name: "month_sin", Source: SourceCalendar},
		{Name: "month_cos", Source: SourceCalendar},
		{Name: "is_weekend", Source: SourceCalendar},
		{Name: "is_peak_hour", Source: SourceCalendar},
		{Name: "is_offpeak", Source: SourceCalendar},
		{Name: "is_business_hours", Source: SourceCalendar},
		{Name: "is_winter", Source: SourceCalendar},
		{Name: "is_summer", Source: SourceCalendar},
		{Name: "is_spring", Source: SourceCalendar},
		{Name: "is_fall", Source: SourceCalendar},
		{Name: "consumption", Source: SourceConsumption},
		{Name: "consumption_squared", Source: SourceConsumption},
		{Name: "consumption_log", Source: SourceConsumption},
		{Name: fmt.Sprintf("consumption_rolling_mean_%d", cfg.RollingWindow), Source: SourceConsumption},
		{Name: fmt.Sprintf("consumption_rolling_std_%d", cfg.RollingWindow), Source: SourceConsumption},
	}
	for _, lag := range cfg.Lags {
		cols = append(cols, Column{Name: fmt.Sprintf("consumption_lag_%d", lag), Source: SourceHistory})
	}
	cols = append(cols, Column{Name: "price_demand_ratio", Source: SourcePrice})

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name] = i
	}
	return Schema{columns: cols, index: index}
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the columns in order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of name, or -1.
func (s Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// ModelColumns returns, in schema order, the names of the columns a model
// predicting target fits on. Raw calendar integers are always left out;
// columns derived from the target's current value only when excludeDerived
// is set.
func (s Schema) ModelColumns(target model.Target, excludeDerived bool) []string {
	var out []string
	for _, c := range s.columns {
		if c.Raw || (excludeDerived && c.DerivedFrom(target)) {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}
