package features

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"energyexplain/domain/core"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/config"
)

// Matrix is the engineered feature table. Row i describes Timestamps[i];
// the leading lookback rows of the input are not present.
type Matrix struct {
	Schema      Schema
	Rows        [][]float64
	Timestamps  []time.Time
	Prices      []float64
	Consumption []float64
}

// Len returns the number of retained rows.
func (m *Matrix) Len() int { return len(m.Rows) }

// Column returns a copy of the named column, or nil if absent.
func (m *Matrix) Column(name string) []float64 {
	j := m.Schema.Index(name)
	if j < 0 {
		return nil
	}
	out := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		out[i] = row[j]
	}
	return out
}

// Select returns the rows restricted to the named columns, in that order.
func (m *Matrix) Select(names []string) ([][]float64, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j := m.Schema.Index(name)
		if j < 0 {
			return nil, fmt.Errorf("%w: column %s not in feature schema", core.ErrSchemaMismatch, name)
		}
		idx[k] = j
	}
	out := make([][]float64, len(m.Rows))
	for i, row := range m.Rows {
		sel := make([]float64, len(idx))
		for k, j := range idx {
			sel[k] = row[j]
		}
		out[i] = sel
	}
	return out, nil
}

// Target returns the target values aligned with the rows.
func (m *Matrix) Target(t model.Target) []float64 {
	src := m.Prices
	if t == model.TargetConsumption {
		src = m.Consumption
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Engineer turns time-ordered records into a fixed-schema feature matrix.
// It holds only configuration, so one Engineer may serve concurrent calls.
type Engineer struct {
	cfg      config.FeatureConfig
	schema   Schema
	lookback int
	peak     [24]bool
	offpeak  [24]bool
	business [7]bool
	logger   *internal.Logger
}

// NewEngineer validates cfg and precomputes the schema.
func NewEngineer(cfg config.FeatureConfig, logger *internal.Logger) (*Engineer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engineer{
		cfg:      cfg,
		schema:   NewSchema(cfg),
		lookback: Lookback(cfg),
		logger:   internal.OrDefault(logger),
	}
	for _, h := range cfg.PeakHours {
		e.peak[h] = true
	}
	for _, h := range cfg.OffPeakHours {
		e.offpeak[h] = true
	}
	for _, d := range cfg.BusinessDays {
		e.business[d] = true
	}
	return e, nil
}

// Lookback is the number of input samples needed to emit one row:
// max(rolling window, largest lag + 1).
func Lookback(cfg config.FeatureConfig) int {
	k := cfg.RollingWindow
	for _, lag := range cfg.Lags {
		if lag+1 > k {
			k = lag + 1
		}
	}
	return k
}

// Schema returns the output schema.
func (e *Engineer) Schema() Schema { return e.schema }

// Lookback returns the minimum input length; Transform drops Lookback()-1 rows.
func (e *Engineer) Lookback() int { return e.lookback }

// Transform validates records and computes one feature row per record that
// has a full lookback window. Rows without one are dropped, never imputed.
func (e *Engineer) Transform(records []series.Record) (*Matrix, error) {
	if err := series.Validate(records); err != nil {
		return nil, err
	}
	if len(records) < e.lookback {
		return nil, fmt.Errorf("%w: need at least %d records, got %d",
			core.ErrInsufficientRows, e.lookback, len(records))
	}

	consumption := series.Consumption(records)
	n := len(records) - (e.lookback - 1)
	m := &Matrix{
		Schema:      e.schema,
		Rows:        make([][]float64, 0, n),
		Timestamps:  make([]time.Time, 0, n),
		Prices:      make([]float64, 0, n),
		Consumption: make([]float64, 0, n),
	}

	for i := e.lookback - 1; i < len(records); i++ {
		row, err := e.row(records[i], consumption, i)
		if err != nil {
			return nil, err
		}
		m.Rows = append(m.Rows, row)
		m.Timestamps = append(m.Timestamps, records[i].Timestamp)
		m.Prices = append(m.Prices, records[i].Price)
		m.Consumption = append(m.Consumption, records[i].Consumption)
	}

	e.logger.Debug("engineered %d feature rows (%d columns) from %d records, dropped %d",
		m.Len(), e.schema.Len(), len(records), e.lookback-1)
	return m, nil
}

func (e *Engineer) row(r series.Record, consumption []float64, i int) ([]float64, error) {
	ts := r.Timestamp
	hour := ts.Hour()
	dow := (int(ts.Weekday()) + 6) % 7 // Monday=0
	month := int(ts.Month())
	c := r.Consumption

	window := consumption[i-e.cfg.RollingWindow+1 : i+1]
	mean, err := stats.Mean(window)
	if err != nil {
		return nil, core.NewRecordError(core.ErrDataValidation, i, err.Error())
	}
	std, err := stats.StandardDeviationSample(window)
	if err != nil {
		return nil, core.NewRecordError(core.ErrDataValidation, i, err.Error())
	}

	row := make([]float64, 0, e.schema.Len())
	row = append(row,
		float64(hour),
		float64(dow),
		float64(month),
		float64(ts.Day()),
		math.Sin(2*math.Pi*float64(hour)/24),
		math.Cos(2*math.Pi*float64(hour)/24),
		math.Sin(2*math.Pi*float64(dow)/7),
		math.Cos(2*math.Pi*float64(dow)/7),
		math.Sin(2*math.Pi*float64(month-1)/12),
		math.Cos(2*math.Pi*float64(month-1)/12),
		indicator(dow >= 5),
		indicator(e.peak[hour]),
		indicator(e.offpeak[hour]),
		indicator(e.business[ts.Weekday()] && hour >= e.cfg.BusinessStartHour && hour <= e.cfg.BusinessEndHour),
		indicator(month == 12 || month <= 2),
		indicator(month >= 6 && month <= 8),
		indicator(month >= 3 && month <= 5),
		indicator(month >= 9 && month <= 11),
		c,
		c*c,
		math.Log1p(c),
		mean,
		std,
	)
	for _, lag := range e.cfg.Lags {
		row = append(row, consumption[i-lag])
	}
	row = append(row, r.Price/(c+e.cfg.RatioOffset))
	return row, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
