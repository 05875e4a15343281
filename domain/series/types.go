package series

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"energyexplain/domain/core"
)

// Record is one time-indexed observation of consumption and price.
// Records are owned by the caller; nothing in the pipeline mutates them.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Consumption float64   `json:"energy_consumption"`
	Price       float64   `json:"price"`
}

// RecordInput is the wire shape accepted at the ingestion boundary. Pointer
// fields distinguish a missing value from a zero value.
type RecordInput struct {
	Timestamp         *string  `json:"timestamp"`
	EnergyConsumption *float64 `json:"energy_consumption"`
	Price             *float64 `json:"price"`
}

// FromInputs converts wire records into validated Records.
func FromInputs(inputs []RecordInput) ([]Record, error) {
	records := make([]Record, len(inputs))
	for i, in := range inputs {
		if in.Timestamp == nil || *in.Timestamp == "" {
			return nil, core.NewRecordError(core.ErrMissingField, i, "timestamp")
		}
		ts, err := ParseTimestamp(*in.Timestamp)
		if err != nil {
			return nil, core.NewRecordError(core.ErrDataValidation, i, err.Error())
		}
		if in.EnergyConsumption == nil {
			return nil, core.NewRecordError(core.ErrMissingField, i, "energy_consumption")
		}
		if in.Price == nil {
			return nil, core.NewRecordError(core.ErrMissingField, i, "price")
		}
		records[i] = Record{Timestamp: ts, Consumption: *in.EnergyConsumption, Price: *in.Price}
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 datetimes with or without an offset.
// Values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// Validate checks the record contract: at least one record, every field
// present and finite, consumption non-negative, timestamps strictly increasing.
func Validate(records []Record) error {
	if len(records) == 0 {
		return core.NewValidationError("records", "empty input")
	}
	for i, r := range records {
		if r.Timestamp.IsZero() {
			return core.NewRecordError(core.ErrMissingField, i, "timestamp")
		}
		if math.IsNaN(r.Consumption) || math.IsInf(r.Consumption, 0) {
			return core.NewRecordError(core.ErrNonNumeric, i, "energy_consumption")
		}
		if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
			return core.NewRecordError(core.ErrNonNumeric, i, "price")
		}
		if r.Consumption < 0 {
			return core.NewRecordError(core.ErrDataValidation, i, "energy_consumption is negative")
		}
		if i > 0 && !r.Timestamp.After(records[i-1].Timestamp) {
			return core.NewRecordError(core.ErrUnordered, i, records[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Prices returns the price column.
func Prices(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Price
	}
	return out
}

// Consumption returns the consumption column.
func Consumption(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Consumption
	}
	return out
}

// Hash fingerprints a record set; identical records give identical hashes.
func Hash(records []Record) core.SnapshotHash {
	buf := make([]byte, 0, len(records)*24)
	var b [8]byte
	for _, r := range records {
		binary.BigEndian.PutUint64(b[:], uint64(r.Timestamp.UnixNano()))
		buf = append(buf, b[:]...)
		binary.BigEndian.PutUint64(b[:], math.Float64bits(r.Consumption))
		buf = append(buf, b[:]...)
		binary.BigEndian.PutUint64(b[:], math.Float64bits(r.Price))
		buf = append(buf, b[:]...)
	}
	return core.NewSnapshotHash(buf)
}

// Snapshot is a validated, immutable copy of a record set.
type Snapshot struct {
	hash    core.SnapshotHash
	country string
	records []Record
}

// NewSnapshot validates and copies records.
func NewSnapshot(country string, records []Record) (*Snapshot, error) {
	if err := Validate(records); err != nil {
		return nil, err
	}
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Snapshot{hash: Hash(cp), country: country, records: cp}, nil
}

func (s *Snapshot) Hash() core.SnapshotHash { return s.hash }
func (s *Snapshot) Country() string         { return s.country }
func (s *Snapshot) Len() int                { return len(s.records) }

// Records returns a copy of the snapshot's records.
func (s *Snapshot) Records() []Record {
	cp := make([]Record, len(s.records))
	copy(cp, s.records)
	return cp
}

// Latest returns the last record.
func (s *Snapshot) Latest() Record {
	return s.records[len(s.records)-1]
}
