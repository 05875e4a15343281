package excel

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"energyexplain/domain/series"
)

// WriteCSV writes records with the canonical datetime, energy_consumption
// and price header. The output reads back through RecordReader.
func WriteCSV(w io.Writer, records []series.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"datetime", "energy_consumption", "price"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(r.Consumption, 'f', -1, 64),
			strconv.FormatFloat(r.Price, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
