package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"energyexplain/domain/core"
	"energyexplain/domain/series"
	"energyexplain/internal"

	"github.com/xuri/excelize/v2"
)

// RecordReader reads CSV and XLSX uploads into validated records.
type RecordReader struct {
	logger *internal.Logger
}

// NewRecordReader creates a reader that handles both .csv and .xlsx files.
func NewRecordReader(logger *internal.Logger) *RecordReader {
	return &RecordReader{logger: internal.OrDefault(logger).With("excel")}
}

// ReadRecords dispatches on the filename extension.
func (r *RecordReader) ReadRecords(ctx context.Context, rd io.Reader, filename string) ([]series.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		table *Table
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		table, err = r.readCSV(rd)
	case ".xlsx":
		table, err = r.readExcel(rd)
	default:
		return nil, core.NewValidationError("file", fmt.Sprintf("unsupported file type %q", ext))
	}
	if err != nil {
		return nil, err
	}
	return r.toRecords(table)
}

func (r *RecordReader) readExcel(rd io.Reader) (*Table, error) {
	start := time.Now()
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, core.NewValidationError("file", fmt.Sprintf("failed to open Excel file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewValidationError("file", "workbook has no sheets")
	}
	// Raw values keep date-formatted cells as serials, which parseTimestampCell handles.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.NewValidationError("file", fmt.Sprintf("failed to read %s: %v", sheets[0], err))
	}
	r.logger.Debug("sheet %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return r.processRows(rows)
}

func (r *RecordReader) readCSV(rd io.Reader) (*Table, error) {
	reader := csv.NewReader(rd)
	reader.TrimLeadingSpace = true
	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewValidationError("file", fmt.Sprintf("failed to read CSV file: %v", err))
	}
	r.logger.Debug("CSV read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return r.processRows(rows)
}

// processRows splits off the header row and trims every cell.
func (r *RecordReader) processRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, core.NewValidationError("file", "must have a header row and at least one data row")
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := 0; j < len(headers) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		if isBlank(cells) {
			continue
		}
		data = append(data, cells)
	}
	return &Table{Headers: headers, Rows: data}, nil
}

func (r *RecordReader) toRecords(t *Table) ([]series.Record, error) {
	tsCol, err := findColumn(t.Headers, timestampColumns)
	if err != nil {
		return nil, err
	}
	consCol, err := findColumn(t.Headers, consumptionColumns)
	if err != nil {
		return nil, err
	}
	priceCol, err := findColumn(t.Headers, priceColumns)
	if err != nil {
		return nil, err
	}

	records := make([]series.Record, len(t.Rows))
	for i, row := range t.Rows {
		ts, err := parseTimestampCell(row[tsCol])
		if err != nil {
			return nil, recordErr(i, row[tsCol], "timestamp", err)
		}
		cons, err := parseNumberCell(row[consCol])
		if err != nil {
			return nil, recordErr(i, row[consCol], "energy_consumption", err)
		}
		price, err := parseNumberCell(row[priceCol])
		if err != nil {
			return nil, recordErr(i, row[priceCol], "price", err)
		}
		records[i] = series.Record{Timestamp: ts, Consumption: cons, Price: price}
	}
	if err := series.Validate(records); err != nil {
		return nil, err
	}
	r.logger.Info("ingested %d records (%s .. %s)", len(records),
		records[0].Timestamp.Format(time.RFC3339), records[len(records)-1].Timestamp.Format(time.RFC3339))
	return records, nil
}

func findColumn(headers []string, aliases []string) (int, error) {
	for _, alias := range aliases {
		for i, h := range headers {
			if strings.EqualFold(h, alias) {
				return i, nil
			}
		}
	}
	return -1, core.NewValidationError(aliases[0], fmt.Sprintf("no column named %s", strings.Join(aliases, " or ")))
}

func recordErr(index int, cell, field string, err error) error {
	if cell == "" {
		return core.NewRecordError(core.ErrMissingField, index, field)
	}
	if field == "timestamp" {
		return core.NewRecordError(core.ErrDataValidation, index, err.Error())
	}
	return core.NewRecordError(core.ErrNonNumeric, index, fmt.Sprintf("%s %q", field, cell))
}

var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseNumberCell accepts plain decimals and comma thousands grouping such
// as 1,234.5. Any other comma, like a decimal comma in 1,5, is rejected.
func parseNumberCell(cell string) (float64, error) {
	if cell == "" {
		return 0, fmt.Errorf("empty cell")
	}
	if strings.Contains(cell, ",") {
		if !thousandsGrouped.MatchString(cell) {
			return 0, fmt.Errorf("ambiguous comma in %q", cell)
		}
		cell = strings.ReplaceAll(cell, ",", "")
	}
	return strconv.ParseFloat(cell, 64)
}

// parseTimestampCell accepts ISO-8601 text and raw Excel date serials.
func parseTimestampCell(cell string) (time.Time, error) {
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty cell")
	}
	if ts, err := series.ParseTimestamp(cell); err == nil {
		return ts, nil
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		ts, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return ts.Round(time.Second), nil
	}
	return series.ParseTimestamp(cell)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
