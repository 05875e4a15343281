package excel

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"energyexplain/domain/core"
	"energyexplain/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func read(t *testing.T, body, filename string) error {
	t.Helper()
	_, err := NewRecordReader(nil).ReadRecords(context.Background(), strings.NewReader(body), filename)
	return err
}

func TestReadCSVRoundTrip(t *testing.T) {
	records := testkit.Hourly(48, 3)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	got, err := NewRecordReader(nil).ReadRecords(context.Background(), &buf, "upload.CSV")
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.True(t, records[i].Timestamp.Equal(got[i].Timestamp), "row %d", i)
		assert.Equal(t, records[i].Consumption, got[i].Consumption)
		assert.Equal(t, records[i].Price, got[i].Price)
	}
}

func TestReadCSVColumnAliases(t *testing.T) {
	body := "Timestamp, Consumption ,PRICE\n2024-10-01 00:00:00,100,50.5\n2024-10-01 01:00:00,110,52\n\n"
	got, err := NewRecordReader(nil).ReadRecords(context.Background(), strings.NewReader(body), "data.csv")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 10, 1, 1, 0, 0, 0, time.UTC), got[1].Timestamp)
	assert.Equal(t, 110.0, got[1].Consumption)
	assert.Equal(t, 50.5, got[0].Price)
}

func TestReadCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"missing price column", "datetime,energy_consumption\n2024-10-01T00:00:00,1\n", core.ErrDataValidation},
		{"empty cell", "datetime,energy_consumption,price\n2024-10-01T00:00:00,,3\n", core.ErrMissingField},
		{"non numeric", "datetime,energy_consumption,price\n2024-10-01T00:00:00,abc,3\n", core.ErrNonNumeric},
		{"unordered", "datetime,energy_consumption,price\n2024-10-01T01:00:00,1,3\n2024-10-01T00:00:00,1,3\n", core.ErrUnordered},
		{"header only", "datetime,energy_consumption,price\n", core.ErrDataValidation},
		{"bad timestamp", "datetime,energy_consumption,price\nyesterday,1,3\n", core.ErrDataValidation},
		{"decimal comma", "datetime,energy_consumption,price\n2024-10-01T00:00:00,\"1,5\",3\n", core.ErrNonNumeric},
		{"misplaced grouping", "datetime,energy_consumption,price\n2024-10-01T00:00:00,\"12,34.5\",3\n", core.ErrNonNumeric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, read(t, tc.body, "data.csv"), tc.want)
		})
	}
}

func TestReadCSVThousandsSeparators(t *testing.T) {
	body := "datetime,energy_consumption,price\n2024-10-01T00:00:00,\"1,234.5\",\"-1,000\"\n"
	got, err := NewRecordReader(nil).ReadRecords(context.Background(), strings.NewReader(body), "data.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1234.5, got[0].Consumption)
	assert.Equal(t, -1000.0, got[0].Price)
}

func TestParseNumberCell(t *testing.T) {
	for cell, want := range map[string]float64{"42": 42, "-3.25": -3.25, "12,345,678": 12345678, "+1,000.75": 1000.75} {
		got, err := parseNumberCell(cell)
		require.NoError(t, err, cell)
		assert.Equal(t, want, got, cell)
	}
	for _, cell := range []string{"1,5", "1,23", "1234,567", ",100", "1,000,00"} {
		_, err := parseNumberCell(cell)
		assert.Error(t, err, cell)
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	err := read(t, "{}", "data.json")
	assert.True(t, core.IsValidationError(err))
}

func TestReadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRecordReader(nil).ReadRecords(ctx, strings.NewReader(""), "data.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"datetime", "energy_consumption", "price"},
		{"2024-10-01T00:00:00Z", 120.5, 48.0},
		{"2024-10-01T01:00:00Z", 118.0, 47.25},
		{45566.0833333333, 117.0, 46.0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := NewRecordReader(nil).ReadRecords(context.Background(), &buf, "data.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 120.5, got[0].Consumption)
	assert.Equal(t, 47.25, got[1].Price)
	assert.Equal(t, time.Date(2024, 10, 1, 2, 0, 0, 0, time.UTC), got[2].Timestamp.UTC())
}
