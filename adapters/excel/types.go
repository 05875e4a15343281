package excel

// Table is a raw spreadsheet: trimmed headers and string cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column aliases accepted for each record field, matched case-insensitively.
var (
	timestampColumns   = []string{"datetime", "timestamp"}
	consumptionColumns = []string{"energy_consumption", "consumption"}
	priceColumns       = []string{"price"}
)
