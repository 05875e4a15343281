package excel

import (
	"fmt"
	"io"
	"time"

	"energyexplain/domain/evaluation"

	"github.com/xuri/excelize/v2"
)

// ResponsesSheet is the sheet name used for exported evaluation responses.
const ResponsesSheet = "Responses"

var responseHeaders = []interface{}{
	"id", "timestamp", "participant_id", "preference",
	"method_a_helpfulness", "method_a_understandability", "method_a_speed", "method_a_practicality",
	"method_b_helpfulness", "method_b_understandability", "method_b_speed", "method_b_practicality",
	"comments", "data_source", "created_at",
}

// ResponseExporter writes evaluation responses as a single-sheet workbook.
type ResponseExporter struct{}

func NewResponseExporter() *ResponseExporter { return &ResponseExporter{} }

// ExportResponses writes a header row followed by one row per response.
func (e *ResponseExporter) ExportResponses(w io.Writer, responses []evaluation.Response) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResponsesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(ResponsesSheet, "A1", &responseHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, resp := range responses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := responseRow(resp)
		if err := f.SetSheetRow(ResponsesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write response %d: %w", i, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func responseRow(r evaluation.Response) []interface{} {
	return []interface{}{
		r.ID.String(), r.Timestamp.UTC().Format(time.RFC3339), r.ParticipantID, r.Preference,
		r.MethodA.Helpfulness, r.MethodA.Understandability, r.MethodA.Speed, r.MethodA.Practicality,
		r.MethodB.Helpfulness, r.MethodB.Understandability, r.MethodB.Speed, r.MethodB.Practicality,
		r.Comments, r.DataSource, r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
