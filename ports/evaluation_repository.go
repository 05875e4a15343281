package ports

import (
	"context"
	"io"

	"energyexplain/domain/evaluation"
)

// EvaluationRepository stores participant feedback on the two explanation methods.
type EvaluationRepository interface {
	Save(ctx context.Context, response *evaluation.Response) error
	List(ctx context.Context) ([]evaluation.Response, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ResponseExporter writes stored responses to a spreadsheet.
type ResponseExporter interface {
	ExportResponses(w io.Writer, responses []evaluation.Response) error
}
