package postgres

import (
	"context"
	"time"

	"energyexplain/domain/core"
	"energyexplain/domain/evaluation"

	"github.com/jmoiron/sqlx"
)

// responseRow is the flattened table shape of an evaluation response.
type responseRow struct {
	ID                       string    `db:"id"`
	Timestamp                time.Time `db:"timestamp"`
	ParticipantID            string    `db:"participant_id"`
	Preference               string    `db:"preference"`
	MethodAHelpfulness       int       `db:"method_a_helpfulness"`
	MethodAUnderstandability int       `db:"method_a_understandability"`
	MethodASpeed             int       `db:"method_a_speed"`
	MethodAPracticality      int       `db:"method_a_practicality"`
	MethodBHelpfulness       int       `db:"method_b_helpfulness"`
	MethodBUnderstandability int       `db:"method_b_understandability"`
	MethodBSpeed             int       `db:"method_b_speed"`
	MethodBPracticality      int       `db:"method_b_practicality"`
	Comments                 string    `db:"comments"`
	DataSource               string    `db:"data_source"`
	CreatedAt                time.Time `db:"created_at"`
}

func toRow(r *evaluation.Response) responseRow {
	return responseRow{
		ID:                       r.ID.String(),
		Timestamp:                r.Timestamp,
		ParticipantID:            r.ParticipantID,
		Preference:               r.Preference,
		MethodAHelpfulness:       r.MethodA.Helpfulness,
		MethodAUnderstandability: r.MethodA.Understandability,
		MethodASpeed:             r.MethodA.Speed,
		MethodAPracticality:      r.MethodA.Practicality,
		MethodBHelpfulness:       r.MethodB.Helpfulness,
		MethodBUnderstandability: r.MethodB.Understandability,
		MethodBSpeed:             r.MethodB.Speed,
		MethodBPracticality:      r.MethodB.Practicality,
		Comments:                 r.Comments,
		DataSource:               r.DataSource,
		CreatedAt:                r.CreatedAt,
	}
}

func (row responseRow) toDomain() evaluation.Response {
	return evaluation.Response{
		ID:            core.ResponseID(row.ID),
		Timestamp:     row.Timestamp,
		ParticipantID: row.ParticipantID,
		Preference:    row.Preference,
		MethodA: evaluation.Ratings{
			Helpfulness:       row.MethodAHelpfulness,
			Understandability: row.MethodAUnderstandability,
			Speed:             row.MethodASpeed,
			Practicality:      row.MethodAPracticality,
		},
		MethodB: evaluation.Ratings{
			Helpfulness:       row.MethodBHelpfulness,
			Understandability: row.MethodBUnderstandability,
			Speed:             row.MethodBSpeed,
			Practicality:      row.MethodBPracticality,
		},
		Comments:   row.Comments,
		DataSource: row.DataSource,
		CreatedAt:  row.CreatedAt,
	}
}

// EvaluationRepository stores evaluation responses in PostgreSQL
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new PostgreSQL evaluation repository
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Save inserts one response
func (r *EvaluationRepository) Save(ctx context.Context, response *evaluation.Response) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO evaluation_responses (
			id, timestamp, participant_id, preference,
			method_a_helpfulness, method_a_understandability, method_a_speed, method_a_practicality,
			method_b_helpfulness, method_b_understandability, method_b_speed, method_b_practicality,
			comments, data_source, created_at
		) VALUES (
			:id, :timestamp, :participant_id, :preference,
			:method_a_helpfulness, :method_a_understandability, :method_a_speed, :method_a_practicality,
			:method_b_helpfulness, :method_b_understandability, :method_b_speed, :method_b_practicality,
			:comments, :data_source, :created_at
		)
	`, toRow(response))
	return err
}

// List returns all responses, oldest first
func (r *EvaluationRepository) List(ctx context.Context) ([]evaluation.Response, error) {
	var rows []responseRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, timestamp, participant_id, preference,
		       method_a_helpfulness, method_a_understandability, method_a_speed, method_a_practicality,
		       method_b_helpfulness, method_b_understandability, method_b_speed, method_b_practicality,
		       comments, data_source, created_at
		FROM evaluation_responses
		ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	out := make([]evaluation.Response, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Count returns the number of stored responses
func (r *EvaluationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM evaluation_responses`)
	return n, err
}

// DeleteAll removes every response and reports how many were deleted
func (r *EvaluationRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM evaluation_responses`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
