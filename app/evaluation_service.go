package app

import (
	"context"
	"io"
	"time"

	"github.com/montanaflynn/stats"

	"energyexplain/domain/core"
	"energyexplain/domain/evaluation"
	"energyexplain/internal"
	"energyexplain/ports"
)

// EvaluationService records and summarises participant feedback.
type EvaluationService struct {
	repo     ports.EvaluationRepository
	exporter ports.ResponseExporter
	now      func() time.Time
	logger   *internal.Logger
}

func NewEvaluationService(repo ports.EvaluationRepository, exporter ports.ResponseExporter, logger *internal.Logger) *EvaluationService {
	return &EvaluationService{
		repo:     repo,
		exporter: exporter,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   internal.OrDefault(logger).With("evaluation"),
	}
}

// Submit validates a response, assigns its ID and timestamps, and stores it.
func (s *EvaluationService) Submit(ctx context.Context, resp evaluation.Response) (*evaluation.Response, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	if resp.ID.String() == "" {
		resp.ID = core.NewResponseID()
	}
	if resp.Timestamp.IsZero() {
		resp.Timestamp = now
	}
	resp.CreatedAt = now
	if err := s.repo.Save(ctx, &resp); err != nil {
		return nil, err
	}
	s.logger.Info("saved evaluation %s from participant %s (preference %s)", resp.ID, resp.ParticipantID, resp.Preference)
	return &resp, nil
}

func (s *EvaluationService) List(ctx context.Context) ([]evaluation.Response, error) {
	return s.repo.List(ctx)
}

func (s *EvaluationService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// DeleteAll removes every stored response.
func (s *EvaluationService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("deleted %d evaluation responses", n)
	return n, nil
}

// Export writes all responses as a workbook.
func (s *EvaluationService) Export(ctx context.Context, w io.Writer) (int, error) {
	responses, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.exporter.ExportResponses(w, responses); err != nil {
		return 0, err
	}
	return len(responses), nil
}

// Analytics averages ratings per method and counts preferences and data
// sources. Unrated (zero) scores are left out of the averages.
func (s *EvaluationService) Analytics(ctx context.Context) (evaluation.Analytics, error) {
	responses, err := s.repo.List(ctx)
	if err != nil {
		return evaluation.Analytics{}, err
	}
	out := evaluation.Analytics{
		TotalResponses:   len(responses),
		PreferenceCounts: make(map[string]int),
		DataSourceCounts: make(map[string]int),
	}
	a := make([]evaluation.Ratings, len(responses))
	b := make([]evaluation.Ratings, len(responses))
	for i, r := range responses {
		a[i], b[i] = r.MethodA, r.MethodB
		out.PreferenceCounts[r.Preference]++
		if r.DataSource != "" {
			out.DataSourceCounts[r.DataSource]++
		}
	}
	out.MethodA = averages(a)
	out.MethodB = averages(b)
	return out, nil
}

func averages(ratings []evaluation.Ratings) evaluation.MethodAverages {
	pick := func(f func(evaluation.Ratings) int) float64 {
		var rated stats.Float64Data
		for _, r := range ratings {
			if v := f(r); v > 0 {
				rated = append(rated, float64(v))
			}
		}
		if len(rated) == 0 {
			return 0
		}
		m, _ := rated.Mean()
		return m
	}
	return evaluation.MethodAverages{
		Helpfulness:       pick(func(r evaluation.Ratings) int { return r.Helpfulness }),
		Understandability: pick(func(r evaluation.Ratings) int { return r.Understandability }),
		Speed:             pick(func(r evaluation.Ratings) int { return r.Speed }),
		Practicality:      pick(func(r evaluation.Ratings) int { return r.Practicality }),
	}
}
