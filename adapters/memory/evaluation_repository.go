package memory

import (
	"context"
	"sync"

	"energyexplain/domain/evaluation"
)

// EvaluationRepository keeps responses in process memory. It is used when no
// database is configured and in tests.
type EvaluationRepository struct {
	mu        sync.RWMutex
	responses []evaluation.Response
}

func NewEvaluationRepository() *EvaluationRepository {
	return &EvaluationRepository{}
}

func (r *EvaluationRepository) Save(ctx context.Context, response *evaluation.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, *response)
	return nil
}

// List returns a copy of all responses in insertion order.
func (r *EvaluationRepository) List(ctx context.Context) ([]evaluation.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]evaluation.Response, len(r.responses))
	copy(out, r.responses)
	return out, nil
}

func (r *EvaluationRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.responses), nil
}

func (r *EvaluationRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.responses))
	r.responses = nil
	return n, nil
}
