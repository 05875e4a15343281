package app

import (
	"testing"

	"energyexplain/internal/config"
	"energyexplain/internal/features"
	"energyexplain/internal/fuzzy"
	"energyexplain/internal/market"
	"energyexplain/internal/narrative"
	"energyexplain/internal/predictor"
	"energyexplain/internal/reasons"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SessionStore {
	t.Helper()
	cfg := config.DefaultPipeline()
	e, err := features.NewEngineer(cfg.Features, nil)
	require.NoError(t, err)
	return NewSessionStore(predictor.NewTrainer(e, cfg.Training, nil), cfg.Training, nil)
}

func newExplainService(t *testing.T) (*ExplainService, *SessionStore) {
	t.Helper()
	cfg := config.DefaultPipeline()
	store := newStore(t)
	cat, err := fuzzy.NewCategorizer(cfg.Fuzzy, cfg.Features.PeakHours, nil)
	require.NoError(t, err)
	ext, err := reasons.NewExtractor(cfg.Drivers, nil)
	require.NoError(t, err)
	svc := NewExplainService(store, cat, ext, market.NewSnapshotSource(cfg.Drivers.Window),
		narrative.NewGenerator(true), cfg.Training.SampleCount, nil)
	return svc, store
}
