package app

import (
	"context"

	"energyexplain/domain/core"
	"energyexplain/domain/explanation"
	fz "energyexplain/domain/fuzzy"
	"energyexplain/domain/market"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/fuzzy"
	"energyexplain/internal/narrative"
	"energyexplain/internal/reasons"
	"energyexplain/ports"
)

// DriverReport is the market context of a snapshot and what it implies.
type DriverReport struct {
	Context         market.Context      `json:"market_context"`
	Drivers         []market.Driver     `json:"drivers"`
	Interpretations []string            `json:"interpretations"`
	Insight         string              `json:"insight"`
	DataInsights    market.DataInsights `json:"data_insights"`
}

// ExplainService produces the numerical and linguistic explanations of a
// session's current state.
type ExplainService struct {
	sessions    *SessionStore
	categorizer *fuzzy.Categorizer
	extractor   *reasons.Extractor
	source      ports.MarketDataSource
	generator   *narrative.Generator
	sampleCount int
	logger      *internal.Logger
}

// NewExplainService wires the explanation pipeline.
func NewExplainService(
	sessions *SessionStore,
	categorizer *fuzzy.Categorizer,
	extractor *reasons.Extractor,
	source ports.MarketDataSource,
	generator *narrative.Generator,
	sampleCount int,
	logger *internal.Logger,
) *ExplainService {
	return &ExplainService{
		sessions:    sessions,
		categorizer: categorizer,
		extractor:   extractor,
		source:      source,
		generator:   generator,
		sampleCount: sampleCount,
		logger:      internal.OrDefault(logger).With("explain"),
	}
}

// Summary returns the numerical explanation of the session's model.
func (s *ExplainService) Summary(id core.SessionID) (model.Summary, error) {
	st, err := s.sessions.State(id)
	if err != nil {
		return model.Summary{}, err
	}
	return st.Model.Summary(s.sampleCount), nil
}

// Predict applies the session's model to new records.
func (s *ExplainService) Predict(id core.SessionID, records []series.Record) ([]model.Prediction, error) {
	st, err := s.sessions.State(id)
	if err != nil {
		return nil, err
	}
	return s.sessions.Trainer().Predict(st.Model, records)
}

// Fuzzy returns the linguistic categorization of the session's snapshot.
func (s *ExplainService) Fuzzy(id core.SessionID) (fz.Analysis, error) {
	st, err := s.sessions.State(id)
	if err != nil {
		return fz.Analysis{}, err
	}
	return s.categorizer.AnalyzeSnapshot(st.Snapshot.Records(), st.Model)
}

// Drivers extracts price drivers from the snapshot's market context.
func (s *ExplainService) Drivers(ctx context.Context, id core.SessionID) (DriverReport, error) {
	st, err := s.sessions.State(id)
	if err != nil {
		return DriverReport{}, err
	}
	return s.drivers(ctx, st)
}

// Explain builds both explanations from one state load, so the numbers and
// the narrative always describe the same snapshot and model.
func (s *ExplainService) Explain(ctx context.Context, id core.SessionID) (*explanation.Bundle, error) {
	st, err := s.sessions.State(id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.categorizer.AnalyzeSnapshot(st.Snapshot.Records(), st.Model)
	if err != nil {
		return nil, err
	}
	report, err := s.drivers(ctx, st)
	if err != nil {
		return nil, err
	}

	exp := s.generator.Generate(narrative.Input{
		Analysis:        analysis,
		Drivers:         report.Drivers,
		Interpretations: report.Interpretations,
	})
	exp.ID = core.NewExplanationID()

	s.logger.Info("explained snapshot %s: %d drivers, price %s", st.Snapshot.Hash().Short(), len(report.Drivers), analysis.Price.Category)
	return &explanation.Bundle{
		SnapshotID: st.Snapshot.Hash(),
		Numerical:  st.Model.Summary(s.sampleCount),
		Linguistic: exp,
	}, nil
}

func (s *ExplainService) drivers(ctx context.Context, st *SessionState) (DriverReport, error) {
	mctx, err := s.source.MarketContext(ctx, st.Snapshot)
	if err != nil {
		return DriverReport{}, err
	}
	drivers, err := s.extractor.ExtractPriceDrivers(mctx)
	if err != nil {
		return DriverReport{}, err
	}
	insight, err := s.extractor.MarketInsight(mctx)
	if err != nil {
		return DriverReport{}, err
	}
	data, err := reasons.DataInsights(st.Snapshot.Records())
	if err != nil {
		return DriverReport{}, err
	}
	return DriverReport{
		Context:         mctx,
		Drivers:         drivers,
		Interpretations: s.extractor.Interpret(mctx, drivers),
		Insight:         insight,
		DataInsights:    data,
	}, nil
}
