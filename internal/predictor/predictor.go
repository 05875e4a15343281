package predictor

import (
	"fmt"
	"slices"
	"sync/atomic"

	"energyexplain/domain/core"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/internal/features"
)

// Options selects what to train and how to split.
type Options struct {
	Target       model.Target
	TestFraction float64
	Seed         int64
}

// Trainer fits linear models on engineered features. It holds no model
// state; every Train call returns a new TrainedModel.
type Trainer struct {
	engineer       *features.Engineer
	rcond          float64
	excludeDerived bool
	logger         *internal.Logger
}

// NewTrainer creates a trainer over engineer's schema.
func NewTrainer(engineer *features.Engineer, cfg config.TrainingConfig, logger *internal.Logger) *Trainer {
	return &Trainer{
		engineer:       engineer,
		rcond:          cfg.RankTolerance,
		excludeDerived: cfg.ExcludeTargetDerived,
		logger:         internal.OrDefault(logger),
	}
}

// Engineer returns the feature engineer the trainer uses.
func (t *Trainer) Engineer() *features.Engineer { return t.engineer }

// Train engineers features, splits rows deterministically and fits OLS on
// the training partition. Same records and options give bit-identical models.
func (t *Trainer) Train(records []series.Record, opts Options) (*model.TrainedModel, error) {
	if opts.Target != model.TargetPrice && opts.Target != model.TargetConsumption {
		return nil, core.NewValidationError("target", fmt.Sprintf("unknown target %q", opts.Target))
	}

	matrix, err := t.engineer.Transform(records)
	if err != nil {
		return nil, err
	}
	names := matrix.Schema.ModelColumns(opts.Target, t.excludeDerived)
	rows, err := matrix.Select(names)
	if err != nil {
		return nil, err
	}
	y := matrix.Target(opts.Target)

	part, err := splitRows(matrix.Len(), opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, err
	}
	t.logger.Info("training %s model: %d features, %d train rows, %d test rows (seed %d)",
		opts.Target, len(names), len(part.train), len(part.test), opts.Seed)

	trainX, trainY := gather(rows, part.train), gatherValues(y, part.train)
	testX, testY := gather(rows, part.test), gatherValues(y, part.test)

	fit, err := fitOLS(trainX, trainY, t.rcond)
	if err != nil {
		t.logger.Warn("training %s model failed: %v", opts.Target, err)
		return nil, err
	}

	trainPred := predictAll(fit, trainX)
	testPred := predictAll(fit, testX)
	testResiduals := make([]float64, len(testY))
	for i := range testY {
		testResiduals[i] = testY[i] - testPred[i]
	}
	metrics := model.Metrics{
		Train: partitionMetrics(trainY, trainPred),
		Test:  partitionMetrics(testY, testPred),
	}

	m := model.NewTrainedModel(model.Params{
		Target:        opts.Target,
		FeatureNames:  names,
		Coefficients:  fit.coefficients,
		Intercept:     fit.intercept,
		Metrics:       metrics,
		TrainActual:   trainY,
		TrainPredict:  trainPred,
		TestActual:    testY,
		TestPredict:   testPred,
		Distribution:  errorDistribution(testResiduals),
		EffectiveRank: fit.rank,
		Seed:          opts.Seed,
	})

	t.logger.Info("trained %s model: rank %d/%d, test R2 %.4f, test MAE %.4f",
		opts.Target, fit.rank, len(names), metrics.Test.R2, metrics.Test.MAE)
	if imp := m.Importance(); len(imp) > 0 {
		t.logger.Debug("top feature %s (coefficient %.4f)", imp[0].Feature, imp[0].Coefficient)
	}
	return m, nil
}

// Predict applies m to records. It fails with ErrModelNotTrained when m is
// nil and with ErrSchemaMismatch when the records' feature schema differs
// from the one m was trained on.
func (t *Trainer) Predict(m *model.TrainedModel, records []series.Record) ([]model.Prediction, error) {
	if m == nil {
		return nil, core.ErrModelNotTrained
	}
	matrix, err := t.engineer.Transform(records)
	if err != nil {
		return nil, err
	}
	expected := matrix.Schema.ModelColumns(m.Target(), t.excludeDerived)
	trained := m.FeatureNames()
	if !slices.Equal(expected, trained) {
		return nil, fmt.Errorf("%w: model trained on %d features, input yields %d",
			core.ErrSchemaMismatch, len(trained), len(expected))
	}
	rows, err := matrix.Select(trained)
	if err != nil {
		return nil, err
	}

	actual := matrix.Target(m.Target())
	out := make([]model.Prediction, len(rows))
	for i, row := range rows {
		out[i] = model.Prediction{
			Timestamp: matrix.Timestamps[i],
			Predicted: m.PredictRow(row),
			Actual:    actual[i],
		}
	}
	return out, nil
}

func predictAll(fit *olsFit, rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = fit.predict(row)
	}
	return out
}

// Predictor is the single-model surface used by the CLI train command. It
// holds the current model behind an atomic pointer. Train publishes a new
// model only on success; readers load the pointer once and see either the
// old model or the new one. Sessions use Trainer directly and keep their own
// state.
type Predictor struct {
	trainer     *Trainer
	sampleCount int
	current     atomic.Pointer[model.TrainedModel]
}

// New creates a predictor with no model.
func New(engineer *features.Engineer, cfg config.TrainingConfig, logger *internal.Logger) *Predictor {
	return &Predictor{
		trainer:     NewTrainer(engineer, cfg, logger),
		sampleCount: cfg.SampleCount,
	}
}

// Train fits a model and makes it current.
func (p *Predictor) Train(records []series.Record, target model.Target, testFraction float64, seed int64) (*model.TrainedModel, error) {
	m, err := p.trainer.Train(records, Options{Target: target, TestFraction: testFraction, Seed: seed})
	if err != nil {
		return nil, err
	}
	p.current.Store(m)
	return m, nil
}

// Model returns the current model.
func (p *Predictor) Model() (*model.TrainedModel, error) {
	m := p.current.Load()
	if m == nil {
		return nil, core.ErrModelNotTrained
	}
	return m, nil
}

// Metrics returns train and test metrics of the current model.
func (p *Predictor) Metrics() (model.Metrics, error) {
	m, err := p.Model()
	if err != nil {
		return model.Metrics{}, err
	}
	return m.Metrics(), nil
}

// FeatureImportance ranks the current model's features by |coefficient|.
func (p *Predictor) FeatureImportance() ([]model.FeatureImportance, error) {
	m, err := p.Model()
	if err != nil {
		return nil, err
	}
	return m.Importance(), nil
}

// ErrorDistribution summarises the current model's test residuals.
func (p *Predictor) ErrorDistribution() (model.ErrorDistribution, error) {
	m, err := p.Model()
	if err != nil {
		return model.ErrorDistribution{}, err
	}
	return m.ErrorDistribution(), nil
}

// PredictionSamples returns the first n test predictions.
func (p *Predictor) PredictionSamples(n int) ([]model.Sample, error) {
	m, err := p.Model()
	if err != nil {
		return nil, err
	}
	return m.Samples(n), nil
}

// ModelSummary returns the numerical explanation of the current model.
func (p *Predictor) ModelSummary() (model.Summary, error) {
	m, err := p.Model()
	if err != nil {
		return model.Summary{}, err
	}
	return m.Summary(p.sampleCount), nil
}

// Predict applies the current model to records.
func (p *Predictor) Predict(records []series.Record) ([]model.Prediction, error) {
	m, err := p.Model()
	if err != nil {
		return nil, err
	}
	return p.trainer.Predict(m, records)
}
