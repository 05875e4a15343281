package model

import (
	"math"
	"sort"
	"time"
)

// Target names the column a model predicts.
type Target string

const (
	TargetPrice       Target = "price"
	TargetConsumption Target = "consumption"
)

// ParseTarget accepts the column names used at the ingestion boundary.
func ParseTarget(s string) (Target, bool) {
	switch s {
	case "price":
		return TargetPrice, true
	case "consumption", "energy_consumption":
		return TargetConsumption, true
	}
	return "", false
}

// PartitionMetrics are goodness-of-fit measures for one partition.
type PartitionMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Metrics hold train and test metrics computed from the model's own predictions.
type Metrics struct {
	Train PartitionMetrics `json:"train"`
	Test  PartitionMetrics `json:"test"`
}

// FeatureImportance is one entry of the coefficient-magnitude ranking.
type FeatureImportance struct {
	Feature        string  `json:"feature"`
	Coefficient    float64 `json:"coefficient"`
	AbsCoefficient float64 `json:"abs_coefficient"`
}

// Sample is one test-set prediction next to its actual value.
type Sample struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
	Error     float64 `json:"error"`
}

// ErrorDistribution summarises test residuals (actual - predicted).
type ErrorDistribution struct {
	Mean   float64 `json:"mean_error"`
	Std    float64 `json:"std_error"`
	Min    float64 `json:"min_error"`
	Max    float64 `json:"max_error"`
	Median float64 `json:"median_error"`
	Q25    float64 `json:"q25_error"`
	Q75    float64 `json:"q75_error"`
}

// Params carries everything a TrainedModel is built from.
type Params struct {
	Target        Target
	FeatureNames  []string
	Coefficients  []float64
	Intercept     float64
	Metrics       Metrics
	TrainActual   []float64
	TrainPredict  []float64
	TestActual    []float64
	TestPredict   []float64
	Distribution  ErrorDistribution
	EffectiveRank int
	Seed          int64
}

// TrainedModel is an immutable fitted linear model. It is produced only by
// the predictor; retraining yields a new value. All accessors return copies.
type TrainedModel struct {
	target       Target
	featureNames []string
	coefficients []float64
	intercept    float64
	metrics      Metrics
	trainActual  []float64
	trainPredict []float64
	testActual   []float64
	testPredict  []float64
	distribution ErrorDistribution
	rank         int
	seed         int64
}

// NewTrainedModel copies p into a new immutable model.
func NewTrainedModel(p Params) *TrainedModel {
	return &TrainedModel{
		target:       p.Target,
		featureNames: clone(p.FeatureNames),
		coefficients: clone(p.Coefficients),
		intercept:    p.Intercept,
		metrics:      p.Metrics,
		trainActual:  clone(p.TrainActual),
		trainPredict: clone(p.TrainPredict),
		testActual:   clone(p.TestActual),
		testPredict:  clone(p.TestPredict),
		distribution: p.Distribution,
		rank:         p.EffectiveRank,
		seed:         p.Seed,
	}
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func (m *TrainedModel) Target() Target                       { return m.target }
func (m *TrainedModel) FeatureNames() []string               { return clone(m.featureNames) }
func (m *TrainedModel) Coefficients() []float64              { return clone(m.coefficients) }
func (m *TrainedModel) Intercept() float64                   { return m.intercept }
func (m *TrainedModel) Metrics() Metrics                     { return m.metrics }
func (m *TrainedModel) ErrorDistribution() ErrorDistribution { return m.distribution }
func (m *TrainedModel) NumFeatures() int                     { return len(m.featureNames) }
func (m *TrainedModel) NumTrain() int                        { return len(m.trainActual) }
func (m *TrainedModel) NumTest() int                         { return len(m.testActual) }
func (m *TrainedModel) EffectiveRank() int                   { return m.rank }
func (m *TrainedModel) Seed() int64                          { return m.seed }

// TrainResiduals returns actual - predicted over the training partition.
func (m *TrainedModel) TrainResiduals() []float64 {
	return residuals(m.trainActual, m.trainPredict)
}

// TestResiduals returns actual - predicted over the test partition.
func (m *TrainedModel) TestResiduals() []float64 {
	return residuals(m.testActual, m.testPredict)
}

func residuals(actual, predicted []float64) []float64 {
	out := make([]float64, len(actual))
	for i := range actual {
		out[i] = actual[i] - predicted[i]
	}
	return out
}

// Importance ranks features by |coefficient|, descending. Ties keep schema
// order. Features are not standardized, so this is the raw-magnitude ranking.
func (m *TrainedModel) Importance() []FeatureImportance {
	out := make([]FeatureImportance, len(m.featureNames))
	for i, name := range m.featureNames {
		out[i] = FeatureImportance{
			Feature:        name,
			Coefficient:    m.coefficients[i],
			AbsCoefficient: math.Abs(m.coefficients[i]),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AbsCoefficient > out[j].AbsCoefficient
	})
	return out
}

// Samples returns up to n test predictions in split order.
func (m *TrainedModel) Samples(n int) []Sample {
	if n > len(m.testActual) {
		n = len(m.testActual)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{
			Actual:    m.testActual[i],
			Predicted: m.testPredict[i],
			Error:     m.testActual[i] - m.testPredict[i],
		}
	}
	return out
}

// PredictRow applies the coefficients to one row in FeatureNames order.
func (m *TrainedModel) PredictRow(row []float64) float64 {
	y := m.intercept
	for i, c := range m.coefficients {
		y += c * row[i]
	}
	return y
}

// Summary is the numerical explanation handed to the UI collaborator.
type Summary struct {
	Target            Target              `json:"target"`
	Metrics           Metrics             `json:"metrics"`
	Importance        []FeatureImportance `json:"importance"`
	Samples           []Sample            `json:"samples"`
	ErrorDistribution ErrorDistribution   `json:"error_distribution"`
	Intercept         float64             `json:"intercept"`
	NumFeatures       int                 `json:"n_features"`
	NumTrain          int                 `json:"n_train_samples"`
	NumTest           int                 `json:"n_test_samples"`
}

// Summary assembles the numerical explanation with up to sampleCount samples.
func (m *TrainedModel) Summary(sampleCount int) Summary {
	return Summary{
		Target:            m.target,
		Metrics:           m.metrics,
		Importance:        m.Importance(),
		Samples:           m.Samples(sampleCount),
		ErrorDistribution: m.distribution,
		Intercept:         m.intercept,
		NumFeatures:       m.NumFeatures(),
		NumTrain:          m.NumTrain(),
		NumTest:           m.NumTest(),
	}
}

// Prediction is the model output for one input timestamp.
type Prediction struct {
	Timestamp time.Time `json:"timestamp"`
	Predicted float64   `json:"predicted"`
	Actual    float64   `json:"actual"`
}
