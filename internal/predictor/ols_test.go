package predictor

import (
	"testing"

	"energyexplain/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSExact(t *testing.T) {
	x := [][]float64{{1, 0}, {2, 1}, {3, 0}, {4, 1}, {5, 0}}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 3 + 2*row[0] - 4*row[1]
	}

	fit, err := fitOLS(x, y, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2, fit.coefficients[0], 1e-10)
	assert.InDelta(t, -4, fit.coefficients[1], 1e-10)
	assert.InDelta(t, 3, fit.intercept, 1e-10)
	assert.Equal(t, 2, fit.rank)
	assert.InDelta(t, 3+2*10-4, fit.predict([]float64{10, 1}), 1e-9)
}

func TestFitOLSMinimumNormForCollinearColumns(t *testing.T) {
	// duplicated column and a constant column
	x := [][]float64{{1, 1, 7}, {2, 2, 7}, {3, 3, 7}, {4, 4, 7}, {6, 6, 7}}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 1 + 2*row[0]
	}

	fit, err := fitOLS(x, y, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, 1, fit.rank)
	assert.InDelta(t, 1, fit.coefficients[0], 1e-10)
	assert.InDelta(t, 1, fit.coefficients[1], 1e-10)
	assert.InDelta(t, 0, fit.coefficients[2], 1e-10)
	assert.InDelta(t, 1, fit.intercept, 1e-9)
}

func TestFitOLSFailures(t *testing.T) {
	_, err := fitOLS([][]float64{{1, 2}, {3, 4}}, []float64{1, 2}, 0)
	assert.ErrorIs(t, err, core.ErrModelTraining, "n < p+1")

	_, err = fitOLS(nil, nil, 0)
	assert.ErrorIs(t, err, core.ErrModelTraining)

	constant := [][]float64{{5}, {5}, {5}, {5}}
	_, err = fitOLS(constant, []float64{1, 2, 3, 4}, 0)
	assert.ErrorIs(t, err, core.ErrModelTraining, "rank 0")
}

func TestSplitRows(t *testing.T) {
	part, err := splitRows(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, part.test, 2)
	assert.Len(t, part.train, 8)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, part.test...), part.train...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 10)

	again, err := splitRows(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, part, again)

	part, err = splitRows(11, 0.25, 1)
	require.NoError(t, err)
	assert.Len(t, part.test, 3)

	_, err = splitRows(10, 0, 1)
	assert.ErrorIs(t, err, core.ErrModelTraining)
	_, err = splitRows(1, 0.5, 1)
	assert.ErrorIs(t, err, core.ErrModelTraining)
}

func TestPartitionMetrics(t *testing.T) {
	m := partitionMetrics([]float64{1, 2, 3}, []float64{1, 2, 4})
	assert.InDelta(t, 1.0/3, m.MAE, 1e-12)
	assert.InDelta(t, 0.5773502691896257, m.RMSE, 1e-12)
	assert.InDelta(t, 0.5, m.R2, 1e-12)

	assert.Equal(t, 1.0, partitionMetrics([]float64{2, 2}, []float64{2, 2}).R2)
	assert.Equal(t, 0.0, partitionMetrics([]float64{2, 2}, []float64{2, 3}).R2)
}

func TestErrorDistribution(t *testing.T) {
	d := errorDistribution([]float64{4, -1, 2, 3, 1})
	assert.InDelta(t, 1.8, d.Mean, 1e-12)
	assert.InDelta(t, 1.7204650534085253, d.Std, 1e-12)
	assert.Equal(t, -1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.LessOrEqual(t, d.Q25, d.Median)
	assert.LessOrEqual(t, d.Median, d.Q75)
	assert.GreaterOrEqual(t, d.Q25, d.Min)
	assert.LessOrEqual(t, d.Q75, d.Max)
}
