package predictor

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"energyexplain/domain/model"
)

// partitionMetrics computes MAE, RMSE and R² of predicted against actual.
func partitionMetrics(actual, predicted []float64) model.PartitionMetrics {
	n := float64(len(actual))
	if n == 0 {
		return model.PartitionMetrics{}
	}
	var absSum, sqSum float64
	for i := range actual {
		r := actual[i] - predicted[i]
		absSum += math.Abs(r)
		sqSum += r * r
	}
	return model.PartitionMetrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		R2:   rSquared(actual, predicted, sqSum),
	}
}

// rSquared is 1 - SSres/SStot. A constant target has no variance to
// explain: the score is 1 for a perfect fit and 0 otherwise.
func rSquared(actual, predicted []float64, ssRes float64) float64 {
	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, v := range actual {
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

// errorDistribution summarises residuals. Quantiles use linear
// interpolation of the empirical distribution.
func errorDistribution(residuals []float64) model.ErrorDistribution {
	if len(residuals) == 0 {
		return model.ErrorDistribution{}
	}
	data := stats.Float64Data(residuals)
	mean, _ := data.Mean()
	std, _ := data.StandardDeviationPopulation()
	lo, _ := data.Min()
	hi, _ := data.Max()

	sorted := make([]float64, len(residuals))
	copy(sorted, residuals)
	sort.Float64s(sorted)

	return model.ErrorDistribution{
		Mean:   mean,
		Std:    std,
		Min:    lo,
		Max:    hi,
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Q25:    stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.LinInterp, sorted, nil),
	}
}
