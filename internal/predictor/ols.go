package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"energyexplain/domain/core"
)

const machineEpsilon = 2.220446049250313e-16

// olsFit is the result of a least-squares solve.
type olsFit struct {
	coefficients []float64
	intercept    float64
	rank         int
}

// fitOLS solves min ||y - b0 - X b|| on column-centred data with a thin SVD.
// Singular values at or below rcond*max(sigma) are treated as zero, which
// yields the minimum-norm solution when columns are constant or collinear.
// rcond <= 0 selects eps*max(n,p).
func fitOLS(x [][]float64, y []float64, rcond float64) (*olsFit, error) {
	n := len(x)
	if n == 0 {
		return nil, core.NewTrainingError("empty training partition")
	}
	p := len(x[0])
	if n < p+1 {
		return nil, core.NewTrainingError(fmt.Sprintf("%d training rows for %d features; need at least %d", n, p, p+1))
	}
	if len(y) != n {
		return nil, core.NewTrainingError(fmt.Sprintf("%d targets for %d rows", len(y), n))
	}

	xMean := make([]float64, p)
	for i, row := range x {
		if len(row) != p {
			return nil, core.NewTrainingError(fmt.Sprintf("row %d has %d values, want %d", i, len(row), p))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.NewTrainingError(fmt.Sprintf("non-finite feature value at row %d column %d", i, j))
			}
		}
		floats.Add(xMean, row)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewTrainingError(fmt.Sprintf("non-finite target at row %d", i))
		}
	}
	floats.Scale(1/float64(n), xMean)
	yMean := floats.Sum(y) / float64(n)

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i, row := range x {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, core.NewTrainingError("singular value decomposition did not converge")
	}
	if rcond <= 0 {
		rcond = machineEpsilon * float64(max(n, p))
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, core.NewTrainingError("feature matrix has no variance (effective rank 0)")
	}

	beta := mat.NewVecDense(p, nil)
	svd.SolveVecTo(beta, b, rank)

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j)
		if math.IsNaN(coef[j]) || math.IsInf(coef[j], 0) {
			return nil, core.NewTrainingError("solution is not finite")
		}
	}

	return &olsFit{
		coefficients: coef,
		intercept:    yMean - floats.Dot(xMean, coef),
		rank:         rank,
	}, nil
}

func (f *olsFit) predict(row []float64) float64 {
	return f.intercept + floats.Dot(f.coefficients, row)
}
