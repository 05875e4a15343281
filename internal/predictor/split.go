package predictor

import (
	"fmt"
	"math"
	"math/rand"

	"energyexplain/domain/core"
)

// partition holds row indices; test indices are kept in permutation order.
type partition struct {
	train []int
	test  []int
}

// splitRows permutes 0..n-1 with a seeded source and takes the first
// ceil(n*fraction) indices as the test partition.
func splitRows(n int, fraction float64, seed int64) (partition, error) {
	if !(fraction > 0 && fraction < 1) {
		return partition{}, core.NewTrainingError(fmt.Sprintf("test fraction %v outside (0,1)", fraction))
	}
	nTest := int(math.Ceil(float64(n) * fraction))
	if nTest >= n {
		return partition{}, core.NewTrainingError(fmt.Sprintf("%d rows leave no training data at test fraction %v", n, fraction))
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return partition{test: perm[:nTest], train: perm[nTest:]}, nil
}

func gather(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for k, i := range idx {
		out[k] = rows[i]
	}
	return out
}

func gatherValues(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = values[i]
	}
	return out
}
