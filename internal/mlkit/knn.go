package mlkit

import (
	"fmt"
	"math"
	"sort"
)

// KNNRegressor predicts the distance-weighted mean of the k nearest
// training rows. The whole training set is the model.
type KNNRegressor struct {
	K      int         `json:"k"`
	TrainX [][]float64 `json:"train_x"`
	TrainY []float64   `json:"train_y"`
}

func NewKNNRegressor() *KNNRegressor {
	return &KNNRegressor{K: 5}
}

func (m *KNNRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("knn: bad training shape")
	}
	m.TrainX = X
	m.TrainY = y
	return nil
}

func (m *KNNRegressor) Predict(x []float64) float64 {
	n := len(m.TrainX)
	if n == 0 {
		return 0
	}
	k := m.K
	if k > n {
		k = n
	}

	type neighbor struct {
		dist float64
		y    float64
	}
	nbrs := make([]neighbor, n)
	for i, row := range m.TrainX {
		var d float64
		for j := range row {
			if j < len(x) {
				diff := row[j] - x[j]
				d += diff * diff
			}
		}
		nbrs[i] = neighbor{dist: math.Sqrt(d), y: m.TrainY[i]}
	}
	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i].dist < nbrs[j].dist })

	var wSum, ySum float64
	for _, nb := range nbrs[:k] {
		// exact hits dominate; everything else gets inverse-distance weight
		w := 1 / (nb.dist + 1e-9)
		wSum += w
		ySum += w * nb.y
	}
	return ySum / wSum
}
