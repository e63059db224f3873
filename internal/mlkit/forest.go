package mlkit

import (
	"fmt"
	"math/rand"
)

// RandomForest averages bootstrapped, feature-subsampled regression
// trees.
type RandomForest struct {
	NumTrees int               `json:"num_trees"`
	MaxDepth int               `json:"max_depth"`
	MinLeaf  int               `json:"min_leaf"`
	Seed     int64             `json:"seed"`
	Trees    []*RegressionTree `json:"trees"`
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NumTrees: 30, MaxDepth: 10, MinLeaf: 2, Seed: 42}
}

func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	n := len(y)
	if n == 0 {
		return fmt.Errorf("random forest: no training data")
	}
	nFeatures := len(X[0])
	maxFeatures := nFeatures / 3
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.Trees = make([]*RegressionTree, 0, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		bootX := make([][]float64, n)
		bootY := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bootX[i] = X[j]
			bootY[i] = y[j]
		}
		tree := &RegressionTree{
			MaxDepth:    f.MaxDepth,
			MinLeaf:     f.MinLeaf,
			MaxFeatures: maxFeatures,
			Seed:        rng.Int63(),
		}
		if err := tree.Fit(bootX, bootY); err != nil {
			return err
		}
		f.Trees = append(f.Trees, tree)
	}
	return nil
}

func (f *RandomForest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}
