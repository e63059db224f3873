package mlkit

import "fmt"

// GradientBoost fits shallow regression trees to the running
// residuals, shrunk by the learning rate.
type GradientBoost struct {
	NumRounds    int               `json:"num_rounds"`
	LearningRate float64           `json:"learning_rate"`
	MaxDepth     int               `json:"max_depth"`
	MinLeaf      int               `json:"min_leaf"`
	BasePred     float64           `json:"base_pred"`
	Trees        []*RegressionTree `json:"trees"`
}

func NewGradientBoost() *GradientBoost {
	return &GradientBoost{NumRounds: 100, LearningRate: 0.1, MaxDepth: 3, MinLeaf: 3}
}

func (g *GradientBoost) Fit(X [][]float64, y []float64) error {
	n := len(y)
	if n == 0 {
		return fmt.Errorf("gradient boost: no training data")
	}
	var sum float64
	for _, v := range y {
		sum += v
	}
	g.BasePred = sum / float64(n)

	residuals := make([]float64, n)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.BasePred
	}

	g.Trees = make([]*RegressionTree, 0, g.NumRounds)
	for round := 0; round < g.NumRounds; round++ {
		var totalAbs float64
		for i := range y {
			residuals[i] = y[i] - pred[i]
			if residuals[i] < 0 {
				totalAbs -= residuals[i]
			} else {
				totalAbs += residuals[i]
			}
		}
		// residuals already negligible, further rounds just overfit noise
		if totalAbs/float64(n) < 1e-10 {
			break
		}

		tree := NewRegressionTree(g.MaxDepth, g.MinLeaf)
		if err := tree.Fit(X, residuals); err != nil {
			return err
		}
		g.Trees = append(g.Trees, tree)
		for i := range pred {
			pred[i] += g.LearningRate * tree.Predict(X[i])
		}
	}
	return nil
}

func (g *GradientBoost) Predict(x []float64) float64 {
	out := g.BasePred
	for _, t := range g.Trees {
		out += g.LearningRate * t.Predict(x)
	}
	return out
}
