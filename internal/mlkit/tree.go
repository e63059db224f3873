package mlkit

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree. Leaves have nil children
// and carry the mean of the training targets that reached them.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Value     float64   `json:"value"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

// RegressionTree is a CART-style variance-reduction tree.
type RegressionTree struct {
	MaxDepth    int       `json:"max_depth"`
	MinLeaf     int       `json:"min_leaf"`
	MaxFeatures int       `json:"max_features"` // 0 = all
	Seed        int64     `json:"seed"`
	Root        *TreeNode `json:"root"`
}

// NewRegressionTree builds an unfitted tree with the given limits.
func NewRegressionTree(maxDepth, minLeaf int) *RegressionTree {
	return &RegressionTree{MaxDepth: maxDepth, MinLeaf: minLeaf}
}

func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(t.Seed))
	t.Root = t.grow(X, y, idx, 0, rng)
	return nil
}

func (t *RegressionTree) Predict(x []float64) float64 {
	node := t.Root
	if node == nil {
		return 0
	}
	for node.Left != nil && node.Right != nil {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func (t *RegressionTree) grow(X [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *TreeNode {
	node := &TreeNode{Value: meanAt(y, idx)}
	if depth >= t.MaxDepth || len(idx) < 2*t.MinLeaf {
		return node
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, rng)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinLeaf || len(right) < t.MinLeaf {
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(X, y, left, depth+1, rng)
	node.Right = t.grow(X, y, right, depth+1, rng)
	return node
}

// bestSplit scans candidate thresholds and keeps the one with the
// lowest weighted child variance. When MaxFeatures is set, a random
// feature subset is considered, which is what makes the forest's trees
// decorrelated.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, rng *rand.Rand) (int, float64, bool) {
	nFeatures := len(X[idx[0]])
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < nFeatures {
		rng.Shuffle(nFeatures, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:t.MaxFeatures]
	}

	parentScore := sseAt(y, idx)
	bestGain := 1e-12
	bestFeature, bestThreshold := -1, 0.0

	vals := make([]float64, 0, len(idx))
	for _, f := range features {
		vals = vals[:0]
		for _, i := range idx {
			vals = append(vals, X[i][f])
		}
		sort.Float64s(vals)

		for k := 1; k < len(vals); k++ {
			if vals[k] == vals[k-1] {
				continue
			}
			threshold := (vals[k] + vals[k-1]) / 2

			var lSum, lSq, rSum, rSq float64
			var lN, rN int
			for _, i := range idx {
				v := y[i]
				if X[i][f] <= threshold {
					lSum += v
					lSq += v * v
					lN++
				} else {
					rSum += v
					rSq += v * v
					rN++
				}
			}
			if lN < t.MinLeaf || rN < t.MinLeaf {
				continue
			}
			childScore := (lSq - lSum*lSum/float64(lN)) + (rSq - rSum*rSum/float64(rN))
			if gain := parentScore - childScore; gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}
	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	var sum float64
	for _, i := range idx {
		d := y[i] - m
		sum += d * d
	}
	return sum
}
