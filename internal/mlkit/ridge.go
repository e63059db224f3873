package mlkit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is L2-regularized linear regression solved in closed form. The
// intercept term is not penalized.
type Ridge struct {
	Lambda    float64   `json:"lambda"`
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
}

func NewRidge() *Ridge {
	return &Ridge{Lambda: 1.0}
}

func (r *Ridge) Fit(X [][]float64, y []float64) error {
	n := len(y)
	if n == 0 || len(X) != n {
		return fmt.Errorf("ridge: bad training shape")
	}
	p := len(X[0])

	// design matrix with a leading bias column
	a := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			a.Set(i, j+1, X[i][j])
		}
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for j := 1; j <= p; j++ {
		ata.Set(j, j, ata.At(j, j)+r.Lambda)
	}

	var aty mat.VecDense
	aty.MulVec(a.T(), yv)

	var w mat.VecDense
	if err := w.SolveVec(&ata, &aty); err != nil {
		return fmt.Errorf("ridge: singular system: %w", err)
	}

	r.Intercept = w.AtVec(0)
	r.Weights = make([]float64, p)
	for j := 0; j < p; j++ {
		r.Weights[j] = w.AtVec(j + 1)
	}
	return nil
}

func (r *Ridge) Predict(x []float64) float64 {
	out := r.Intercept
	for j, w := range r.Weights {
		if j < len(x) {
			out += w * x[j]
		}
	}
	return out
}
