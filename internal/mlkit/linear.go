package mlkit

import (
	"fmt"
	"math"
	"strings"

	"orion/domain/ml"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearColumns returns the encoded-column indices and names to use for
// an OLS fit: the first level of every categorical feature is dropped
// so the design stays full rank next to the intercept.
func (e *Encoder) LinearColumns() ([]int, []string) {
	var keep []int
	var names []string
	pos := 0
	for _, c := range e.Columns {
		if c.Categorical {
			for li, l := range c.Levels {
				if li > 0 {
					keep = append(keep, pos)
					names = append(names, c.Name+"="+l)
				}
				pos++
			}
		} else {
			keep = append(keep, pos)
			names = append(names, c.Name)
			pos++
		}
	}
	return keep, names
}

// FitOLS fits ordinary least squares with an intercept and reports
// per-coefficient standard errors, t-values, and p-values. X rows are
// full encoded rows; keep selects the design columns.
func FitOLS(X [][]float64, y []float64, keep []int, names []string) (ml.LinearRegressionResult, error) {
	n := len(y)
	p := len(keep)
	if n < p+2 {
		return ml.LinearRegressionResult{}, fmt.Errorf("ols: need more than %d samples for %d terms, have %d", p+1, p, n)
	}

	a := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1)
		for j, col := range keep {
			a.Set(i, j+1, X[i][col])
		}
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var ataInv mat.Dense
	if err := ataInv.Inverse(&ata); err != nil {
		return ml.LinearRegressionResult{}, fmt.Errorf("ols: collinear design: %w", err)
	}

	var aty mat.VecDense
	aty.MulVec(a.T(), yv)
	var beta mat.VecDense
	beta.MulVec(&ataInv, &aty)

	// residual variance and per-coefficient standard errors
	fitted := make([]float64, n)
	var ssRes float64
	for i := 0; i < n; i++ {
		pred := beta.AtVec(0)
		for j, col := range keep {
			pred += beta.AtVec(j+1) * X[i][col]
		}
		fitted[i] = pred
		d := y[i] - pred
		ssRes += d * d
	}
	df := float64(n - p - 1)
	sigma2 := ssRes / df
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	coefs := make([]ml.LinearCoefficient, 0, p)
	for j := 0; j < p; j++ {
		c := ml.LinearCoefficient{
			Feature:     names[j],
			Coefficient: round6(beta.AtVec(j + 1)),
		}
		if v := sigma2 * ataInv.At(j+1, j+1); v > 0 {
			se := math.Sqrt(v)
			t := beta.AtVec(j+1) / se
			if isFinite(se) && isFinite(t) {
				seR, tR := round6(se), round4(t)
				pv := round6(2 * tDist.Survival(math.Abs(t)))
				c.StdError = &seR
				c.TValue = &tR
				c.PValue = &pv
			}
		}
		coefs = append(coefs, c)
	}

	res := ml.LinearRegressionResult{
		Intercept:    round4(beta.AtVec(0)),
		Coefficients: coefs,
		R2:           round4(R2(y, fitted)),
		RMSE:         round4(RMSE(y, fitted)),
	}
	res.Equation = buildEquation(res.Intercept, coefs)
	return res, nil
}

func buildEquation(intercept float64, coefs []ml.LinearCoefficient) string {
	parts := []string{fmt.Sprintf("%g", intercept)}
	limit := len(coefs)
	if limit > 5 {
		limit = 5
	}
	for _, c := range coefs[:limit] {
		sign := "+"
		if c.Coefficient < 0 {
			sign = ""
		}
		parts = append(parts, fmt.Sprintf("%s %g×%s", sign, c.Coefficient, c.Feature))
	}
	if len(coefs) > 5 {
		parts = append(parts, "+ ...")
	}
	return "y = " + strings.Join(parts, " ")
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
