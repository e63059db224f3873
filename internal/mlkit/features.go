// Package mlkit implements the model registry behind the train and
// predict endpoints: feature encoding, the regressors themselves, and
// the transparent OLS fit reported alongside them.
package mlkit

import (
	"fmt"
	"math"
	"sort"

	"orion/domain/core"
)

// MissingLevel is the category assigned to absent categorical values
// when missing data is kept.
const MissingLevel = "MISSING"

// FeatureColumn is one raw feature aligned by row. Numeric holds the
// values for numeric features (nil = missing); Labels holds the values
// for categorical features ("" = missing).
type FeatureColumn struct {
	Key         core.ColumnKey
	Name        string
	Categorical bool
	Numeric     []*float64
	Labels      []string
}

// Encoder turns raw feature columns into a scaled, one-hot design
// matrix. Fit on training data; all fields are exported so a fitted
// encoder round-trips through the artifact store.
type Encoder struct {
	Columns            []EncodedColumn     `json:"columns"`
	CategoricalValues  map[string][]string `json:"categorical_values"`
	TreatMissingAsZero bool                `json:"treat_missing_as_zero"`
}

// EncodedColumn is the fitted spec for one input feature.
type EncodedColumn struct {
	Key         core.ColumnKey `json:"key"`
	Name        string         `json:"name"`
	Categorical bool           `json:"categorical"`
	Levels      []string       `json:"levels,omitempty"`
	Mean        float64        `json:"mean,omitempty"`
	Std         float64        `json:"std,omitempty"`
}

// FitEncoder learns scaling parameters and categorical levels from the
// training rows.
func FitEncoder(cols []FeatureColumn, treatMissingAsZero bool) (*Encoder, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no feature columns")
	}
	enc := &Encoder{
		TreatMissingAsZero: treatMissingAsZero,
		CategoricalValues:  map[string][]string{},
	}
	for _, c := range cols {
		ec := EncodedColumn{Key: c.Key, Name: c.Name, Categorical: c.Categorical}
		if c.Categorical {
			set := map[string]struct{}{}
			for _, l := range c.Labels {
				if l == "" {
					if treatMissingAsZero {
						set[MissingLevel] = struct{}{}
					}
					continue
				}
				set[l] = struct{}{}
			}
			levels := make([]string, 0, len(set))
			for l := range set {
				levels = append(levels, l)
			}
			sort.Strings(levels)
			if len(levels) == 0 {
				return nil, fmt.Errorf("categorical feature %s has no observed levels", c.Name)
			}
			ec.Levels = levels
			enc.CategoricalValues[string(c.Key)] = levels
		} else {
			var sum, sumSq float64
			var n int
			for _, v := range c.Numeric {
				x := 0.0
				if v != nil && !math.IsNaN(*v) {
					x = *v
				} else if !treatMissingAsZero {
					continue
				}
				sum += x
				sumSq += x * x
				n++
			}
			if n == 0 {
				return nil, fmt.Errorf("numeric feature %s has no usable values", c.Name)
			}
			mean := sum / float64(n)
			variance := sumSq/float64(n) - mean*mean
			if variance < 0 {
				variance = 0
			}
			ec.Mean = mean
			ec.Std = math.Sqrt(variance)
		}
		enc.Columns = append(enc.Columns, ec)
	}
	return enc, nil
}

// EncodedNames lists the design-matrix column names in output order.
func (e *Encoder) EncodedNames() []string {
	var names []string
	for _, c := range e.Columns {
		if c.Categorical {
			for _, l := range c.Levels {
				names = append(names, c.Name+"="+l)
			}
		} else {
			names = append(names, c.Name)
		}
	}
	return names
}

// Width is the number of encoded design-matrix columns.
func (e *Encoder) Width() int {
	w := 0
	for _, c := range e.Columns {
		if c.Categorical {
			w += len(c.Levels)
		} else {
			w++
		}
	}
	return w
}

// Transform encodes aligned feature columns into a design matrix. The
// column order must match the order the encoder was fitted with.
func (e *Encoder) Transform(cols []FeatureColumn, rowCount int) ([][]float64, error) {
	if len(cols) != len(e.Columns) {
		return nil, fmt.Errorf("encoder expects %d features, got %d", len(e.Columns), len(cols))
	}
	X := make([][]float64, rowCount)
	for i := range X {
		X[i] = make([]float64, 0, e.Width())
	}
	for ci, spec := range e.Columns {
		c := cols[ci]
		if c.Key != spec.Key {
			return nil, fmt.Errorf("feature order mismatch: expected %s, got %s", spec.Key, c.Key)
		}
		for row := 0; row < rowCount; row++ {
			if spec.Categorical {
				label := ""
				if row < len(c.Labels) {
					label = c.Labels[row]
				}
				X[row] = append(X[row], spec.oneHot(label)...)
			} else {
				var v *float64
				if row < len(c.Numeric) {
					v = c.Numeric[row]
				}
				X[row] = append(X[row], spec.scale(v))
			}
		}
	}
	return X, nil
}

// EncodeRow encodes one prediction input into a design-matrix row.
func (e *Encoder) EncodeRow(values map[core.ColumnKey]any) ([]float64, error) {
	row := make([]float64, 0, e.Width())
	for _, spec := range e.Columns {
		raw, ok := values[spec.Key]
		if spec.Categorical {
			label := ""
			if ok && raw != nil {
				label = fmt.Sprintf("%v", raw)
			}
			row = append(row, spec.oneHot(label)...)
		} else {
			var v *float64
			if ok && raw != nil {
				switch x := raw.(type) {
				case float64:
					v = &x
				case int:
					f := float64(x)
					v = &f
				case string:
					var f float64
					if _, err := fmt.Sscanf(x, "%g", &f); err == nil {
						v = &f
					}
				}
			}
			row = append(row, spec.scale(v))
		}
	}
	return row, nil
}

// oneHot returns the indicator vector for a label; unknown labels
// encode as all zeros, the same way an ignore-unknown encoder behaves.
func (c EncodedColumn) oneHot(label string) []float64 {
	if label == "" {
		label = MissingLevel
	}
	out := make([]float64, len(c.Levels))
	for i, l := range c.Levels {
		if l == label {
			out[i] = 1
			break
		}
	}
	return out
}

func (c EncodedColumn) scale(v *float64) float64 {
	x := 0.0
	if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
		x = *v
	}
	if c.Std > 0 {
		return (x - c.Mean) / c.Std
	}
	return x - c.Mean
}
