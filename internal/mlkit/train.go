package mlkit

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"orion/domain/core"
	"orion/domain/ml"

	"golang.org/x/sync/errgroup"
)

const (
	minTrainingSamples = 10
	testFraction       = 0.2
	splitSeed          = 42
)

// TrainRequest is the fully materialized input to a training run: raw
// feature columns and the target, aligned by row, already filtered.
type TrainRequest struct {
	Features           []FeatureColumn
	Target             []*float64
	TreatMissingAsZero bool
	SelectionMetric    string
}

// Trained bundles everything a training run produces: the API-facing
// result plus the fitted state the artifact store persists.
type Trained struct {
	Result  ml.TrainResult
	Encoder *Encoder
	Models  map[string]Model
}

// Train runs the whole registry concurrently on an 80/20 split and
// picks the best model by the selection metric. Models that fail to
// fit are skipped; only all of them failing is an error.
func Train(ctx context.Context, req TrainRequest) (*Trained, error) {
	rows := usableRows(req)
	if len(rows) < minTrainingSamples {
		return nil, fmt.Errorf("not enough samples for training: need at least %d, have %d", minTrainingSamples, len(rows))
	}

	trainIdx, testIdx := split(rows)
	trainCols := subsetColumns(req.Features, trainIdx)
	testCols := subsetColumns(req.Features, testIdx)
	yTrain := targetAt(req.Target, trainIdx)
	yTest := targetAt(req.Target, testIdx)

	enc, err := FitEncoder(trainCols, req.TreatMissingAsZero)
	if err != nil {
		return nil, err
	}
	xTrain, err := enc.Transform(trainCols, len(trainIdx))
	if err != nil {
		return nil, err
	}
	xTest, err := enc.Transform(testCols, len(testIdx))
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var results []fittedModel

	g, ctx := errgroup.WithContext(ctx)
	for _, label := range RegistryLabels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model, err := NewModel(label)
			if err != nil {
				return err
			}
			if err := model.Fit(xTrain, yTrain); err != nil {
				// a single model failing is not fatal
				return nil
			}
			pred := make([]float64, len(xTest))
			for i, x := range xTest {
				pred[i] = model.Predict(x)
			}
			m := ml.ModelMetrics{
				Label: label,
				R2:    round4(R2(yTest, pred)),
				RMSE:  round4(RMSE(yTest, pred)),
				MAE:   round4(MAE(yTest, pred)),
			}
			if mape := MAPE(yTest, pred); mape != nil {
				r := math.Round(*mape*100) / 100
				m.MAPE = &r
			}
			mu.Lock()
			results = append(results, fittedModel{label: label, model: model, metrics: m})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("all models failed to train")
	}

	// deterministic order regardless of goroutine scheduling
	ordered := make([]fittedModel, 0, len(results))
	for _, label := range RegistryLabels {
		for _, r := range results {
			if r.label == label {
				ordered = append(ordered, r)
			}
		}
	}

	bestIdx := pickBest(ordered, req.SelectionMetric)
	models := make(map[string]Model, len(ordered))
	metrics := make([]ml.ModelMetrics, 0, len(ordered))
	for i, r := range ordered {
		r.metrics.IsBest = i == bestIdx
		metrics = append(metrics, r.metrics)
		models[r.label] = r.model
	}

	result := ml.TrainResult{
		ModelID:             core.ModelID(core.NewID()),
		Models:              metrics,
		BestModelLabel:      ordered[bestIdx].label,
		FeatureNames:        enc.EncodedNames(),
		CategoricalFeatures: enc.CategoricalValues,
	}

	keep, names := enc.LinearColumns()
	if linear, err := FitOLS(xTrain, yTrain, keep, names); err == nil {
		result.LinearRegression = linear
	} else {
		result.LinearRegression = ml.LinearRegressionResult{Equation: "unavailable: " + err.Error()}
	}

	return &Trained{Result: result, Encoder: enc, Models: models}, nil
}

type fittedModel struct {
	label   string
	model   Model
	metrics ml.ModelMetrics
}

func pickBest(results []fittedModel, metric string) int {
	best := 0
	for i, r := range results {
		switch metric {
		case ml.MetricR2:
			if r.metrics.R2 > results[best].metrics.R2 {
				best = i
			}
		case ml.MetricMAE:
			if r.metrics.MAE < results[best].metrics.MAE {
				best = i
			}
		default: // rmse
			if r.metrics.RMSE < results[best].metrics.RMSE {
				best = i
			}
		}
	}
	return best
}

// usableRows returns the row indices training may use. With
// missing-as-zero every row survives; otherwise rows without a target
// are dropped.
func usableRows(req TrainRequest) []int {
	out := make([]int, 0, len(req.Target))
	for i, v := range req.Target {
		if !req.TreatMissingAsZero && (v == nil || math.IsNaN(*v)) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func split(rows []int) (train, test []int) {
	shuffled := append([]int(nil), rows...)
	rng := rand.New(rand.NewSource(splitSeed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	nTest := int(float64(len(shuffled)) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	return shuffled[nTest:], shuffled[:nTest]
}

func subsetColumns(cols []FeatureColumn, idx []int) []FeatureColumn {
	out := make([]FeatureColumn, len(cols))
	for ci, c := range cols {
		sub := FeatureColumn{Key: c.Key, Name: c.Name, Categorical: c.Categorical}
		if c.Categorical {
			sub.Labels = make([]string, len(idx))
			for i, r := range idx {
				if r < len(c.Labels) {
					sub.Labels[i] = c.Labels[r]
				}
			}
		} else {
			sub.Numeric = make([]*float64, len(idx))
			for i, r := range idx {
				if r < len(c.Numeric) {
					sub.Numeric[i] = c.Numeric[r]
				}
			}
		}
		out[ci] = sub
	}
	return out
}

func targetAt(target []*float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		if v := target[r]; v != nil && !math.IsNaN(*v) {
			out[i] = *v
		}
	}
	return out
}
