package mlkit

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Model is a fitted regressor. Implementations carry exported state so
// they can round-trip through the artifact store.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) float64
}

// Registry labels. The branded names are what the UI shows; the Go
// type behind each one is an implementation detail.
const (
	LabelPro   = "Machine Learning - Pro"   // random forest
	LabelAlpha = "Machine Learning - Alpha" // gradient boosting
	LabelSigma = "Machine Learning - Sigma" // single regression tree
	LabelDelta = "Machine Learning - Delta" // ridge
	LabelNova  = "Machine Learning - Nova"  // k-nearest neighbors
)

// RegistryLabels is the canonical training order.
var RegistryLabels = []string{LabelPro, LabelAlpha, LabelSigma, LabelDelta, LabelNova}

// NewModel returns a fresh, unfitted model for a registry label.
func NewModel(label string) (Model, error) {
	switch label {
	case LabelPro:
		return NewRandomForest(), nil
	case LabelAlpha:
		return NewGradientBoost(), nil
	case LabelSigma:
		tree := NewRegressionTree(6, 5)
		tree.Seed = 42
		return tree, nil
	case LabelDelta:
		return NewRidge(), nil
	case LabelNova:
		return NewKNNRegressor(), nil
	default:
		return nil, fmt.Errorf("unknown model label %q", label)
	}
}

// ModelArtifact is the serialized form of a fitted model.
type ModelArtifact struct {
	Label  string          `json:"label"`
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

func modelKind(m Model) string {
	switch m.(type) {
	case *RandomForest:
		return "random_forest"
	case *GradientBoost:
		return "gradient_boost"
	case *RegressionTree:
		return "regression_tree"
	case *Ridge:
		return "ridge"
	case *KNNRegressor:
		return "knn"
	default:
		return ""
	}
}

// MarshalModel serializes a fitted model for storage.
func MarshalModel(label string, m Model) (ModelArtifact, error) {
	kind := modelKind(m)
	if kind == "" {
		return ModelArtifact{}, fmt.Errorf("unserializable model type %T", m)
	}
	params, err := json.Marshal(m)
	if err != nil {
		return ModelArtifact{}, err
	}
	return ModelArtifact{Label: label, Kind: kind, Params: params}, nil
}

// UnmarshalModel restores a fitted model from its stored form.
func UnmarshalModel(a ModelArtifact) (Model, error) {
	var m Model
	switch a.Kind {
	case "random_forest":
		m = &RandomForest{}
	case "gradient_boost":
		m = &GradientBoost{}
	case "regression_tree":
		m = &RegressionTree{}
	case "ridge":
		m = &Ridge{}
	case "knn":
		m = &KNNRegressor{}
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
	if err := json.Unmarshal(a.Params, m); err != nil {
		return nil, err
	}
	return m, nil
}
