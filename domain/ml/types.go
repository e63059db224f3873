package ml

import "orion/domain/core"

// Selection metrics accepted by the trainer
const (
	MetricR2   = "r2"
	MetricRMSE = "rmse"
	MetricMAE  = "mae"
)

// ModelMetrics holds quality metrics for one trained model
type ModelMetrics struct {
	Label  string   `json:"label"`
	R2     float64  `json:"r2"`
	RMSE   float64  `json:"rmse"`
	MAE    float64  `json:"mae"`
	MAPE   *float64 `json:"mape,omitempty"`
	IsBest bool     `json:"is_best"`
}

// LinearCoefficient is one term of the OLS fit
type LinearCoefficient struct {
	Feature     string   `json:"feature"`
	Coefficient float64  `json:"coefficient"`
	StdError    *float64 `json:"std_error,omitempty"`
	TValue      *float64 `json:"t_value,omitempty"`
	PValue      *float64 `json:"p_value,omitempty"`
}

// LinearRegressionResult is the transparent OLS fit shown next to the registry models
type LinearRegressionResult struct {
	Equation     string              `json:"equation"`
	R2           float64             `json:"r2"`
	RMSE         float64             `json:"rmse"`
	Intercept    float64             `json:"intercept"`
	Coefficients []LinearCoefficient `json:"coefficients"`
}

// TrainResult is the full outcome of a training run
type TrainResult struct {
	ModelID             core.ModelID           `json:"model_id"`
	Models              []ModelMetrics         `json:"models"`
	BestModelLabel      string                 `json:"best_model_label"`
	LinearRegression    LinearRegressionResult `json:"linear_regression"`
	FeatureNames        []string               `json:"feature_names"`
	CategoricalFeatures map[string][]string    `json:"categorical_features"`
}

// Prediction is the answer to a single predict call
type Prediction struct {
	PredictedValue float64 `json:"predicted_value"`
	ModelUsed      string  `json:"model_used"`
	ExpectedError  float64 `json:"expected_error"`
}

// ArtifactMetadata ties a stored model back to its training inputs
type ArtifactMetadata struct {
	DatasetID           core.DatasetID          `json:"dataset_id"`
	Target              core.ColumnKey          `json:"target"`
	Features            []core.ColumnKey        `json:"features"`
	FeatureNames        []string                `json:"feature_names"`
	CategoricalFeatures map[string][]string     `json:"categorical_features"`
	BestLabel           string                  `json:"best_label"`
	SelectionMetric     string                  `json:"selection_metric"`
	ModelMetrics        map[string]ModelMetrics `json:"model_metrics"`
}
