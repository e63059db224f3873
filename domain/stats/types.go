package stats

import "orion/domain/core"

// ColumnStats holds descriptive statistics for a single column.
// Optional fields are pointers so absent values serialize as null, the
// same way the frontend expects them.
type ColumnStats struct {
	ColKey       core.ColumnKey `json:"col_key"`
	Name         string         `json:"name"`
	Count        int            `json:"count"`
	MissingCount int            `json:"missing_count"`
	Mean         *float64       `json:"mean,omitempty"`
	Median       *float64       `json:"median,omitempty"`
	Mode         *float64       `json:"mode,omitempty"`
	Std          *float64       `json:"std,omitempty"`
	Variance     *float64       `json:"variance,omitempty"`
	Min          *float64       `json:"min,omitempty"`
	Max          *float64       `json:"max,omitempty"`
	Q1           *float64       `json:"q1,omitempty"`
	Q3           *float64       `json:"q3,omitempty"`
	IQR          *float64       `json:"iqr,omitempty"`
	SEM          *float64       `json:"sem,omitempty"`
	CV           *float64       `json:"cv,omitempty"`
	Range        *float64       `json:"range,omitempty"`
	P5           *float64       `json:"p5,omitempty"`
	P10          *float64       `json:"p10,omitempty"`
	P90          *float64       `json:"p90,omitempty"`
	P95          *float64       `json:"p95,omitempty"`
	Skewness     *float64       `json:"skewness,omitempty"`
	Kurtosis     *float64       `json:"kurtosis,omitempty"`
	CILower      *float64       `json:"ci_lower,omitempty"`
	CIUpper      *float64       `json:"ci_upper,omitempty"`
	Sum          *float64       `json:"sum,omitempty"`
	MissingPct   *float64       `json:"missing_pct,omitempty"`
	GroupPct     *float64       `json:"group_pct,omitempty"`
}

// GroupSummary is the per-group row-count bookkeeping for grouped stats
type GroupSummary struct {
	GroupKey    string            `json:"group_key"`
	GroupLabels map[string]string `json:"group_labels"`
	SampleSize  int               `json:"sample_size"`
	PctOfTotal  float64           `json:"pct_of_total"`
}

// GroupComparisonTest is the result of comparing a variable across groups
type GroupComparisonTest struct {
	Variable        core.ColumnKey  `json:"variable"`
	VariableName    string          `json:"variable_name"`
	TestName        string          `json:"test_name"`
	Statistic       float64         `json:"statistic"`
	PValue          float64         `json:"p_value"`
	Significant     bool            `json:"significant"`
	Alpha           float64         `json:"alpha"`
	EffectSize      *float64        `json:"effect_size,omitempty"`
	EffectSizeName  string          `json:"effect_size_name,omitempty"`
	EffectSizeLabel string          `json:"effect_size_interpretation,omitempty"`
	Interpretation  string          `json:"interpretation"`
	AssumptionsMet  map[string]bool `json:"assumptions_met,omitempty"`
	GroupsSummary   []GroupMoments  `json:"groups_summary,omitempty"`
}

// GroupMoments is the tiny n/mean/std block attached to test results
type GroupMoments struct {
	Group string  `json:"group"`
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// HypothesisTestResult is the outcome of a single hypothesis test
type HypothesisTestResult struct {
	TestName        string         `json:"test_name"`
	TestType        string         `json:"test_type"`
	Statistic       float64        `json:"statistic"`
	PValue          float64        `json:"p_value"`
	Significant     bool           `json:"significant"`
	EffectSize      *float64       `json:"effect_size,omitempty"`
	EffectSizeName  string         `json:"effect_size_name,omitempty"`
	EffectSizeLabel string         `json:"effect_size_interpretation,omitempty"`
	CILower         *float64       `json:"ci_lower,omitempty"`
	CIUpper         *float64       `json:"ci_upper,omitempty"`
	Decision        string         `json:"decision"`
	Interpretation  string         `json:"interpretation"`
	GroupsSummary   []GroupMoments `json:"groups_summary,omitempty"`
}

// NormalityTestDetail is one individual normality test inside a result
type NormalityTestDetail struct {
	TestName  string  `json:"test_name"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	IsNormal  bool    `json:"is_normal"`
}

// NormalityResult aggregates per-variable distribution checks
type NormalityResult struct {
	Variable       core.ColumnKey        `json:"variable"`
	VariableName   string                `json:"variable_name"`
	N              int                   `json:"n"`
	Tests          []NormalityTestDetail `json:"tests"`
	OverallNormal  bool                  `json:"overall_normal"`
	Skewness       float64               `json:"skewness"`
	Kurtosis       float64               `json:"kurtosis"`
	Interpretation string                `json:"interpretation"`
}

// CorrelationMatrix is a symmetric Pearson correlation matrix over the
// variables that survived the zero-variance filter.
type CorrelationMatrix struct {
	Variables     []core.ColumnKey  `json:"variables"`
	VariableNames []string          `json:"variable_names"`
	Matrix        [][]*float64      `json:"matrix"`
	SampleSizes   [][]int           `json:"sample_sizes"`
	Dropped       []string          `json:"dropped,omitempty"`
	StrongPairs   []CorrelationPair `json:"strong_pairs,omitempty"`
}

// CorrelationPair flags one notable off-diagonal entry.
type CorrelationPair struct {
	VarA        string  `json:"var_a"`
	VarB        string  `json:"var_b"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
}

// FrequencyRow is one value bucket in a frequency table
type FrequencyRow struct {
	Value           string  `json:"value"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
	CumulativeCount int     `json:"cumulative_count"`
	CumulativePct   float64 `json:"cumulative_pct"`
}

// Crosstab is a contingency table with its chi-square association test
type Crosstab struct {
	SampleSize       int         `json:"sample_size"`
	RowVariableName  string      `json:"row_variable_name"`
	ColVariableName  string      `json:"col_variable_name"`
	RowLabels        []string    `json:"row_labels"`
	ColLabels        []string    `json:"col_labels"`
	Counts           [][]int     `json:"counts"`
	Percentages      [][]float64 `json:"percentages"`
	RowTotals        []int       `json:"row_totals"`
	ColTotals        []int       `json:"col_totals"`
	GrandTotal       int         `json:"grand_total"`
	ChiSquare        *float64    `json:"chi_square,omitempty"`
	ChiSquarePValue  *float64    `json:"chi_square_p_value,omitempty"`
	CramersV         *float64    `json:"cramers_v,omitempty"`
	DegreesOfFreedom *int        `json:"degrees_of_freedom,omitempty"`
	Interpretation   string      `json:"interpretation,omitempty"`
}
