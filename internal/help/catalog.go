// Package help holds the static topic catalog and the free-text
// matcher behind the in-app help endpoint.
package help

import (
	"sort"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Topic is one entry in the help catalog. Body is markdown source;
// BodyHTML carries the rendered form.
type Topic struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Aliases  []string `json:"aliases,omitempty"`
	Body     string   `json:"body"`
	BodyHTML string   `json:"body_html"`
	Related  []string `json:"related,omitempty"`
}

var (
	catalogOnce sync.Once
	catalog     []Topic
)

// Catalog returns the full topic list: the curated base topics first,
// then one generated topic per statistics-tooltip entry in key order.
// Built once; the slice must be treated as read-only.
func Catalog() []Topic {
	catalogOnce.Do(func() {
		catalog = append(catalog, baseTopics...)
		keys := make([]string, 0, len(statTooltips))
		for k := range statTooltips {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tip := statTooltips[k]
			catalog = append(catalog, Topic{
				ID:      k,
				Title:   tip.Title,
				Aliases: tip.Aliases,
				Body:    tip.Body,
				Related: []string{"descriptive-statistics"},
			})
		}
		for i := range catalog {
			catalog[i].BodyHTML = renderBody(catalog[i].Body)
		}
	})
	return catalog
}

// TopicByID returns the topic with the given id, or false.
func TopicByID(id string) (Topic, bool) {
	for _, t := range Catalog() {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

func renderBody(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

var baseTopics = []Topic{
	{
		ID:      "getting-started",
		Title:   "Getting started",
		Aliases: []string{"introduction", "first steps", "how do I start"},
		Body: "Upload a spreadsheet (XLSX or CSV), then open the **Statistics** tab to explore your columns. " +
			"Numeric columns get descriptive statistics; categorical columns get frequency tables.",
		Related: []string{"upload-data", "descriptive-statistics"},
	},
	{
		ID:      "upload-data",
		Title:   "Uploading data",
		Aliases: []string{"import", "spreadsheet", "xlsx", "csv", "file upload"},
		Body: "Supported formats are `.xlsx` and `.csv` up to the configured size limit. The first row is read as " +
			"column headers. Column types (categorical, discrete, continuous) are detected automatically from the values.",
		Related: []string{"variable-types"},
	},
	{
		ID:      "variable-types",
		Title:   "Variable types",
		Aliases: []string{"categorical", "continuous", "discrete", "column type", "dtype"},
		Body: "Columns are classified as **categorical** (text labels), **discrete** (numeric with few distinct values), " +
			"or **continuous** (numeric with many distinct values). The type decides which analyses apply.",
		Related: []string{"descriptive-statistics", "crosstab"},
	},
	{
		ID:      "descriptive-statistics",
		Title:   "Descriptive statistics",
		Aliases: []string{"summary", "describe", "column stats", "averages"},
		Body: "Per-column summaries: central tendency (mean, median, mode), dispersion (standard deviation, variance, " +
			"IQR, coefficient of variation), distribution shape (skewness, kurtosis), and a confidence interval for the mean. " +
			"Group by a categorical column to compare segments.",
		Related: []string{"group-comparison", "mean", "std"},
	},
	{
		ID:      "group-comparison",
		Title:   "Comparing groups",
		Aliases: []string{"t-test", "anova", "difference between groups", "significance"},
		Body: "When statistics are grouped, the appropriate test is chosen automatically: a t-test or Mann-Whitney for " +
			"two groups, ANOVA or Kruskal-Wallis for three or more, depending on normality and variance checks. " +
			"A p-value below 0.05 marks the difference significant.",
		Related: []string{"hypothesis-tests", "p-value", "effect-size"},
	},
	{
		ID:      "hypothesis-tests",
		Title:   "Hypothesis tests",
		Aliases: []string{"statistical test", "t test", "mann whitney", "wilcoxon", "kruskal"},
		Body: "Run a specific test by name: one-sample t, independent t (Welch), paired t, Mann-Whitney U, " +
			"Wilcoxon signed-rank, one-way ANOVA, or Kruskal-Wallis. Each result includes the statistic, p-value, " +
			"effect size, and a plain-language interpretation.",
		Related: []string{"group-comparison", "normality"},
	},
	{
		ID:      "normality",
		Title:   "Normality checks",
		Aliases: []string{"normal distribution", "dagostino", "kolmogorov", "bell curve"},
		Body: "Normality is assessed with the D'Agostino K² omnibus test and a Kolmogorov-Smirnov test against a " +
			"fitted normal. Non-normal variables are routed to rank-based tests.",
		Related: []string{"hypothesis-tests", "skewness"},
	},
	{
		ID:      "correlation",
		Title:   "Correlation",
		Aliases: []string{"pearson", "relationship", "correlation matrix", "r value"},
		Body: "Pearson correlations are computed pairwise over complete observations. Columns without variation are " +
			"excluded. Coefficients above 0.5 in magnitude are flagged as notable pairs.",
		Related: []string{"descriptive-statistics"},
	},
	{
		ID:      "crosstab",
		Title:   "Crosstabs",
		Aliases: []string{"contingency table", "chi square", "cross tabulation", "pivot"},
		Body: "Crosstabs count the joint occurrences of two categorical columns and test independence with " +
			"chi-square. Cramér's V reports the strength of the association.",
		Related: []string{"variable-types"},
	},
	{
		ID:      "train-model",
		Title:   "Training models",
		Aliases: []string{"machine learning", "ml", "prediction model", "regression", "train"},
		Body: "Pick a numeric target and one or more feature columns. Several models are trained on an 80/20 split " +
			"and scored on the holdout; the best one by the selection metric is kept for predictions. A transparent " +
			"linear regression with coefficient significance is reported alongside.",
		Related: []string{"predictions", "model-metrics"},
	},
	{
		ID:      "model-metrics",
		Title:   "Model metrics",
		Aliases: []string{"r2", "rmse", "mae", "accuracy", "score"},
		Body: "Models are compared on the holdout set using R² (variance explained), RMSE (root mean squared error), " +
			"MAE (mean absolute error), and MAPE where defined. The selection metric decides the winner.",
		Related: []string{"train-model"},
	},
	{
		ID:      "predictions",
		Title:   "Making predictions",
		Aliases: []string{"predict", "scoring", "what if"},
		Body: "A trained model accepts one row of feature values and returns the predicted target. Projects wrap a " +
			"model in a reusable input form with per-field validation.",
		Related: []string{"projects", "train-model"},
	},
	{
		ID:      "scenarios",
		Title:   "Scenarios",
		Aliases: []string{"save analysis", "saved view", "snapshot"},
		Body: "A scenario saves the full analysis setup — filters, selected variables, grouping, and model " +
			"configuration — so it can be reloaded against the same dataset later.",
		Related: []string{"projects"},
	},
	{
		ID:      "projects",
		Title:   "Projects",
		Aliases: []string{"prediction form", "deploy model", "share model"},
		Body: "A project packages a trained model into a prediction form. The input schema is derived from the " +
			"training features: categorical features become dropdowns, numeric ones become number fields with " +
			"sensible defaults.",
		Related: []string{"predictions", "scenarios"},
	},
	{
		ID:      "filters",
		Title:   "Filtering rows",
		Aliases: []string{"subset", "where", "filter data"},
		Body: "Filters restrict every analysis to rows whose column values match the selected set. Filters combine " +
			"with AND across columns and OR within a column's selected values.",
		Related: []string{"descriptive-statistics"},
	},
	{
		ID:      "activity-log",
		Title:   "Activity log",
		Aliases: []string{"audit", "history", "who did what"},
		Body:    "Uploads, accesses, updates, deletions, and predictions are recorded with the acting user and client address.",
	},
}

type tooltip struct {
	Title   string
	Aliases []string
	Body    string
}

// statTooltips mirrors the glossary shown next to each statistic in the
// UI; every entry becomes a help topic.
var statTooltips = map[string]tooltip{
	"mean": {
		Title:   "Mean",
		Aliases: []string{"average", "arithmetic mean"},
		Body:    "The arithmetic average: sum of values divided by their count. Sensitive to outliers.",
	},
	"median": {
		Title:   "Median",
		Aliases: []string{"middle value", "50th percentile"},
		Body:    "The middle value when the data is sorted. Robust to outliers.",
	},
	"mode": {
		Title:   "Mode",
		Aliases: []string{"most frequent value"},
		Body:    "The most frequently occurring value.",
	},
	"std": {
		Title:   "Standard deviation",
		Aliases: []string{"std dev", "sigma", "spread"},
		Body:    "Typical distance of values from the mean. Computed with the sample (n−1) denominator.",
	},
	"variance": {
		Title:   "Variance",
		Aliases: []string{"squared deviation"},
		Body:    "The average squared distance from the mean (sample variance, n−1 denominator).",
	},
	"sem": {
		Title:   "Standard error of the mean",
		Aliases: []string{"standard error", "se"},
		Body:    "Standard deviation divided by the square root of the sample size; how precisely the mean is estimated.",
	},
	"cv": {
		Title:   "Coefficient of variation",
		Aliases: []string{"relative std", "cv percent"},
		Body:    "Standard deviation as a percentage of the mean. Values above 30 indicate high relative variability.",
	},
	"iqr": {
		Title:   "Interquartile range",
		Aliases: []string{"middle 50"},
		Body:    "The distance between the 25th and 75th percentiles; the span of the middle half of the data.",
	},
	"quartiles": {
		Title:   "Quartiles",
		Aliases: []string{"q1", "q3", "percentile"},
		Body:    "Q1 and Q3 are the 25th and 75th percentiles, computed with linear interpolation between order statistics.",
	},
	"skewness": {
		Title:   "Skewness",
		Aliases: []string{"asymmetry", "skew"},
		Body:    "Asymmetry of the distribution. Positive values mean a long right tail; magnitudes above 1.5 are strongly skewed.",
	},
	"kurtosis": {
		Title:   "Kurtosis",
		Aliases: []string{"tailedness", "excess kurtosis"},
		Body:    "Tail weight relative to a normal distribution (excess kurtosis; normal = 0).",
	},
	"confidence-interval": {
		Title:   "Confidence interval",
		Aliases: []string{"ci", "95 percent interval", "margin of error"},
		Body:    "The range expected to contain the true mean with the stated confidence (95% by default), based on the t-distribution.",
	},
	"p-value": {
		Title:   "p-value",
		Aliases: []string{"significance", "alpha", "p value"},
		Body:    "The probability of observing a difference at least this large if there were no real effect. Below 0.05 is conventionally significant.",
	},
	"effect-size": {
		Title:   "Effect size",
		Aliases: []string{"cohens d", "eta squared", "practical significance"},
		Body:    "How large a difference is, independent of sample size: Cohen's d for two groups, eta squared for three or more.",
	},
	"missing-values": {
		Title:   "Missing values",
		Aliases: []string{"nulls", "blanks", "missing data"},
		Body:    "Empty cells are excluded from numeric calculations by default. Columns missing more than 20% of values are flagged.",
	},
}
