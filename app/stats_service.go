package app

import (
	"context"
	"fmt"
	"sort"

	"orion/domain/core"
	"orion/domain/dataset"
	domainstats "orion/domain/stats"
	internal "orion/internal"
	"orion/internal/config"
	apperrors "orion/internal/errors"
	"orion/internal/frame"
	"orion/internal/insight"
	"orion/internal/stats"
)

// StatsService runs descriptive statistics and tests over stored frames
type StatsService struct {
	datasets *DatasetService
	loader   *FrameLoader
	cfg      config.DataConfig
	logger   *internal.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(datasets *DatasetService, loader *FrameLoader, cfg config.DataConfig, logger *internal.Logger) *StatsService {
	return &StatsService{datasets: datasets, loader: loader, cfg: cfg, logger: logger}
}

// DescriptiveInput selects variables and an optional grouping
type DescriptiveInput struct {
	DatasetID          core.DatasetID
	Variables          []core.ColumnKey
	GroupBy            []core.ColumnKey
	Filters            []dataset.FilterCondition
	SortBy             string // "count" or "mean", empty keeps group-key order
	SortOrder          string // "asc" or "desc"
	IncludeComparisons bool
	Alpha              float64
	ConfidenceLevel    float64
}

// GroupBlock is one group's summary plus its per-variable statistics
type GroupBlock struct {
	Summary domainstats.GroupSummary  `json:"summary"`
	Stats   []domainstats.ColumnStats `json:"stats"`
}

// DescriptiveResult is the full descriptive response
type DescriptiveResult struct {
	Overall     []domainstats.ColumnStats         `json:"overall,omitempty"`
	Groups      []GroupBlock                      `json:"groups,omitempty"`
	Comparisons []domainstats.GroupComparisonTest `json:"comparisons,omitempty"`
	Insights    []insight.Insight                 `json:"insights,omitempty"`
	RowCount    int                               `json:"row_count"`
	Truncated   bool                              `json:"truncated,omitempty"`
}

// Descriptive computes per-column statistics, overall or per group
func (s *StatsService) Descriptive(ctx context.Context, in DescriptiveInput) (*DescriptiveResult, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return nil, err
	}

	variables, err := resolveNumericVariables(ds, f, in.Variables)
	if err != nil {
		return nil, err
	}

	res := &DescriptiveResult{RowCount: f.RowCount()}

	if len(in.GroupBy) == 0 {
		for _, v := range variables {
			res.Overall = append(res.Overall, s.describeColumn(ds, f, v, in.ConfidenceLevel, 0))
		}
		res.Insights = insight.FromColumnStats(res.Overall)
		return res, nil
	}

	groups := f.GroupBy(in.GroupBy)
	if len(groups) == 0 {
		return nil, apperrors.InvalidInput("no usable grouping columns")
	}
	if len(groups) > s.cfg.MaxGroups {
		// Keep the largest groups so a high-cardinality group-by
		// still yields a readable answer.
		sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].RowIdxs) > len(groups[j].RowIdxs) })
		groups = groups[:s.cfg.MaxGroups]
		sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
		res.Truncated = true
	}

	total := f.RowCount()
	var summaries []domainstats.GroupSummary
	for _, g := range groups {
		sub := f.Subset(g.RowIdxs)
		summary := domainstats.GroupSummary{
			GroupKey:    g.Key,
			GroupLabels: g.Labels,
			SampleSize:  len(g.RowIdxs),
		}
		if total > 0 {
			summary.PctOfTotal = stats.Round(float64(len(g.RowIdxs))/float64(total)*100, 2)
		}
		summaries = append(summaries, summary)

		block := GroupBlock{Summary: summary}
		for _, v := range variables {
			block.Stats = append(block.Stats, s.describeColumn(ds, sub, v, in.ConfidenceLevel, total))
		}
		res.Groups = append(res.Groups, block)
	}

	sortGroupBlocks(res.Groups, in.SortBy, in.SortOrder)

	res.Insights = append(res.Insights, insight.FromGroupBalance(summaries)...)

	if in.IncludeComparisons {
		names := ds.ColumnNames()
		for _, v := range variables {
			samples := groupSamples(f, groups, v)
			test, err := stats.CompareGroups(v, names[v], samples, in.Alpha)
			if err != nil {
				s.logger.Debug("[stats] comparison skipped for %s: %v", v, err)
				continue
			}
			res.Comparisons = append(res.Comparisons, test)
			res.Insights = append(res.Insights, insight.FromComparison(test)...)
		}
	}

	return res, nil
}

// ChartDataInput selects one variable grouped by one or more columns.
// Seeds optionally carry caller-precomputed per-group figures that win
// over the locally computed ones.
type ChartDataInput struct {
	DatasetID core.DatasetID
	Variable  core.ColumnKey
	GroupBy   []core.ColumnKey
	Filters   []dataset.FilterCondition
	Seeds     map[string]stats.GroupSeed
}

// ChartDataResult is per-group metrics plus the raw samples charts bin
type ChartDataResult struct {
	Variable core.ColumnKey       `json:"variable"`
	Groups   []stats.GroupMetric  `json:"groups"`
	Rollup   *stats.GroupRollup   `json:"rollup,omitempty"`
	Samples  map[string][]float64 `json:"samples"`
}

// ChartData returns group metrics and raw samples for plotting
func (s *StatsService) ChartData(ctx context.Context, in ChartDataInput) (*ChartDataResult, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return nil, err
	}
	if _, ok := ds.ColumnByKey(in.Variable); !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", in.Variable))
	}

	samples := make(map[string][]float64)
	if len(in.GroupBy) == 0 {
		vals, _ := f.NumericColumn(in.Variable, false)
		samples["all"] = vals
	} else {
		for _, g := range f.GroupBy(in.GroupBy) {
			vals, _ := f.Subset(g.RowIdxs).NumericColumn(in.Variable, false)
			samples[g.Key] = vals
		}
	}

	metrics, rollup := stats.SummarizeGroups(samples, in.Seeds)
	return &ChartDataResult{
		Variable: in.Variable,
		Groups:   metrics,
		Rollup:   rollup,
		Samples:  samples,
	}, nil
}

// HypothesisInput maps a request onto samples. Two-sample group tests
// split Variable by the single GroupBy column; paired tests read
// Variable and SecondVariable row by row.
type HypothesisInput struct {
	DatasetID      core.DatasetID
	TestType       string
	Variable       core.ColumnKey
	SecondVariable core.ColumnKey
	GroupBy        core.ColumnKey
	GroupValues    []string
	Mu             float64
	Alpha          float64
	Alternative    string
	Filters        []dataset.FilterCondition
}

// Hypothesis runs a single named test
func (s *StatsService) Hypothesis(ctx context.Context, in HypothesisInput) (domainstats.HypothesisTestResult, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return domainstats.HypothesisTestResult{}, err
	}

	groups, err := s.hypothesisSamples(ds, f, in)
	if err != nil {
		return domainstats.HypothesisTestResult{}, err
	}

	return stats.RunHypothesisTest(stats.HypothesisRequest{
		TestType:    in.TestType,
		Groups:      groups,
		Mu:          in.Mu,
		Alpha:       in.Alpha,
		Alternative: in.Alternative,
	})
}

func (s *StatsService) hypothesisSamples(ds *dataset.Dataset, f *frame.Frame, in HypothesisInput) ([]stats.GroupSamples, error) {
	if !f.HasColumn(in.Variable) {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", in.Variable))
	}
	names := ds.ColumnNames()

	switch in.TestType {
	case stats.TestOneSampleT:
		vals, _ := f.NumericColumn(in.Variable, false)
		return []stats.GroupSamples{{Label: names[in.Variable], Values: vals}}, nil

	case stats.TestPairedT, stats.TestWilcoxon:
		if !f.HasColumn(in.SecondVariable) {
			return nil, apperrors.InvalidInput("paired tests need a second variable")
		}
		a, b := pairedSamples(f, in.Variable, in.SecondVariable)
		return []stats.GroupSamples{
			{Label: names[in.Variable], Values: a},
			{Label: names[in.SecondVariable], Values: b},
		}, nil

	case stats.TestIndependentT, stats.TestMannWhitney:
		groups, err := splitByGroup(f, in.Variable, in.GroupBy, in.GroupValues)
		if err != nil {
			return nil, err
		}
		if len(groups) != 2 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("two-sample test needs exactly 2 groups, found %d; narrow with group_values", len(groups)))
		}
		return groups, nil

	case stats.TestOneWayANOVA, stats.TestKruskal:
		return splitByGroup(f, in.Variable, in.GroupBy, in.GroupValues)
	}

	return nil, apperrors.InvalidInput(fmt.Sprintf("unknown test type %q", in.TestType))
}

// NormalityInput selects variables for distribution checks
type NormalityInput struct {
	DatasetID core.DatasetID
	Variables []core.ColumnKey
	Alpha     float64
	Filters   []dataset.FilterCondition
}

// Normality checks each variable's distribution shape
func (s *StatsService) Normality(ctx context.Context, in NormalityInput) ([]domainstats.NormalityResult, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return nil, err
	}
	variables, err := resolveNumericVariables(ds, f, in.Variables)
	if err != nil {
		return nil, err
	}

	names := ds.ColumnNames()
	out := make([]domainstats.NormalityResult, 0, len(variables))
	for _, v := range variables {
		vals, _ := f.NumericColumn(v, false)
		out = append(out, stats.CheckNormality(v, names[v], vals, in.Alpha))
	}
	return out, nil
}

// CrosstabInput selects the two categorical axes
type CrosstabInput struct {
	DatasetID core.DatasetID
	RowVar    core.ColumnKey
	ColVar    core.ColumnKey
	Filters   []dataset.FilterCondition
}

// Crosstab tabulates two columns with the chi-square test attached
func (s *StatsService) Crosstab(ctx context.Context, in CrosstabInput) (domainstats.Crosstab, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return domainstats.Crosstab{}, err
	}
	if !f.HasColumn(in.RowVar) || !f.HasColumn(in.ColVar) {
		return domainstats.Crosstab{}, apperrors.NotFound("crosstab column")
	}

	names := ds.ColumnNames()
	rowVals := alignedLabels(f, in.RowVar)
	colVals := alignedLabels(f, in.ColVar)
	ct, err := stats.BuildCrosstab(names[in.RowVar], names[in.ColVar], rowVals, colVals)
	if err != nil {
		return domainstats.Crosstab{}, apperrors.InvalidInput(err.Error())
	}
	return ct, nil
}

// FrequencyInput selects one column for value counting
type FrequencyInput struct {
	DatasetID      core.DatasetID
	Variable       core.ColumnKey
	MaxCategories  int
	IncludeMissing bool
	Filters        []dataset.FilterCondition
}

// Frequency builds a value-count table for one column
func (s *StatsService) Frequency(ctx context.Context, in FrequencyInput) ([]domainstats.FrequencyRow, error) {
	_, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return nil, err
	}
	if !f.HasColumn(in.Variable) {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", in.Variable))
	}

	labels := f.CategoricalColumn(in.Variable, in.IncludeMissing)
	return stats.FrequencyTable(labels, in.MaxCategories), nil
}

// CorrelationInput selects the numeric variables of the matrix;
// empty means every numeric column.
type CorrelationInput struct {
	DatasetID core.DatasetID
	Variables []core.ColumnKey
	Filters   []dataset.FilterCondition
}

// CorrelationResult is the matrix plus derived insights
type CorrelationResult struct {
	Matrix   domainstats.CorrelationMatrix `json:"matrix"`
	Insights []insight.Insight             `json:"insights,omitempty"`
}

// Correlation computes the pairwise-complete Pearson matrix
func (s *StatsService) Correlation(ctx context.Context, in CorrelationInput) (*CorrelationResult, error) {
	ds, f, err := s.load(ctx, in.DatasetID, in.Filters)
	if err != nil {
		return nil, err
	}
	variables, err := resolveNumericVariables(ds, f, in.Variables)
	if err != nil {
		return nil, err
	}

	names := ds.ColumnNames()
	cols := make([]stats.CorrelationColumn, 0, len(variables))
	for _, v := range variables {
		cols = append(cols, stats.CorrelationColumn{
			ColKey: v,
			Name:   names[v],
			Values: alignedValues(f, v),
		})
	}

	matrix, err := stats.PearsonMatrix(cols)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return &CorrelationResult{
		Matrix:   matrix,
		Insights: insight.FromCorrelation(matrix),
	}, nil
}

func (s *StatsService) load(ctx context.Context, id core.DatasetID, filters []dataset.FilterCondition) (*dataset.Dataset, *frame.Frame, error) {
	ds, err := s.datasets.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ds, f.ApplyFilters(filters), nil
}

func (s *StatsService) describeColumn(ds *dataset.Dataset, f *frame.Frame, key core.ColumnKey, level float64, totalForGroupPct int) domainstats.ColumnStats {
	vals, missing := f.NumericColumn(key, false)
	meta, _ := ds.ColumnByKey(key)
	return stats.Describe(stats.DescribeInput{
		ColKey:           key,
		Name:             meta.Name,
		Samples:          vals,
		TotalCount:       f.RowCount(),
		MissingCount:     missing,
		ConfidenceLevel:  level,
		TotalForGroupPct: totalForGroupPct,
	})
}

// resolveNumericVariables validates requested variables or defaults to
// every numeric column.
func resolveNumericVariables(ds *dataset.Dataset, f *frame.Frame, requested []core.ColumnKey) ([]core.ColumnKey, error) {
	if len(requested) == 0 {
		var out []core.ColumnKey
		for _, col := range ds.Columns {
			if col.DType == "float64" {
				out = append(out, col.ColKey)
			}
		}
		if len(out) == 0 {
			return nil, apperrors.InvalidInput("dataset has no numeric columns")
		}
		return out, nil
	}

	for _, v := range requested {
		meta, ok := ds.ColumnByKey(v)
		if !ok || !f.HasColumn(v) {
			return nil, apperrors.NotFound(fmt.Sprintf("column %s", v))
		}
		if meta.DType != "float64" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("column %q is not numeric", v))
		}
	}
	return requested, nil
}

func groupSamples(f *frame.Frame, groups []frame.Group, variable core.ColumnKey) []stats.GroupSamples {
	out := make([]stats.GroupSamples, 0, len(groups))
	for _, g := range groups {
		vals, _ := f.Subset(g.RowIdxs).NumericColumn(variable, false)
		out = append(out, stats.GroupSamples{Label: g.Key, Values: vals})
	}
	return out
}

func splitByGroup(f *frame.Frame, variable, groupBy core.ColumnKey, groupValues []string) ([]stats.GroupSamples, error) {
	if groupBy == "" {
		return nil, apperrors.InvalidInput("group tests need a group_by column")
	}
	if !f.HasColumn(groupBy) {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", groupBy))
	}

	var wanted map[string]bool
	if len(groupValues) > 0 {
		wanted = make(map[string]bool, len(groupValues))
		for _, v := range groupValues {
			wanted[v] = true
		}
	}

	var out []stats.GroupSamples
	for _, g := range f.GroupBy([]core.ColumnKey{groupBy}) {
		if wanted != nil && !wanted[g.Key] {
			continue
		}
		vals, _ := f.Subset(g.RowIdxs).NumericColumn(variable, false)
		out = append(out, stats.GroupSamples{Label: g.Key, Values: vals})
	}
	if len(out) < 2 {
		return nil, apperrors.InvalidInput("group tests need at least 2 groups with data")
	}
	return out, nil
}

// pairedSamples keeps only rows where both columns are present
func pairedSamples(f *frame.Frame, first, second core.ColumnKey) ([]float64, []float64) {
	i, j := f.ColumnIndex(first), f.ColumnIndex(second)
	var a, b []float64
	for _, row := range f.Rows {
		va, oka := frame.AsFloat(row[i])
		vb, okb := frame.AsFloat(row[j])
		if oka && okb {
			a = append(a, va)
			b = append(b, vb)
		}
	}
	return a, b
}

// alignedLabels renders one column as per-row labels, empty for missing
func alignedLabels(f *frame.Frame, key core.ColumnKey) []string {
	idx := f.ColumnIndex(key)
	out := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = frame.CanonicalString(row[idx])
	}
	return out
}

// alignedValues renders one column as per-row numeric pointers,
// nil for missing
func alignedValues(f *frame.Frame, key core.ColumnKey) []*float64 {
	idx := f.ColumnIndex(key)
	out := make([]*float64, len(f.Rows))
	for r, row := range f.Rows {
		if v, ok := frame.AsFloat(row[idx]); ok {
			val := v
			out[r] = &val
		}
	}
	return out
}

func sortGroupBlocks(blocks []GroupBlock, sortBy, order string) {
	if sortBy == "" {
		return
	}

	key := func(b GroupBlock) float64 {
		switch sortBy {
		case "count":
			return float64(b.Summary.SampleSize)
		case "mean":
			if len(b.Stats) > 0 && b.Stats[0].Mean != nil {
				return *b.Stats[0].Mean
			}
		}
		return 0
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if order == "desc" {
			return key(blocks[i]) > key(blocks[j])
		}
		return key(blocks[i]) < key(blocks[j])
	})
}
