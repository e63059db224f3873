// Package frame holds the in-memory tabular representation of an
// uploaded dataset. Cells are nil (missing), float64, or string;
// coercion happens once at ingestion so every consumer downstream
// works on typed values.
package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"orion/domain/core"
	"orion/domain/dataset"
)

// MissingLabel is the bucket categorical operations use for absent values
const MissingLabel = "(missing)"

// Frame is a column-ordered table of typed cells
type Frame struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// New creates an empty frame with the given column keys
func New(columns []string) *Frame {
	return &Frame{Columns: columns}
}

// RowCount returns the number of data rows
func (f *Frame) RowCount() int {
	return len(f.Rows)
}

// ColumnIndex returns the position of a column key, or -1
func (f *Frame) ColumnIndex(key core.ColumnKey) int {
	for i, col := range f.Columns {
		if col == string(key) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column key exists
func (f *Frame) HasColumn(key core.ColumnKey) bool {
	return f.ColumnIndex(key) >= 0
}

// ApplyFilters returns a frame containing only rows whose filtered
// columns match one of the requested values. Unknown columns and empty
// value lists are ignored, matching is done on canonical string form.
func (f *Frame) ApplyFilters(filters []dataset.FilterCondition) *Frame {
	if len(filters) == 0 {
		return f
	}

	type activeFilter struct {
		idx    int
		wanted map[string]bool
	}

	var active []activeFilter
	for _, cond := range filters {
		idx := f.ColumnIndex(cond.ColKey)
		if idx < 0 || len(cond.Values) == 0 {
			continue
		}
		wanted := make(map[string]bool, len(cond.Values))
		for _, v := range cond.Values {
			wanted[CanonicalString(v)] = true
		}
		active = append(active, activeFilter{idx: idx, wanted: wanted})
	}

	if len(active) == 0 {
		return f
	}

	out := &Frame{Columns: f.Columns}
	for _, row := range f.Rows {
		keep := true
		for _, flt := range active {
			if !flt.wanted[CanonicalString(row[flt.idx])] {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// NumericColumn extracts a column as float64 samples. Missing and
// non-numeric cells become 0 when treatMissingAsZero, otherwise they
// are dropped. The second return is the missing-cell count before
// substitution.
func (f *Frame) NumericColumn(key core.ColumnKey, treatMissingAsZero bool) ([]float64, int) {
	idx := f.ColumnIndex(key)
	if idx < 0 {
		return nil, 0
	}

	values := make([]float64, 0, len(f.Rows))
	missing := 0
	for _, row := range f.Rows {
		v, ok := AsFloat(row[idx])
		if !ok {
			missing++
			if treatMissingAsZero {
				values = append(values, 0)
			}
			continue
		}
		values = append(values, v)
	}
	return values, missing
}

// CategoricalColumn extracts a column as labels. Missing cells map to
// MissingLabel when treatMissingAsZero, otherwise they are dropped.
// String labels are whitespace-normalized so the same category never
// splits into several groups.
func (f *Frame) CategoricalColumn(key core.ColumnKey, treatMissingAsZero bool) []string {
	idx := f.ColumnIndex(key)
	if idx < 0 {
		return nil
	}

	labels := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		label, ok := normalizeLabel(row[idx])
		if !ok {
			if treatMissingAsZero {
				labels = append(labels, MissingLabel)
			}
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// Group is one bucket of a group-by: composite key, per-column labels
// and the indices of its member rows.
type Group struct {
	Key     string
	Labels  map[string]string
	RowIdxs []int
}

// GroupBy buckets rows by the normalized labels of the given columns.
// Composite keys join labels with " | ". Rows with a missing label in
// any group column fall into the MissingLabel bucket for that column.
// Buckets come back sorted by key for stable output.
func (f *Frame) GroupBy(keys []core.ColumnKey) []Group {
	idxs := make([]int, 0, len(keys))
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if idx := f.ColumnIndex(key); idx >= 0 {
			idxs = append(idxs, idx)
			names = append(names, string(key))
		}
	}
	if len(idxs) == 0 {
		return nil
	}

	buckets := make(map[string]*Group)
	for rowIdx, row := range f.Rows {
		parts := make([]string, len(idxs))
		for i, colIdx := range idxs {
			label, ok := normalizeLabel(row[colIdx])
			if !ok {
				label = MissingLabel
			}
			parts[i] = label
		}
		key := strings.Join(parts, " | ")
		g, ok := buckets[key]
		if !ok {
			labels := make(map[string]string, len(names))
			for i, name := range names {
				labels[name] = parts[i]
			}
			g = &Group{Key: key, Labels: labels}
			buckets[key] = g
		}
		g.RowIdxs = append(g.RowIdxs, rowIdx)
	}

	groups := make([]Group, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Subset returns a frame containing only the given row indices
func (f *Frame) Subset(rowIdxs []int) *Frame {
	out := &Frame{Columns: f.Columns, Rows: make([][]any, 0, len(rowIdxs))}
	for _, idx := range rowIdxs {
		out.Rows = append(out.Rows, f.Rows[idx])
	}
	return out
}

// UniqueValues returns the distinct non-missing values of a column,
// numerics sorted before strings.
func (f *Frame) UniqueValues(key core.ColumnKey) []any {
	idx := f.ColumnIndex(key)
	if idx < 0 {
		return nil
	}

	seen := make(map[string]any)
	for _, row := range f.Rows {
		v := row[idx]
		if v == nil {
			continue
		}
		seen[CanonicalString(v)] = v
	}

	var numbers []float64
	var strs []string
	for _, v := range seen {
		if n, ok := AsFloat(v); ok {
			numbers = append(numbers, n)
		} else {
			strs = append(strs, fmt.Sprintf("%v", v))
		}
	}
	sort.Float64s(numbers)
	sort.Strings(strs)

	out := make([]any, 0, len(numbers)+len(strs))
	for _, n := range numbers {
		out = append(out, n)
	}
	for _, s := range strs {
		out = append(out, s)
	}
	return out
}

// Records converts a row window into JSON-ready maps, missing cells as nil
func (f *Frame) Records(limit, offset int) []map[string]any {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(f.Rows) {
		return []map[string]any{}
	}
	end := len(f.Rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	records := make([]map[string]any, 0, end-offset)
	for _, row := range f.Rows[offset:end] {
		record := make(map[string]any, len(f.Columns))
		for i, col := range f.Columns {
			record[col] = row[i]
		}
		records = append(records, record)
	}
	return records
}

// AsFloat converts a cell into a finite float64 when possible
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// CanonicalString renders a cell the way filters and unique-value
// matching see it: numbers in %g form, everything else as-is.
func CanonicalString(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := AsFloat(v); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// normalizeLabel renders a grouping label, collapsing internal
// whitespace in strings. Returns ok=false for missing cells.
func normalizeLabel(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := AsFloat(v); ok {
		return strconv.FormatFloat(n, 'g', -1, 64), true
	}
	cleaned := strings.Join(strings.Fields(fmt.Sprintf("%v", v)), " ")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}
