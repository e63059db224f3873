package dataset

import (
	"time"

	"orion/domain/core"
)

// VarType classifies how a column behaves statistically
type VarType string

const (
	VarCategorical VarType = "categorical"
	VarDiscrete    VarType = "discrete"
	VarContinuous  VarType = "continuous"
)

// Valid reports whether the variable type is one of the known kinds
func (v VarType) Valid() bool {
	switch v {
	case VarCategorical, VarDiscrete, VarContinuous:
		return true
	}
	return false
}

// ColumnMeta describes a single dataset column
type ColumnMeta struct {
	Name         string         `json:"name"`
	ColKey       core.ColumnKey `json:"col_key"`
	DType        string         `json:"dtype"`
	VarType      VarType        `json:"var_type"`
	UniqueCount  int            `json:"unique_count"`
	MissingCount int            `json:"missing_count"`
}

// Dataset is the stored metadata for one uploaded spreadsheet
type Dataset struct {
	ID               core.DatasetID `json:"id"`
	Name             string         `json:"name"`
	OriginalFilename string         `json:"original_filename"`
	FramePath        string         `json:"frame_path"`
	Columns          []ColumnMeta   `json:"columns"`
	RowCount         int            `json:"row_count"`
	ColCount         int            `json:"col_count"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ColumnNames maps col_key to the original display name
func (d *Dataset) ColumnNames() map[core.ColumnKey]string {
	names := make(map[core.ColumnKey]string, len(d.Columns))
	for _, col := range d.Columns {
		names[col.ColKey] = col.Name
	}
	return names
}

// ColumnByKey returns the metadata for a column key, if present
func (d *Dataset) ColumnByKey(key core.ColumnKey) (ColumnMeta, bool) {
	for _, col := range d.Columns {
		if col.ColKey == key {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// FilterCondition keeps rows whose column value is in Values
type FilterCondition struct {
	ColKey core.ColumnKey `json:"col_key"`
	Values []any          `json:"values"`
}
