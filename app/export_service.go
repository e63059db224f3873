package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	domainstats "orion/domain/stats"
	apperrors "orion/internal/errors"
)

// ExportService renders computed statistics as spreadsheet downloads
type ExportService struct {
	stats *StatsService
}

// NewExportService creates a new export service
func NewExportService(stats *StatsService) *ExportService {
	return &ExportService{stats: stats}
}

var exportHeader = []string{
	"Group", "Variable", "Count", "Missing", "Mean", "Median", "Std",
	"Min", "Q1", "Q3", "Max", "CV %", "Skewness", "CI Lower", "CI Upper",
}

// DescriptiveXLSX computes descriptive statistics and renders them into
// a single-sheet workbook, one row per (group, variable) pair.
func (s *ExportService) DescriptiveXLSX(ctx context.Context, in DescriptiveInput) ([]byte, string, error) {
	res, err := s.stats.Descriptive(ctx, in)
	if err != nil {
		return nil, "", err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Descriptive Statistics"
	wb.SetSheetName(wb.GetSheetName(0), sheet)

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", apperrors.Wrap(err, "failed to write export header")
		}
	}

	row := 2
	writeBlock := func(group string, cols []domainstats.ColumnStats) error {
		for _, cs := range cols {
			values := []any{
				group, cs.Name, cs.Count, cs.MissingCount,
				deref(cs.Mean), deref(cs.Median), deref(cs.Std),
				deref(cs.Min), deref(cs.Q1), deref(cs.Q3), deref(cs.Max),
				deref(cs.CV), deref(cs.Skewness), deref(cs.CILower), deref(cs.CIUpper),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := wb.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
		return nil
	}

	if len(res.Groups) > 0 {
		for _, block := range res.Groups {
			if err := writeBlock(block.Summary.GroupKey, block.Stats); err != nil {
				return nil, "", apperrors.Wrap(err, "failed to write export rows")
			}
		}
	} else {
		if err := writeBlock("all", res.Overall); err != nil {
			return nil, "", apperrors.Wrap(err, "failed to write export rows")
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, "", apperrors.Wrap(err, "failed to serialize workbook")
	}

	filename := fmt.Sprintf("descriptive_stats_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// deref unwraps optional statistics; absent values export as empty cells
func deref(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
