// Package excel reads uploaded spreadsheets (XLSX and CSV) into raw
// header + cell-string form for the ingestion pipeline.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawSheet is the untyped content of an uploaded file: one header row
// and the remaining rows as strings. Short rows are padded so every
// row has a cell per header.
type RawSheet struct {
	Headers []string
	Rows    [][]string
}

// Read parses the upload by extension. filename decides the format;
// data is the full file content.
func Read(filename string, data []byte) (*RawSheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .xlsx or .csv)", filepath.Ext(filename))
	}
}

func readXLSX(data []byte) (*RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func readCSV(data []byte) (*RawSheet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*RawSheet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	headers := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers = append(headers, h)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(headers))
		empty := true
		for i := range headers {
			if i < len(row) {
				padded[i] = strings.TrimSpace(row[i])
				if padded[i] != "" {
					empty = false
				}
			}
		}
		// trailing blank rows are common in exported sheets
		if empty {
			continue
		}
		out = append(out, padded)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("file has headers but no data rows")
	}
	return &RawSheet{Headers: headers, Rows: out}, nil
}
