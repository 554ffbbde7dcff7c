package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Table is an ordered-column tabular dataset. Cells hold native scalars
// (int64, float64, bool, string) or nil for missing values.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Column returns the index of the named column, or -1 if absent.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// coerceCell converts a raw string cell to a native scalar. Empty cells
// become nil so they render blank rather than as empty text.
func coerceCell(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// tableFromRecords builds a Table from raw string records, treating the
// first record as the header row.
func tableFromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	t := &Table{Columns: records[0]}
	for _, rec := range records[1:] {
		row := make([]any, len(t.Columns))
		for j := range t.Columns {
			if j < len(rec) {
				row[j] = coerceCell(rec[j])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ReadCSV reads a CSV file into a Table, coercing cells to native scalars.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv content: %w", err)
	}
	return tableFromRecords(records), nil
}

// ReadExcelSheet reads one sheet of a workbook into a Table. An empty sheet
// name selects the first sheet.
func ReadExcelSheet(path, sheet string) (t *Table, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return tableFromRecords(rows), nil
}
