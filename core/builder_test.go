package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "headcount.csv")
	csvData := "region,value\nNorth,10\nSouth,20\nWest,30\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, "report_config.toml")
	configData := `
[workbook]
output = "out/report.xlsx"

[[sheets]]
name = "Summary"
title = "Annual Report"

[[sheets.tables]]
[sheets.tables.source]
type = "csv"
path = "headcount.csv"
`
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Build(configPath, nil, ""); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	outPath := filepath.Join(dir, "out", "report.xlsx")
	f, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("open output workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Summary" {
		t.Errorf("sheet list = %v, want [Summary]", got)
	}

	checks := map[string]string{
		"A1": "Annual Report",
		"A3": "region",
		"B3": "value",
		"A4": "North",
		"B6": "30",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Summary", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}
}

func TestBuild_MultipleSheets(t *testing.T) {
	dir := t.TempDir()

	registry := map[string]SourceFunc{
		"fixture.table": func(kwargs map[string]any) (any, error) {
			return fixtureTable(), nil
		},
	}

	configPath := filepath.Join(dir, "report_config.yaml")
	configData := `
workbook:
  output: report.xlsx
sheets:
  - name: First
    tables:
      - source:
          type: function
          registry: fixture.table
  - name: Second
    tables:
      - source:
          type: function
          registry: fixture.table
`
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Build(configPath, registry, dir); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	if err != nil {
		t.Fatalf("open output workbook: %v", err)
	}
	defer f.Close()

	want := []string{"First", "Second"}
	got := f.GetSheetList()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sheet list = %v, want %v", got, want)
	}
	for _, sheet := range want {
		v, _ := f.GetCellValue(sheet, "A1")
		if v != "region" {
			t.Errorf("sheet %s cell A1 = %q, want %q", sheet, v, "region")
		}
	}
}

func TestBuild_RepeatedBuildsAreIdentical(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "pay.csv")
	csvData := "region,mean_pay\nNorth,31500.5\nSouth,\nWest,29000\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0644); err != nil {
		t.Fatal(err)
	}

	configData := `
[workbook]
output = "%s"

[formats.named.currency]
num_format = "£#,##0.00"
width = 16.0

[[formats.matchers]]
pattern = "pay"
format = "currency"

[[sheets]]
name = "Summary"
title = "Pay by region"
footnotes = ["Source: payroll extract."]

[[sheets.tables]]
title = "Mean pay"
notes = ["South mean suppressed."]

[sheets.tables.source]
type = "csv"
path = "pay.csv"
`

	build := func(output string) [][]string {
		t.Helper()
		configPath := filepath.Join(dir, output+".toml")
		content := fmt.Sprintf(configData, output+".xlsx")
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Build(configPath, nil, dir); err != nil {
			t.Fatalf("Build(%s) error = %v", output, err)
		}

		f, err := excelize.OpenFile(filepath.Join(dir, output+".xlsx"))
		if err != nil {
			t.Fatalf("open %s: %v", output, err)
		}
		defer f.Close()

		rows, err := f.GetRows("Summary")
		if err != nil {
			t.Fatalf("GetRows(%s) error = %v", output, err)
		}
		return rows
	}

	first := build("first")
	second := build("second")

	// Identical config and inputs place identical content in identical cells.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated builds differ:\nfirst:  %v\nsecond: %v", first, second)
	}

	// The suppressed value renders blank, not as a stringified missing value.
	for _, row := range first {
		for _, cell := range row {
			if cell == "<nil>" || cell == "nan" {
				t.Errorf("missing value leaked into the workbook: %v", row)
			}
		}
	}
}

func TestBuild_SourceFailureAborts(t *testing.T) {
	dir := t.TempDir()

	registry := map[string]SourceFunc{
		"fixture.mapping": func(kwargs map[string]any) (any, error) {
			return map[string]*Table{"results": fixtureTable()}, nil
		},
	}

	configPath := filepath.Join(dir, "report_config.toml")
	configData := `
[workbook]
output = "report.xlsx"

[[sheets]]
name = "Summary"

[[sheets.tables]]
[sheets.tables.source]
type = "function"
registry = "fixture.mapping"
key = "missing"
`
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		t.Fatal(err)
	}

	err := Build(configPath, registry, dir)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Build() error = %v, want ErrTypeMismatch", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "report.xlsx")); !os.IsNotExist(statErr) {
		t.Errorf("output workbook written despite failed build")
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "report_config.toml")
	if err := os.WriteFile(configPath, []byte("[workbook]\noutput = \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Build(configPath, nil, dir)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Build() error = %v, want ErrConfig", err)
	}
}
