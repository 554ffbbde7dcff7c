package core

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ministryofjustice/pamo-utilities/config"
)

func newLayoutFixture(t *testing.T, registry map[string]SourceFunc) *sheetLayout {
	t.Helper()
	f := &ExcelizeFile{file: excelize.NewFile()}
	t.Cleanup(func() { f.Close() })

	defaults := config.Defaults{TitleFontSize: 14, SubtitleFontSize: 12, FootnoteFontSize: 9}
	styles, err := newElementStyles(f, &defaults)
	if err != nil {
		t.Fatalf("newElementStyles() error = %v", err)
	}
	formats, err := NewFormatResolver(f, &config.FormatConfig{})
	if err != nil {
		t.Fatalf("NewFormatResolver() error = %v", err)
	}
	return &sheetLayout{
		file:       f,
		sheet:      "Sheet1",
		styles:     styles,
		formats:    formats,
		resolver:   &Resolver{Registry: registry},
		tableStyle: "Table Style Light 1",
		spacing:    2,
	}
}

func (l *sheetLayout) cellValue(t *testing.T, cell string) string {
	t.Helper()
	got, err := l.file.GetCellValue(l.sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s) error = %v", cell, err)
	}
	return got
}

func fixtureTable() *Table {
	return &Table{
		Columns: []string{"region", "value"},
		Rows: [][]any{
			{"North", int64(10)},
			{"South", int64(20)},
		},
	}
}

func TestSheetLayout_FullFlow(t *testing.T) {
	l := newLayoutFixture(t, map[string]SourceFunc{
		"fixture.table": func(kwargs map[string]any) (any, error) {
			return fixtureTable(), nil
		},
	})

	cfg := config.SheetConfig{
		Name:                  "Summary",
		ProtectiveMarking:     "OFFICIAL",
		ProtectiveMarkingSpan: 4,
		Title:                 "Annual Report",
		Tables: []config.TableConfig{{
			Title:  "Headcount",
			Source: config.SourceConfig{Type: "function", Registry: "fixture.table"},
			Notes:  []string{"Rounded to nearest 10."},
		}},
		Footnotes: []string{"Produced by the analysis team."},
	}

	if err := l.render(&cfg); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	// Marking at row 0, title after a two-row gap, subtitle after another,
	// then the table header and its two data rows.
	checks := map[string]string{
		"A1": "OFFICIAL",
		"A3": "Annual Report",
		"A5": "Headcount",
		"A6": "region",
		"B7": "10",
		"B8": "20",
		"A9": "Rounded to nearest 10.",
	}
	for cell, want := range checks {
		if got := l.cellValue(t, cell); got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	// Cursor after the note is row 9; +1+spacing places the footnote at row 12.
	if got := l.cellValue(t, "A13"); got != "Produced by the analysis team." {
		t.Errorf("footnote cell A13 = %q", got)
	}
}

func TestSheetLayout_EmptyTablePlaceholder(t *testing.T) {
	l := newLayoutFixture(t, map[string]SourceFunc{
		"fixture.empty": func(kwargs map[string]any) (any, error) {
			return &Table{Columns: []string{"region", "value"}}, nil
		},
	})

	cfg := config.SheetConfig{
		Name: "Summary",
		Tables: []config.TableConfig{{
			Title:  "Headcount",
			Source: config.SourceConfig{Type: "function", Registry: "fixture.empty"},
		}},
		Footnotes: []string{"end"},
	}

	if err := l.render(&cfg); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if got := l.cellValue(t, "A1"); got != "Headcount" {
		t.Errorf("cell A1 = %q, want title", got)
	}
	if got := l.cellValue(t, "A2"); got != "(no data)" {
		t.Errorf("cell A2 = %q, want placeholder", got)
	}
	// Placeholder at row 1 leaves the cursor at row 4 for the next element.
	if got := l.cellValue(t, "A5"); got != "end" {
		t.Errorf("footnote cell A5 = %q", got)
	}
}

func TestSheetLayout_TableStartCellOverride(t *testing.T) {
	l := newLayoutFixture(t, map[string]SourceFunc{
		"fixture.table": func(kwargs map[string]any) (any, error) {
			return fixtureTable(), nil
		},
	})

	cfg := config.SheetConfig{
		Name: "Summary",
		Tables: []config.TableConfig{{
			Source:    config.SourceConfig{Type: "function", Registry: "fixture.table"},
			StartCell: "C5",
		}},
	}

	if err := l.render(&cfg); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if got := l.cellValue(t, "C5"); got != "region" {
		t.Errorf("cell C5 = %q, want header at override position", got)
	}
	if got := l.cellValue(t, "A1"); got != "" {
		t.Errorf("cell A1 = %q, want untouched", got)
	}
}

func TestSheetLayout_ChartNotesAtOwnCell(t *testing.T) {
	png := pngBytes(t)
	l := newLayoutFixture(t, map[string]SourceFunc{
		"fixture.chart": func(kwargs map[string]any) (any, error) {
			return png, nil
		},
	})

	cfg := config.SheetConfig{
		Name: "Summary",
		Charts: []config.ChartConfig{{
			Title:          "Pay gap by band",
			Source:         config.SourceConfig{Type: "function", Registry: "fixture.chart"},
			Notes:          []string{"note one", "note two"},
			NotesStartCell: "A20",
		}},
		Footnotes: []string{"end"},
	}

	if err := l.render(&cfg); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if got := l.cellValue(t, "A1"); got != "Pay gap by band" {
		t.Errorf("chart title A1 = %q", got)
	}
	if got := l.cellValue(t, "A20"); got != "note one" {
		t.Errorf("cell A20 = %q, want first chart note", got)
	}
	if got := l.cellValue(t, "A21"); got != "note two" {
		t.Errorf("cell A21 = %q, want second chart note", got)
	}
	// The cursor resumes below the notes, not below the image.
	if got := l.cellValue(t, "A25"); got != "end" {
		t.Errorf("footnote cell A25 = %q", got)
	}
}
