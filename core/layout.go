package core

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// Cursor is the current 0-based write position within a sheet. It only
// moves downward as elements are placed; the column is reset to 0 after
// each element group.
type Cursor struct {
	Row int
	Col int
}

// elementStyles holds the shared style IDs for non-table sheet elements,
// built once per workbook from the configured defaults.
type elementStyles struct {
	title    int
	subtitle int
	footnote int
	marking  int
	header   int
}

func newElementStyles(f ExcelFile, d *config.Defaults) (*elementStyles, error) {
	s := &elementStyles{}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: d.TitleFontSize},
	}); err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: d.SubtitleFontSize, Color: "000000"},
	}); err != nil {
		return nil, fmt.Errorf("failed to create subtitle style: %w", err)
	}

	if s.footnote, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: d.FootnoteFontSize, Color: "555555"},
	}); err != nil {
		return nil, fmt.Errorf("failed to create footnote style: %w", err)
	}

	if s.marking, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18, Color: "FF0000"},
		Alignment: &excelize.Alignment{Horizontal: "centerContinuous"},
	}); err != nil {
		return nil, fmt.Errorf("failed to create protective marking style: %w", err)
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000000"}},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, fmt.Errorf("failed to create table header style: %w", err)
	}

	return s, nil
}

// sheetLayout places elements top to bottom on one sheet, threading an
// explicit cursor through each placement. Layout is deterministic: no map
// iteration, clocks or randomness feed any cell position.
type sheetLayout struct {
	file       ExcelFile
	sheet      string
	styles     *elementStyles
	formats    *FormatResolver
	resolver   *Resolver
	tableStyle string
	spacing    int
}

func (l *sheetLayout) render(cfg *config.SheetConfig) error {
	if cfg.Header != "" || cfg.Footer != "" {
		if err := l.file.SetHeaderFooter(l.sheet, &excelize.HeaderFooterOptions{
			OddHeader: cfg.Header,
			OddFooter: cfg.Footer,
		}); err != nil {
			return fmt.Errorf("failed to set page header/footer: %w", err)
		}
	}

	cursor := Cursor{}

	if cfg.ProtectiveMarking != "" {
		if err := l.placeMarking(cfg, &cursor); err != nil {
			return err
		}
	}

	if cfg.Title != "" {
		if err := l.write(cursor.Row, cursor.Col, cfg.Title, l.styles.title); err != nil {
			return err
		}
		cursor.Row += 2
	}

	for i := range cfg.Tables {
		if err := l.placeTable(&cfg.Tables[i], &cursor); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
	}

	for i := range cfg.Charts {
		if err := l.placeChart(&cfg.Charts[i], &cursor); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
	}

	for _, line := range cfg.Footnotes {
		if err := l.write(cursor.Row, 0, line, l.styles.footnote); err != nil {
			return err
		}
		cursor.Row++
	}
	cursor.Row += 1 + l.spacing
	cursor.Col = 0

	slog.Debug("sheet rendered", "sheet", l.sheet, "tables", len(cfg.Tables), "charts", len(cfg.Charts), "rows", cursor.Row)
	return nil
}

// placeMarking writes a full-width protective marking banner across the
// configured column span at row 0.
func (l *sheetLayout) placeMarking(cfg *config.SheetConfig, cursor *Cursor) error {
	span := cfg.ProtectiveMarkingSpan
	if span <= 0 {
		span = 10
	}

	if err := l.file.SetCellStyle(l.sheet, cellName(0, 0), cellName(0, span-1), l.styles.marking); err != nil {
		return fmt.Errorf("failed to style protective marking: %w", err)
	}
	if err := l.file.SetCellValue(l.sheet, cellName(0, 0), cfg.ProtectiveMarking); err != nil {
		return fmt.Errorf("failed to write protective marking: %w", err)
	}
	if err := l.file.SetRowHeight(l.sheet, 1, 24); err != nil {
		return fmt.Errorf("failed to set protective marking row height: %w", err)
	}

	cursor.Row += 2
	return nil
}

func (l *sheetLayout) placeTable(t *config.TableConfig, cursor *Cursor) error {
	start := *cursor
	if t.StartCell != "" {
		row, col, err := parseCellRef(t.StartCell)
		if err != nil {
			return err
		}
		start = Cursor{Row: row, Col: col}
	}

	tbl, err := l.resolver.ResolveTable(&t.Source)
	if err != nil {
		return err
	}

	// Empty datasets degrade to a placeholder, not an error, and still
	// advance the cursor by the standard spacing.
	if tbl.Empty() {
		if t.Title != "" {
			if err := l.write(start.Row, start.Col, t.Title, l.styles.subtitle); err != nil {
				return err
			}
			start.Row++
		}
		if err := l.file.SetCellValue(l.sheet, cellName(start.Row, start.Col), "(no data)"); err != nil {
			return fmt.Errorf("failed to write placeholder: %w", err)
		}
		cursor.Row = start.Row + l.spacing + 1
		cursor.Col = 0
		return nil
	}

	if t.Title != "" {
		if err := l.write(start.Row, start.Col, t.Title, l.styles.subtitle); err != nil {
			return err
		}
		start.Row++
	}

	style := t.Style
	if style == "" {
		style = l.tableStyle
	}

	endRow, _, err := renderTable(l.file, l.sheet, tbl, start.Row, start.Col, style, l.styles.header, l.formats, t.ColumnWidths)
	if err != nil {
		return err
	}

	cursor.Row = endRow + 1
	for _, line := range t.Notes {
		if err := l.write(cursor.Row, start.Col, line, l.styles.footnote); err != nil {
			return err
		}
		cursor.Row++
	}
	cursor.Row += 1 + l.spacing
	cursor.Col = 0
	return nil
}

func (l *sheetLayout) placeChart(c *config.ChartConfig, cursor *Cursor) error {
	start := *cursor
	if c.StartCell != "" {
		row, col, err := parseCellRef(c.StartCell)
		if err != nil {
			return err
		}
		start = Cursor{Row: row, Col: col}
	}

	if c.Title != "" {
		if err := l.write(start.Row, start.Col, c.Title, l.styles.subtitle); err != nil {
			return err
		}
		start.Row++
	}

	xScale, yScale := c.XScale, c.YScale
	if xScale == 0 {
		xScale = 1.0
	}
	if yScale == 0 {
		yScale = 1.0
	}

	img, err := l.resolver.ResolveImage(&c.Source)
	if err != nil {
		return err
	}
	if err := placeImage(l.file, l.sheet, img, start.Row, start.Col, xScale, yScale); err != nil {
		return err
	}

	// Chart notes are laid out at their own start cell, independent of the
	// main flow; the image's visual height never feeds the cursor.
	if len(c.Notes) > 0 {
		noteRow, noteCol, err := parseCellRef(c.NotesStartCell)
		if err != nil {
			return err
		}
		cursor.Row = noteRow
		for _, line := range c.Notes {
			if err := l.write(cursor.Row, noteCol, line, l.styles.footnote); err != nil {
				return err
			}
			cursor.Row++
		}
	}

	cursor.Row += 1 + l.spacing
	cursor.Col = 0
	return nil
}

// write sets a cell value and its style in one step.
func (l *sheetLayout) write(row, col int, value any, styleID int) error {
	cell := cellName(row, col)
	if err := l.file.SetCellValue(l.sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cell, err)
	}
	if err := l.file.SetCellStyle(l.sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}
