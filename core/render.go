package core

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellName converts 0-based (row, col) coordinates to A1 notation.
func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

// parseCellRef converts an A1-notation reference to 0-based (row, col).
func parseCellRef(ref string) (row, col int, err error) {
	c, r, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid cell reference '%s'", ErrConfig, ref)
	}
	return r - 1, c - 1, nil
}

// normalizeTableStyle maps spaced style names ("Table Style Light 1") to
// the identifiers excelize expects ("TableStyleLight1").
func normalizeTableStyle(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// renderTable writes a header row and data body at the given position,
// adds one native table region over them, applies per-column number
// formats and widths, and finally re-styles the header row. It returns the
// inclusive 0-based bottom-right coordinates of the rendered region.
func renderTable(f ExcelFile, sheet string, t *Table, startRow, startCol int, styleName string, headerStyle int, formats *FormatResolver, widthOverrides map[string]float64) (endRow, endCol int, err error) {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, cellName(startRow, startCol), &header); err != nil {
		return 0, 0, fmt.Errorf("failed to write table header: %w", err)
	}

	// Nil cells are written blank, never as stringified missing values.
	for i := range t.Rows {
		if err := f.SetSheetRow(sheet, cellName(startRow+1+i, startCol), &t.Rows[i]); err != nil {
			return 0, 0, fmt.Errorf("failed to write table row %d: %w", i, err)
		}
	}

	endRow = startRow + len(t.Rows)
	endCol = startCol + len(t.Columns) - 1

	stripes := true
	if err := f.AddTable(sheet, &excelize.Table{
		Range:          cellName(startRow, startCol) + ":" + cellName(endRow, endCol),
		StyleName:      normalizeTableStyle(styleName),
		ShowRowStripes: &stripes,
	}); err != nil {
		return 0, 0, fmt.Errorf("failed to add table region: %w", err)
	}

	for j, column := range t.Columns {
		name := formats.FormatName(column)
		styleID, err := formats.StyleID(name)
		if err != nil {
			return 0, 0, err
		}
		if len(t.Rows) > 0 {
			if err := f.SetCellStyle(sheet, cellName(startRow+1, startCol+j), cellName(endRow, startCol+j), styleID); err != nil {
				return 0, 0, fmt.Errorf("failed to style column '%s': %w", column, err)
			}
		}

		width := formats.Width(column, name, widthOverrides, t)
		colLetter, _ := excelize.ColumnNumberToName(startCol + j + 1)
		if err := f.SetColWidth(sheet, colLetter, colLetter, width); err != nil {
			return 0, 0, fmt.Errorf("failed to set width for column '%s': %w", column, err)
		}
	}

	// Header styling is applied after table creation so it takes precedence
	// over the table region's own header styling.
	if err := f.SetCellStyle(sheet, cellName(startRow, startCol), cellName(startRow, endCol), headerStyle); err != nil {
		return 0, 0, fmt.Errorf("failed to style table header: %w", err)
	}

	return endRow, endCol, nil
}

// placeImage embeds the image at the anchor cell with independent
// horizontal and vertical scale factors; surrounding content is not
// reflowed.
func placeImage(f ExcelFile, sheet string, img *Image, row, col int, xScale, yScale float64) error {
	if err := f.AddPictureFromBytes(sheet, cellName(row, col), &excelize.Picture{
		Extension: img.Ext,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			ScaleX: xScale,
			ScaleY: yScale,
		},
	}); err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}
