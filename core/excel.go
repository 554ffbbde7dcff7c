package core

import "github.com/xuri/excelize/v2"

// ExcelFile abstracts workbook operations to decouple rendering logic from excelize.
type ExcelFile interface {
	AddPictureFromBytes(sheet, cell string, pic *excelize.Picture) error
	AddTable(sheet string, table *excelize.Table) error
	Close() error
	GetCellValue(sheet, cell string) (string, error)
	GetSheetIndex(name string) (int, error)
	GetSheetList() []string
	NewSheet(name string) (int, error)
	NewStyle(style *excelize.Style) (int, error)
	SaveAs(name string) error
	SetActiveSheet(index int)
	SetCellStyle(sheet, hcell, vcell string, styleID int) error
	SetCellValue(sheet, cell string, value interface{}) error
	SetColWidth(sheet, startCol, endCol string, width float64) error
	SetHeaderFooter(sheet string, opts *excelize.HeaderFooterOptions) error
	SetRowHeight(sheet string, row int, height float64) error
	SetSelection(sheetName, cell string) error
	SetSheetName(source, target string) error
	SetSheetRow(sheet, cell string, slice interface{}) error
}

type ExcelizeFile struct {
	file *excelize.File
}

func newExcelFile() ExcelFile {
	return &ExcelizeFile{file: excelize.NewFile()}
}

func (e *ExcelizeFile) AddPictureFromBytes(sheet, cell string, pic *excelize.Picture) error {
	return e.file.AddPictureFromBytes(sheet, cell, pic)
}

func (e *ExcelizeFile) AddTable(sheet string, table *excelize.Table) error {
	return e.file.AddTable(sheet, table)
}

func (e *ExcelizeFile) Close() error {
	return e.file.Close()
}

func (e *ExcelizeFile) GetCellValue(sheet, cell string) (string, error) {
	return e.file.GetCellValue(sheet, cell)
}

func (e *ExcelizeFile) GetSheetIndex(name string) (int, error) {
	return e.file.GetSheetIndex(name)
}

func (e *ExcelizeFile) GetSheetList() []string {
	return e.file.GetSheetList()
}

func (e *ExcelizeFile) NewSheet(name string) (int, error) {
	return e.file.NewSheet(name)
}

func (e *ExcelizeFile) NewStyle(style *excelize.Style) (int, error) {
	return e.file.NewStyle(style)
}

func (e *ExcelizeFile) SaveAs(name string) error {
	return e.file.SaveAs(name)
}

func (e *ExcelizeFile) SetActiveSheet(index int) {
	e.file.SetActiveSheet(index)
}

func (e *ExcelizeFile) SetCellStyle(sheet, hcell, vcell string, styleID int) error {
	return e.file.SetCellStyle(sheet, hcell, vcell, styleID)
}

func (e *ExcelizeFile) SetCellValue(sheet, cell string, value interface{}) error {
	return e.file.SetCellValue(sheet, cell, value)
}

func (e *ExcelizeFile) SetColWidth(sheet, startCol, endCol string, width float64) error {
	return e.file.SetColWidth(sheet, startCol, endCol, width)
}

func (e *ExcelizeFile) SetHeaderFooter(sheet string, opts *excelize.HeaderFooterOptions) error {
	return e.file.SetHeaderFooter(sheet, opts)
}

func (e *ExcelizeFile) SetRowHeight(sheet string, row int, height float64) error {
	return e.file.SetRowHeight(sheet, row, height)
}

func (e *ExcelizeFile) SetSelection(sheetName, cell string) error {
	// Set active cell and selection to the specified cell (e.g., "A1") using
	// SetPanes. Existing panes are preserved when possible.
	panes, err := e.file.GetPanes(sheetName)
	if err == nil {
		panes.Selection = []excelize.Selection{
			{
				ActiveCell: cell,
				SQRef:      cell,
			},
		}
		return e.file.SetPanes(sheetName, &panes)
	}

	// GetPanes failing usually means no panes are set yet.
	return e.file.SetPanes(sheetName, &excelize.Panes{
		Freeze: false,
		Split:  false,
		Selection: []excelize.Selection{
			{
				ActiveCell: cell,
				SQRef:      cell,
			},
		},
	})
}

func (e *ExcelizeFile) SetSheetName(source, target string) error {
	return e.file.SetSheetName(source, target)
}

func (e *ExcelizeFile) SetSheetRow(sheet, cell string, slice interface{}) error {
	return e.file.SetSheetRow(sheet, cell, slice)
}
