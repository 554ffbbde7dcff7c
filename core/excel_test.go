package core

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelizeFile_RoundTrip(t *testing.T) {
	f := newExcelFile()
	defer f.Close()

	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if err := f.SetSheetRow("Data", "A1", &[]any{"region", "value"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	if err := f.SetCellValue("Data", "A2", "North"); err != nil {
		t.Fatalf("SetCellValue() error = %v", err)
	}

	got, err := f.GetCellValue("Data", "B1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if got != "value" {
		t.Errorf("GetCellValue(B1) = %q, want %q", got, "value")
	}

	idx, err := f.GetSheetIndex("Data")
	if err != nil {
		t.Fatalf("GetSheetIndex() error = %v", err)
	}
	if idx < 0 {
		t.Errorf("GetSheetIndex(Data) = %d, want >= 0", idx)
	}

	if err := f.SetSheetName("Data", "Renamed"); err != nil {
		t.Fatalf("SetSheetName() error = %v", err)
	}
	found := false
	for _, name := range f.GetSheetList() {
		if name == "Renamed" {
			found = true
		}
	}
	if !found {
		t.Errorf("sheet list %v missing renamed sheet", f.GetSheetList())
	}

	if err := f.SetSelection("Renamed", "A1"); err != nil {
		t.Errorf("SetSelection() error = %v", err)
	}
	f.SetActiveSheet(0)

	out := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	if err := f.SaveAs(out); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	reopened, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	v, _ := reopened.GetCellValue("Renamed", "A2")
	if v != "North" {
		t.Errorf("reopened A2 = %q, want %q", v, "North")
	}
}
