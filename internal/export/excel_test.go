package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.xlsx")
	results := buildTestResults()
	if err := ExportExcel(path, results); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "Square" || rows[1][6] != "4" {
		t.Errorf("unexpected first row %v", rows[1])
	}

	boxes, err := f.GetRows(boxesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 1+4+3 {
		t.Errorf("expected 8 box rows, got %d", len(boxes))
	}
}

func TestExportExcel_Empty(t *testing.T) {
	if err := ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), nil); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(87.4545, 2); got != 87.45 {
		t.Errorf("roundTo = %v, want 87.45", got)
	}
}
