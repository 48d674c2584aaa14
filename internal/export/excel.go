package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletCut/internal/model"
)

const (
	summarySheet = "Pallets"
	boxesSheet   = "Boxes"
)

var summaryHeaders = []string{
	"ID", "Label", "Pallet Length", "Pallet Width", "Box Length", "Box Width",
	"Boxes", "Upper Bound", "Optimal", "Method", "Strategy", "Efficiency %", "Elapsed ms",
}

var boxHeaders = []string{"Pallet ID", "#", "X1", "Y1", "X2", "Y2", "Rotated"}

// ExportExcel writes a workbook with one summary row per result and one row
// per placed box.
func ExportExcel(path string, results []model.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(boxesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, toCells(summaryHeaders)); err != nil {
		return err
	}
	if err := writeRow(f, boxesSheet, 1, toCells(boxHeaders)); err != nil {
		return err
	}

	boxRow := 2
	for i, r := range results {
		p := r.Problem
		row := []interface{}{
			p.ID, p.Label, p.Length, p.Width, p.BoxLength, p.BoxWidth,
			r.Count, r.UpperBound, r.Optimal, r.Method, r.Strategy,
			roundTo(r.Efficiency(), 2), r.Elapsed.Milliseconds(),
		}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
		for j, b := range r.Boxes {
			if err := writeRow(f, boxesSheet, boxRow, []interface{}{p.ID, j + 1, b.X1, b.Y1, b.X2, b.Y2, b.Rotated}); err != nil {
				return err
			}
			boxRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int64(v*p+0.5)) / p
}
