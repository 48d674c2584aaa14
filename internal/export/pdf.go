// Package export writes solved pallet layouts to PDF, Excel, DXF and PNG.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PalletCut/internal/model"
)

// boxColor is an RGB color for a placed box.
type boxColor struct {
	R, G, B int
}

// Boxes in their base orientation and turned boxes are told apart by color.
var (
	uprightColor = boxColor{R: 76, G: 175, B: 80}  // green
	rotatedColor = boxColor{R: 33, G: 150, B: 243} // blue
	palletColor  = boxColor{R: 210, G: 180, B: 140}
)

func colorOf(b model.Box) boxColor {
	if b.Rotated {
		return rotatedColor
	}
	return uprightColor
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders every result on its own page with the layout diagram,
// followed by a summary page.
func ExportPDF(path string, results []model.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, res := range results {
		pdf.AddPage()
		renderLayoutPage(pdf, res, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, results)

	return pdf.OutputFileAndClose(path)
}

// title returns the label of the result's problem, or its dimensions.
func title(r model.Result) string {
	if r.Problem.Label != "" {
		return r.Problem.Label
	}
	return r.Problem.String()
}

func renderLayoutPage(pdf *fpdf.Fpdf, res model.Result, num int) {
	prob := res.Problem

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	heading := fmt.Sprintf("Pallet %d: %s (%d x %d, boxes %d x %d)",
		num, title(res), prob.Length, prob.Width, prob.BoxLength, prob.BoxWidth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, heading, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes: %d | Upper bound: %d | %s | Method: %s | Efficiency: %.1f%%",
		res.Count, res.UpperBound, optimality(res), res.Method, res.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	if prob.Length <= 0 || prob.Width <= 0 {
		return
	}
	scale := math.Min(drawWidth/float64(prob.Length), drawHeight/float64(prob.Width))

	canvasW := float64(prob.Length) * scale
	canvasH := float64(prob.Width) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(palletColor.R, palletColor.G, palletColor.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, b := range res.Boxes {
		col := colorOf(b)
		bw := float64(b.Width()) * scale
		bh := float64(b.Height()) * scale
		// The pallet origin is drawn at the bottom left.
		bx := offsetX + float64(b.X1)*scale
		by := offsetY + canvasH - float64(b.Y2)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 8 && bh > 5 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("%d", i+1)
			lw := pdf.GetStringWidth(label)
			pdf.SetXY(bx+(bw-lw)/2, by+bh/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, prob, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, res, offsetY+canvasH+6)
}

func optimality(r model.Result) string {
	if r.Optimal {
		return "optimal"
	}
	return fmt.Sprintf("gap %d", r.Gap())
}

// drawDimensionAnnotations adds length and width labels outside the pallet.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, prob model.Problem, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%d", prob.Length)
	lw := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lw)/2, offsetY+canvasH+1)
	pdf.CellFormat(lw, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%d", prob.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	ww := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-ww/2, offsetY+canvasH/2-2)
	pdf.CellFormat(ww, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend explains the two box colors.
func drawLegend(pdf *fpdf.Fpdf, res model.Result, y float64) {
	if len(res.Boxes) == 0 {
		return
	}
	rotated := 0
	for _, b := range res.Boxes {
		if b.Rotated {
			rotated++
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	x := marginLeft
	for _, item := range []struct {
		col   boxColor
		label string
	}{
		{uprightColor, fmt.Sprintf("%d x %d: %d boxes", res.Problem.BoxLength, res.Problem.BoxWidth, len(res.Boxes)-rotated)},
		{rotatedColor, fmt.Sprintf("%d x %d: %d boxes", res.Problem.BoxWidth, res.Problem.BoxLength, rotated)},
	} {
		pdf.SetFillColor(item.col.R, item.col.G, item.col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(item.label) + 2
		pdf.CellFormat(w, 4, item.label, "", 0, "L", false, 0, "")
		x += w + 10
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, results []model.Result) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Pallet Loading Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	optimal, boxes := 0, 0
	for _, r := range results {
		boxes += r.Count
		if r.Optimal {
			optimal++
		}
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Pallets", fmt.Sprintf("%d", len(results))},
		{"Proven optimal", fmt.Sprintf("%d", optimal)},
		{"Total boxes", fmt.Sprintf("%d", boxes)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	y += 5

	colWidths := []float64{15, 60, 35, 30, 25, 25, 30, 40}
	headers := []string{"#", "Label", "Pallet", "Box", "Boxes", "Bound", "Method", "Efficiency"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range results {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			title(r),
			fmt.Sprintf("%d x %d", r.Problem.Length, r.Problem.Width),
			fmt.Sprintf("%d x %d", r.Problem.BoxLength, r.Problem.BoxWidth),
			fmt.Sprintf("%d", r.Count),
			fmt.Sprintf("%d", r.UpperBound),
			r.Method,
			fmt.Sprintf("%.1f%%", r.Efficiency()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PalletCut", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
