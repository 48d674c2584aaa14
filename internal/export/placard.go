package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PalletCut/internal/model"
)

// PlacardInfo holds the data encoded into a placard's QR code.
type PlacardInfo struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Pallet     string  `json:"pallet"` // "LxW"
	Box        string  `json:"box"`    // "lxw"
	Count      int     `json:"count"`
	Rotated    int     `json:"rotated"`
	Optimal    bool    `json:"optimal"`
	Method     string  `json:"method"`
	Efficiency float64 `json:"efficiency"`
}

// Placard layout, A6 landscape in mm.
const (
	placardWidth   = 148.0
	placardHeight  = 105.0
	placardMargin  = 8.0
	placardQRSize  = 45.0
	placardPadding = 3.0
)

// PlacardInfoFor extracts the QR payload of a result.
func PlacardInfoFor(r model.Result) PlacardInfo {
	rotated := 0
	for _, b := range r.Boxes {
		if b.Rotated {
			rotated++
		}
	}
	return PlacardInfo{
		ID:         r.Problem.ID,
		Label:      title(r),
		Pallet:     fmt.Sprintf("%dx%d", r.Problem.Length, r.Problem.Width),
		Box:        fmt.Sprintf("%dx%d", r.Problem.BoxLength, r.Problem.BoxWidth),
		Count:      r.Count,
		Rotated:    rotated,
		Optimal:    r.Optimal,
		Method:     r.Method,
		Efficiency: r.Efficiency(),
	}
}

// ExportPlacards writes one A6 placard per result, to be attached to the
// loaded pallet. Each placard carries the loading summary and a QR code
// with the same data as JSON.
func ExportPlacards(path string, results []model.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to generate placards for")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: placardHeight, Ht: placardWidth},
	})
	pdf.SetAutoPageBreak(false, 0)

	for i, r := range results {
		pdf.AddPage()
		if err := renderPlacard(pdf, i, PlacardInfoFor(r)); err != nil {
			return fmt.Errorf("failed to render placard for %q: %w", title(r), err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

func renderPlacard(pdf *fpdf.Fpdf, index int, info PlacardInfo) error {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	pdf.Rect(placardMargin/2, placardMargin/2, placardWidth-placardMargin, placardHeight-placardMargin, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal placard info: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", index, info.ID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	qrX := placardWidth - placardMargin - placardQRSize
	qrY := (placardHeight - placardQRSize) / 2
	pdf.ImageOptions(imgName, qrX, qrY, placardQRSize, placardQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := placardMargin + placardPadding
	textW := qrX - textX - placardPadding

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, placardMargin+placardPadding)
	label := info.Label
	if pdf.GetStringWidth(label) > textW {
		for len(label) > 0 && pdf.GetStringWidth(label+"...") > textW {
			label = label[:len(label)-1]
		}
		label += "..."
	}
	pdf.CellFormat(textW, 8, label, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetXY(textX, placardMargin+16)
	pdf.CellFormat(textW, 16, fmt.Sprintf("%d", info.Count), "", 1, "L", false, 0, "")

	lines := []string{
		"boxes of " + info.Box,
		"on pallet " + info.Pallet,
		fmt.Sprintf("%d turned 90\xb0", info.Rotated),
	}
	if info.Optimal {
		lines = append(lines, "proven optimal ("+info.Method+")")
	} else {
		lines = append(lines, "best found ("+info.Method+")")
	}
	pdf.SetFont("Helvetica", "", 11)
	y := placardMargin + 36
	for _, line := range lines {
		pdf.SetXY(textX, y)
		pdf.CellFormat(textW, 6, line, "", 1, "L", false, 0, "")
		y += 7
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, placardHeight-placardMargin-6)
	pdf.CellFormat(textW, 4, "ID "+info.ID, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}
