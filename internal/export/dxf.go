package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/PalletCut/internal/model"
)

// DXF layer names.
const (
	LayerPallet  = "PALLET"
	LayerBoxes   = "BOXES"
	LayerRotated = "BOXES_ROTATED"
	LayerText    = "LABELS"
)

// ExportDXF writes the layout of a single result as closed polylines: the
// pallet outline on one layer and the boxes on two more, split by orientation.
func ExportDXF(path string, r model.Result) error {
	p := r.Problem
	if p.Length <= 0 || p.Width <= 0 {
		return fmt.Errorf("invalid pallet %dx%d", p.Length, p.Width)
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerPallet, color.White, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if err := polyRect(d, 0, 0, float64(p.Length), float64(p.Width)); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerBoxes, color.Green, dxf.DefaultLineType, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerRotated, color.Blue, dxf.DefaultLineType, false); err != nil {
		return err
	}
	for _, b := range r.Boxes {
		layer := LayerBoxes
		if b.Rotated {
			layer = LayerRotated
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		if err := polyRect(d, float64(b.X1), float64(b.Y1), float64(b.X2), float64(b.Y2)); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(LayerText, color.Yellow, dxf.DefaultLineType, true); err != nil {
		return err
	}
	height := float64(min(p.BoxLength, p.BoxWidth)) / 4
	if height <= 0 {
		height = 1
	}
	for i, b := range r.Boxes {
		cx := float64(b.X1+b.X2)/2 - height/2
		cy := float64(b.Y1+b.Y2)/2 - height/2
		if _, err := d.Text(fmt.Sprintf("%d", i+1), cx, cy, 0, height); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func polyRect(d *dxf.Drawing, x1, y1, x2, y2 float64) error {
	_, err := d.LwPolyline(true,
		[]float64{x1, y1},
		[]float64{x2, y1},
		[]float64{x2, y2},
		[]float64{x1, y2},
	)
	return err
}
