package widgets

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletCut/internal/model"
)

// Box colors, matching the exported drawings.
var (
	colorUpright = color.NRGBA{R: 76, G: 175, B: 80, A: 220}  // green
	colorRotated = color.NRGBA{R: 33, G: 150, B: 243, A: 220} // blue
	colorPallet  = color.NRGBA{R: 210, G: 180, B: 140, A: 255}
)

// PalletCanvas renders a solved pallet with its boxes.
type PalletCanvas struct {
	widget.BaseWidget
	result    model.Result
	maxWidth  float32
	maxHeight float32
}

func NewPalletCanvas(result model.Result, maxW, maxH float32) *PalletCanvas {
	pc := &PalletCanvas{
		result:    result,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PalletCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPalletCanvasRenderer(pc)
}

// fitScale returns the factor that fits an L x W pallet into maxW x maxH.
func fitScale(L, W int, maxW, maxH float32) float32 {
	if L <= 0 || W <= 0 {
		return 0
	}
	return min(maxW/float32(L), maxH/float32(W))
}

type palletCanvasRenderer struct {
	pc      *PalletCanvas
	objects []fyne.CanvasObject
}

func newPalletCanvasRenderer(pc *PalletCanvas) *palletCanvasRenderer {
	r := &palletCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *palletCanvasRenderer) rebuild() {
	r.objects = nil

	prob := r.pc.result.Problem
	scale := fitScale(prob.Length, prob.Width, r.pc.maxWidth, r.pc.maxHeight)
	if scale == 0 {
		return
	}
	canvasW := float32(prob.Length) * scale
	canvasH := float32(prob.Width) * scale

	bg := canvas.NewRectangle(colorPallet)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	for i, b := range r.pc.result.Boxes {
		col := colorUpright
		if b.Rotated {
			col = colorRotated
		}
		bw := float32(b.Width()) * scale
		bh := float32(b.Height()) * scale
		// Pallet y grows upwards, screen y downwards.
		bx := float32(b.X1) * scale
		by := canvasH - float32(b.Y2)*scale

		rect := canvas.NewRectangle(col)
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(bw, bh))
		rect.Move(fyne.NewPos(bx, by))
		r.objects = append(r.objects, rect)

		if bw > 18 && bh > 14 {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(bx+3, by+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *palletCanvasRenderer) Layout(size fyne.Size)        {}
func (r *palletCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *palletCanvasRenderer) Destroy()                     {}
func (r *palletCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *palletCanvasRenderer) MinSize() fyne.Size {
	prob := r.pc.result.Problem
	scale := fitScale(prob.Length, prob.Width, r.pc.maxWidth, r.pc.maxHeight)
	return fyne.NewSize(float32(prob.Length)*scale, float32(prob.Width)*scale)
}

// ResultHeader is the one-line description shown above a pallet drawing.
func ResultHeader(i int, r model.Result) string {
	label := r.Problem.Label
	if label == "" {
		label = "Pallet"
	}
	status := "optimal"
	if !r.Optimal {
		status = fmt.Sprintf("gap %d", r.Gap())
	}
	return fmt.Sprintf("%d. %s %d x %d, boxes %d x %d: %d boxes (bound %d, %s), %.1f%% used",
		i+1, label, r.Problem.Length, r.Problem.Width, r.Problem.BoxLength, r.Problem.BoxWidth,
		r.Count, r.UpperBound, status, r.Efficiency())
}

// RenderResults creates a scrollable container of all solved pallets.
func RenderResults(results []model.Result) fyne.CanvasObject {
	if len(results) == 0 {
		return widget.NewLabel("No results yet. Add pallets, then click Solve.")
	}

	var items []fyne.CanvasObject
	for i, r := range results {
		header := widget.NewLabel(ResultHeader(i, r))
		header.TextStyle = fyne.TextStyle{Bold: true}
		detail := widget.NewLabel(fmt.Sprintf("Method %s%s, solved in %s",
			r.Method, strategySuffix(r), r.Elapsed.Round(time.Millisecond)))

		items = append(items, header, detail, NewPalletCanvas(r, 600, 400), widget.NewSeparator())
	}

	breakdown := MethodBreakdown(results)
	if len(breakdown) > 1 {
		title := widget.NewLabel("By Method:")
		title.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, title)
		for _, line := range breakdown {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(Summary(results))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

func strategySuffix(r model.Result) string {
	if r.Strategy == "" {
		return ""
	}
	return ", " + r.Strategy + " memo"
}

// Summary totals the boxes of all results.
func Summary(results []model.Result) string {
	boxes, optimal := 0, 0
	for _, r := range results {
		boxes += r.Count
		if r.Optimal {
			optimal++
		}
	}
	return fmt.Sprintf("Total: %d pallets, %d boxes, %d proven optimal", len(results), boxes, optimal)
}

// MethodBreakdown groups results by the method that decided them, in order
// of first appearance.
func MethodBreakdown(results []model.Result) []string {
	type stats struct {
		pallets, boxes, optimal int
	}
	var order []string
	byMethod := make(map[string]*stats)
	for _, r := range results {
		s, ok := byMethod[r.Method]
		if !ok {
			order = append(order, r.Method)
			s = &stats{}
			byMethod[r.Method] = s
		}
		s.pallets++
		s.boxes += r.Count
		if r.Optimal {
			s.optimal++
		}
	}

	lines := make([]string, 0, len(order))
	for _, m := range order {
		s := byMethod[m]
		lines = append(lines, fmt.Sprintf("  %s: %d pallet(s), %d boxes, %d optimal", m, s.pallets, s.boxes, s.optimal))
	}
	return lines
}
