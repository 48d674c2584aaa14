package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid     = color.NRGBA{R: 255, G: 60, B: 60, A: 200}
	colorFeed      = color.NRGBA{R: 30, G: 120, B: 255, A: 230}
	colorPlunge    = color.NRGBA{R: 50, G: 200, B: 50, A: 220}
	colorRetract   = color.NRGBA{R: 180, G: 180, B: 0, A: 180}
	colorSheet     = color.NRGBA{R: 230, G: 210, B: 175, A: 255}
	colorOpening   = color.NRGBA{R: 200, G: 220, B: 255, A: 120}
	colorCollision = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// GCodePreview renders the toolpath of a program over the box openings it
// should cut. Positions where the tool leaves its box are circled.
type GCodePreview struct {
	widget.BaseWidget
	moves      []gcode.GCodeMove
	result     model.Result
	settings   model.CutSettings
	collisions []gcode.Collision
	maxWidth   float32
	maxHeight  float32
}

func NewGCodePreview(moves []gcode.GCodeMove, result model.Result, settings model.CutSettings, maxW, maxH float32) *GCodePreview {
	if settings.Scale <= 0 {
		settings.Scale = 1
	}
	gp := &GCodePreview{
		moves:      moves,
		result:     result,
		settings:   settings,
		collisions: gcode.CheckCollisions(moves, result, settings),
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

// Collisions returns the positions where the toolpath leaves its box.
func (gp *GCodePreview) Collisions() []gcode.Collision { return gp.collisions }

func (gp *GCodePreview) CreateRenderer() fyne.WidgetRenderer {
	return newGCodePreviewRenderer(gp)
}

type gcodePreviewRenderer struct {
	gp      *GCodePreview
	objects []fyne.CanvasObject
}

func newGCodePreviewRenderer(gp *GCodePreview) *gcodePreviewRenderer {
	r := &gcodePreviewRenderer{gp: gp}
	r.rebuild()
	return r
}

// geometry returns the scale from machine mm to pixels and the margin
// around the sheet.
func (gp *GCodePreview) geometry() (scale, margin, sheetW, sheetH float32) {
	sheetW = float32(float64(gp.result.Problem.Length) * gp.settings.Scale)
	sheetH = float32(float64(gp.result.Problem.Width) * gp.settings.Scale)
	margin = float32(gp.settings.ToolDiameter) + 10
	if sheetW <= 0 || sheetH <= 0 {
		return 0, margin, sheetW, sheetH
	}
	scale = min((gp.maxWidth-margin*2)/sheetW, (gp.maxHeight-margin*2)/sheetH)
	if scale <= 0 {
		scale = 1
	}
	return scale, margin, sheetW, sheetH
}

func (r *gcodePreviewRenderer) rebuild() {
	r.objects = nil

	gp := r.gp
	scale, margin, sheetW, sheetH := gp.geometry()
	if scale == 0 {
		return
	}
	canvasH := sheetH * scale
	// Machine y grows upwards.
	pos := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x)*scale+margin, margin+canvasH-float32(y)*scale)
	}

	bg := canvas.NewRectangle(colorSheet)
	bg.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(sheetW*scale, canvasH))
	bg.Move(fyne.NewPos(margin, margin))
	r.objects = append(r.objects, bg)

	s := float32(gp.settings.Scale)
	for _, b := range gp.result.Boxes {
		rect := canvas.NewRectangle(colorOpening)
		rect.StrokeColor = color.NRGBA{R: 100, G: 130, B: 180, A: 200}
		rect.StrokeWidth = 1.5
		rect.Resize(fyne.NewSize(float32(b.Width())*s*scale, float32(b.Height())*s*scale))
		rect.Move(pos(float64(b.X1)*gp.settings.Scale, float64(b.Y2)*gp.settings.Scale))
		r.objects = append(r.objects, rect)
	}

	for _, m := range gp.moves {
		from := pos(m.FromX, m.FromY)
		to := pos(m.ToX, m.ToY)
		xyDist := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)

		switch m.Type {
		case gcode.MoveRapid:
			if xyDist < 0.01 {
				continue
			}
			r.addLine(from, to, colorRapid, 1)
			r.drawDashedOverlay(from, to)
		case gcode.MoveFeed:
			if xyDist < 0.01 {
				continue
			}
			r.addLine(from, to, colorFeed, 2)
		case gcode.MovePlunge:
			r.addMarker(from, colorPlunge, 4)
		case gcode.MoveRetract:
			if xyDist < 0.01 {
				r.addMarker(from, colorRetract, 3)
			} else {
				r.addLine(from, to, colorRetract, 1)
			}
		}
	}

	for _, c := range gp.collisions {
		ring := canvas.NewCircle(color.Transparent)
		ring.StrokeColor = colorCollision
		ring.StrokeWidth = 2
		d := max(float32(gp.settings.ToolDiameter)*scale, 8)
		ring.Resize(fyne.NewSize(d, d))
		p := pos(c.ToolX, c.ToolY)
		ring.Move(fyne.NewPos(p.X-d/2, p.Y-d/2))
		r.objects = append(r.objects, ring)
	}
}

func (r *gcodePreviewRenderer) addLine(from, to fyne.Position, col color.NRGBA, width float32) {
	line := canvas.NewLine(col)
	line.StrokeWidth = width
	line.Position1 = from
	line.Position2 = to
	r.objects = append(r.objects, line)
}

func (r *gcodePreviewRenderer) addMarker(at fyne.Position, col color.NRGBA, size float32) {
	marker := canvas.NewCircle(col)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(at.X-size/2, at.Y-size/2))
	r.objects = append(r.objects, marker)
}

// drawDashedOverlay paints sheet-colored gaps along a rapid move.
func (r *gcodePreviewRenderer) drawDashedOverlay(from, to fyne.Position) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 8 {
		return
	}

	const dashLen, gapLen = 6, 4
	nx, ny := dx/length, dy/length
	for cursor := float32(dashLen); cursor+gapLen < length; cursor += dashLen + gapLen {
		r.addLine(
			fyne.NewPos(from.X+nx*cursor, from.Y+ny*cursor),
			fyne.NewPos(from.X+nx*(cursor+gapLen), from.Y+ny*(cursor+gapLen)),
			colorSheet, 2.5)
	}
}

func (r *gcodePreviewRenderer) Layout(size fyne.Size)        {}
func (r *gcodePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *gcodePreviewRenderer) Destroy()                     {}
func (r *gcodePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *gcodePreviewRenderer) MinSize() fyne.Size {
	scale, margin, sheetW, sheetH := r.gp.geometry()
	if scale == 0 {
		return fyne.NewSize(100, 100)
	}
	return fyne.NewSize(sheetW*scale+margin*2, sheetH*scale+margin*2)
}

// RenderGCodePreview parses a program and previews it over the layout.
func RenderGCodePreview(result model.Result, settings model.CutSettings, code string) *GCodePreview {
	return NewGCodePreview(gcode.ParseGCode(code), result, settings, 700, 450)
}
