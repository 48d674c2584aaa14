package gcode

import (
	"fmt"
	"math"

	"github.com/piwi3910/PalletCut/internal/model"
)

// collisionEpsilon absorbs rounding of formatted coordinates.
const collisionEpsilon = 1e-3

// Collision is a cutting position where the tool leaves the box it is
// cutting, either into a neighbouring box or past the pallet edge.
type Collision struct {
	Line      int     // source line of the move
	ToolX     float64 // tool center, mm
	ToolY     float64
	Box       int     // 1-based box index, 0 when the center is in no box
	Overshoot float64 // how far the tool edge crosses the boundary, mm
}

// scaledRect is a rectangle in machine coordinates.
type scaledRect struct {
	x0, y0, x1, y1 float64
}

// margin returns the distance from (px, py) to the nearest edge of r,
// negative when the point lies outside.
func (r scaledRect) margin(px, py float64) float64 {
	return math.Min(math.Min(px-r.x0, r.x1-px), math.Min(py-r.y0, r.y1-py))
}

// CheckCollisions replays the cutting moves of a parsed program against
// the layout. Every move below Z0 is sampled at its ends and midpoint; the
// tool circle there has to stay within a single box.
func CheckCollisions(moves []GCodeMove, r model.Result, settings model.CutSettings) []Collision {
	scale := settings.Scale
	if scale <= 0 {
		scale = 1
	}
	toolRadius := settings.ToolDiameter / 2

	boxes := make([]scaledRect, len(r.Boxes))
	for i, b := range r.Boxes {
		boxes[i] = scaledRect{
			x0: float64(b.X1) * scale, y0: float64(b.Y1) * scale,
			x1: float64(b.X2) * scale, y1: float64(b.Y2) * scale,
		}
	}

	var collisions []Collision
	for _, m := range moves {
		if m.FromZ >= 0 && m.ToZ >= 0 {
			continue
		}
		for _, pos := range moveSamples(m) {
			if c, bad := checkPosition(pos[0], pos[1], toolRadius, boxes); bad {
				c.Line = m.Line
				collisions = append(collisions, c)
				// One report per move is enough.
				break
			}
		}
	}
	return collisions
}

func moveSamples(m GCodeMove) [][2]float64 {
	return [][2]float64{
		{m.FromX, m.FromY},
		{(m.FromX + m.ToX) / 2, (m.FromY + m.ToY) / 2},
		{m.ToX, m.ToY},
	}
}

func checkPosition(px, py, toolRadius float64, boxes []scaledRect) (Collision, bool) {
	best, bestMargin := -1, math.Inf(-1)
	for i, b := range boxes {
		if m := b.margin(px, py); m > bestMargin {
			best, bestMargin = i, m
		}
	}
	if best < 0 {
		return Collision{ToolX: px, ToolY: py, Overshoot: toolRadius}, true
	}
	if bestMargin < 0 {
		return Collision{ToolX: px, ToolY: py, Overshoot: toolRadius - bestMargin}, true
	}
	if bestMargin < toolRadius-collisionEpsilon {
		return Collision{ToolX: px, ToolY: py, Box: best + 1, Overshoot: toolRadius - bestMargin}, true
	}
	return Collision{}, false
}

// FormatCollisionWarnings produces human-readable warning messages from collision data.
func FormatCollisionWarnings(collisions []Collision) []string {
	var warnings []string
	for _, c := range collisions {
		var msg string
		if c.Box == 0 {
			msg = fmt.Sprintf("Line %d: tool at (%.2f, %.2f) cuts outside every box",
				c.Line, c.ToolX, c.ToolY)
		} else {
			msg = fmt.Sprintf("Line %d: tool at (%.2f, %.2f) crosses the edge of box %d by %.2f mm",
				c.Line, c.ToolX, c.ToolY, c.Box, c.Overshoot)
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
