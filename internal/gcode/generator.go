// Package gcode turns a pallet layout into a CNC toolpath that cuts one
// opening per box out of a slip sheet or foam insert, and reads toolpaths
// back for checking.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/PalletCut/internal/model"
)

// Generator produces GCode from a solved pallet layout.
type Generator struct {
	Settings model.CutSettings
	profile  model.GCodeProfile
}

func New(settings model.CutSettings) *Generator {
	if settings.Scale <= 0 {
		settings.Scale = 1
	}
	if settings.PassDepth <= 0 {
		settings.PassDepth = settings.CutDepth
	}
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// WithProfile returns a copy of g that writes with the given profile
// instead of the registered one named in the settings.
func (g *Generator) WithProfile(p model.GCodeProfile) *Generator {
	cp := *g
	cp.profile = p
	return &cp
}

// Profile returns the post-processor in use.
func (g *Generator) Profile() model.GCodeProfile { return g.profile }

// Generate produces the program for one result. Every box is cut as a
// pocket outline on the inside of its boundary, so neighbouring openings
// never share material.
func (g *Generator) Generate(r model.Result) string {
	var b strings.Builder

	g.writeHeader(&b, r)
	for i, box := range r.Boxes {
		g.writeBox(&b, box, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, r model.Result) {
	p := g.profile
	s := g.Settings

	b.WriteString(g.comment(fmt.Sprintf("PalletCut GCode: %s", r.Problem.String())))
	b.WriteString(g.comment(fmt.Sprintf("Pallet: %.1f x %.1f mm", float64(r.Problem.Length)*s.Scale, float64(r.Problem.Width)*s.Scale)))
	b.WriteString(g.comment(fmt.Sprintf("Boxes: %d, Efficiency: %.1f%%", len(r.Boxes), r.Efficiency())))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		s.ToolDiameter, s.FeedRate, s.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %.1fmm passes", s.CutDepth, s.PassDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", s.SpindleSpeed))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(s.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range p.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
	if p.SpindleStop != "" && !containsCode(p.EndCode, p.SpindleStop) {
		b.WriteString(p.SpindleStop + "\n")
	}
}

func containsCode(codes []string, c string) bool {
	for _, x := range codes {
		if x == c {
			return true
		}
	}
	return false
}

// toolRect returns the tool center rectangle for a box, inset by the tool
// radius. ok is false when the tool does not fit inside the box.
func (g *Generator) toolRect(box model.Box) (x0, y0, x1, y1 float64, ok bool) {
	s := g.Settings
	r := s.ToolDiameter / 2
	x0 = float64(box.X1)*s.Scale + r
	y0 = float64(box.Y1)*s.Scale + r
	x1 = float64(box.X2)*s.Scale - r
	y1 = float64(box.Y2)*s.Scale - r
	return x0, y0, x1, y1, x1 > x0 && y1 > y0
}

// Passes returns the number of depth passes.
func (g *Generator) Passes() int {
	if g.Settings.CutDepth <= 0 {
		return 0
	}
	return int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))
}

func (g *Generator) writeBox(b *strings.Builder, box model.Box, num int) {
	s := g.Settings
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("--- Box %d: %dx%d at %d,%d%s ---",
		num, box.Width(), box.Height(), box.X1, box.Y1, rotatedStr(box.Rotated))))

	x0, y0, x1, y1, ok := g.toolRect(box)
	if !ok {
		b.WriteString(g.comment("WARNING: tool is wider than the box, skipping"))
		return
	}

	corners := g.corners(x0, y0, x1, y1)
	numPasses := g.Passes()
	for pass := 1; pass <= numPasses; pass++ {
		depth := math.Min(float64(pass)*s.PassDepth, s.CutDepth)

		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, numPasses, depth)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(corners[0][0]), g.format(corners[0][1])))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove, g.format(-depth), g.format(s.PlungeRate)))

		final := pass == numPasses && s.TabsPerSide > 0
		for side := 0; side < 4; side++ {
			from, to := corners[side], corners[(side+1)%4]
			if final {
				g.writeSideWithTabs(b, from, to, depth)
			} else {
				b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove, g.format(to[0]), g.format(to[1]), g.format(s.FeedRate)))
			}
		}

		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(s.SafeZ)))
	}
	b.WriteString("\n")
}

// corners lists the rectangle starting at the lower left corner. On an
// inside cut, climb milling runs clockwise.
func (g *Generator) corners(x0, y0, x1, y1 float64) [4][2]float64 {
	if g.Settings.UseClimb {
		return [4][2]float64{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}}
	}
	return [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// tabPositions returns the centers of the tabs along a side of the given
// length. Tabs that do not fit are dropped.
func (g *Generator) tabPositions(length float64) []float64 {
	n := g.Settings.TabsPerSide
	if n <= 0 || length <= float64(n)*g.Settings.TabWidth {
		return nil
	}
	spacing := length / float64(n+1)
	pos := make([]float64, n)
	for i := range pos {
		pos[i] = spacing * float64(i+1)
	}
	return pos
}

// writeSideWithTabs cuts a side, lifting the tool over each tab.
func (g *Generator) writeSideWithTabs(b *strings.Builder, from, to [2]float64, cutDepth float64) {
	s := g.Settings
	p := g.profile

	dx, dy := to[0]-from[0], to[1]-from[1]
	length := math.Hypot(dx, dy)
	tabs := g.tabPositions(length)
	if len(tabs) == 0 {
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove, g.format(to[0]), g.format(to[1]), g.format(s.FeedRate)))
		return
	}
	nx, ny := dx/length, dy/length
	tabDepth := math.Max(cutDepth-s.TabHeight, 0)

	for _, c := range tabs {
		start, end := c-s.TabWidth/2, c+s.TabWidth/2
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove,
			g.format(from[0]+nx*start), g.format(from[1]+ny*start), g.format(s.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.FeedMove, g.format(-tabDepth)))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.FeedMove,
			g.format(from[0]+nx*end), g.format(from[1]+ny*end)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.FeedMove, g.format(-cutDepth)))
	}
	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove, g.format(to[0]), g.format(to[1]), g.format(s.FeedRate)))
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}

func rotatedStr(r bool) string {
	if r {
		return " [rotated]"
	}
	return ""
}
