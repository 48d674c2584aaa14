package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PalletCut/internal/model"
)

func TestScaledRectMargin(t *testing.T) {
	r := scaledRect{x0: 0, y0: 0, x1: 50, y1: 30}
	assert.InDelta(t, 10.0, r.margin(10, 15), 1e-9)
	assert.InDelta(t, 0.0, r.margin(50, 15), 1e-9)
	assert.Less(t, r.margin(60, 15), 0.0)
}

func TestCheckCollisions_GeneratedProgramIsClean(t *testing.T) {
	s := newTestSettings()
	s.PassDepth = 2
	s.TabsPerSide = 1
	r := newTestResult()

	moves := ParseGCode(New(s).Generate(r))
	require.NotEmpty(t, moves)
	assert.Empty(t, CheckCollisions(moves, r, s))
}

func TestCheckCollisions_CutsIntoNeighbour(t *testing.T) {
	s := newTestSettings()
	r := newTestResult()

	// A cut along the shared edge of boxes 1 and 2.
	code := "G0 X50 Y10\nG1 Z-6 F300\nG1 X50 Y40 F1000\nG0 Z5\n"
	collisions := CheckCollisions(ParseGCode(code), r, s)
	require.NotEmpty(t, collisions)
	c := collisions[0]
	assert.Equal(t, 2, c.Line)
	assert.NotZero(t, c.Box)
	assert.InDelta(t, 3.0, c.Overshoot, 1e-9)
}

func TestCheckCollisions_OutsidePallet(t *testing.T) {
	s := newTestSettings()
	r := newTestResult()

	code := "G0 X-10 Y-10\nG1 Z-6 F300\nG0 Z5\n"
	collisions := CheckCollisions(ParseGCode(code), r, s)
	// Both the plunge and the retract happen off the pallet.
	require.Len(t, collisions, 2)
	assert.Equal(t, 2, collisions[0].Line)
	assert.Equal(t, 0, collisions[0].Box)
}

func TestCheckCollisions_RapidsIgnored(t *testing.T) {
	s := newTestSettings()
	code := "G0 Z5\nG0 X-100 Y-100\nG0 X500 Y500\n"
	assert.Empty(t, CheckCollisions(ParseGCode(code), newTestResult(), s))
}

func TestCheckCollisions_NoBoxes(t *testing.T) {
	s := newTestSettings()
	r := model.Result{Problem: model.NewProblem("", 10, 10, 12, 3)}
	collisions := CheckCollisions(ParseGCode("G1 Z-1 F100\n"), r, s)
	require.Len(t, collisions, 1)
	assert.InDelta(t, 3.0, collisions[0].Overshoot, 1e-9)
}

func TestFormatCollisionWarnings(t *testing.T) {
	warnings := FormatCollisionWarnings([]Collision{
		{Line: 12, ToolX: 50, ToolY: 10, Box: 2, Overshoot: 3},
		{Line: 20, ToolX: -10, ToolY: -10},
	})
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "Line 12")
	assert.Contains(t, warnings[0], "box 2 by 3.00 mm")
	assert.Contains(t, warnings[1], "outside every box")
}
