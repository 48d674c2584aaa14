package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/PalletCut/internal/model"
)

// newTestSettings returns CutSettings suitable for testing with predictable output.
func newTestSettings() model.CutSettings {
	s := model.DefaultSettings()
	s.ToolDiameter = 6.0
	s.FeedRate = 1000.0
	s.PlungeRate = 300.0
	s.SpindleSpeed = 12000
	s.SafeZ = 5.0
	s.CutDepth = 6.0
	s.PassDepth = 6.0
	s.Scale = 10.0
	s.GCodeProfile = "Generic"
	s.TabsPerSide = 0
	return s
}

// newTestResult is a 10 x 10 pallet holding four 5 x 5 boxes.
func newTestResult() model.Result {
	return model.Result{
		Problem:    model.NewProblem("Square", 10, 10, 5, 5),
		Count:      4,
		UpperBound: 4,
		Optimal:    true,
		Method:     "five-block",
		Boxes: []model.Box{
			{X1: 0, Y1: 0, X2: 5, Y2: 5},
			{X1: 5, Y1: 0, X2: 10, Y2: 5},
			{X1: 0, Y1: 5, X2: 5, Y2: 10},
			{X1: 5, Y1: 5, X2: 10, Y2: 10},
		},
	}
}

func TestGenerate_HeaderAndFooter(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestResult())

	for _, want := range []string{
		"; PalletCut GCode: 10x10/5x5",
		"; Pallet: 100.0 x 100.0 mm",
		"; Boxes: 4, Efficiency: 100.0%",
		"M3 S12000",
		"; === Job complete ===",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Count(code, "M5\n") != 1 {
		t.Error("expected exactly one spindle stop")
	}
}

func TestGenerate_OnePerimeterPerBox(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestResult())
	if got := strings.Count(code, "--- Box "); got != 4 {
		t.Errorf("expected 4 boxes, got %d", got)
	}
	// First box: tool inset by 3 mm from (0,0)-(50,50).
	if !strings.Contains(code, "G0 X3.000 Y3.000") {
		t.Error("expected rapid to the inset corner of box 1")
	}
	if !strings.Contains(code, "G1 X47.000 Y47.000") {
		t.Error("expected cut to the opposite inset corner of box 1")
	}
}

func TestGenerate_MultiplePasses(t *testing.T) {
	s := newTestSettings()
	s.PassDepth = 2.5
	g := New(s)
	if g.Passes() != 3 {
		t.Fatalf("expected 3 passes, got %d", g.Passes())
	}
	code := g.Generate(newTestResult())
	if !strings.Contains(code, "Pass 3/3, depth=6.00mm") {
		t.Error("final pass should be clamped to the cut depth")
	}
	if !strings.Contains(code, "G1 Z-2.500 F300.000") {
		t.Error("expected first pass plunge")
	}
}

func TestGenerate_ClimbDirection(t *testing.T) {
	r := newTestResult()
	r.Boxes = r.Boxes[:1]

	s := newTestSettings()
	s.UseClimb = true
	climb := ParseGCode(New(s).Generate(r))
	s.UseClimb = false
	conventional := ParseGCode(New(s).Generate(r))

	firstCut := func(moves []GCodeMove) GCodeMove {
		for _, m := range moves {
			if m.Type == MoveFeed {
				return m
			}
		}
		t.Fatal("no feed move")
		return GCodeMove{}
	}
	// Climb on an inside cut goes up the left side first.
	if m := firstCut(climb); m.ToX != 3 || m.ToY != 47 {
		t.Errorf("climb first cut to (%v,%v)", m.ToX, m.ToY)
	}
	if m := firstCut(conventional); m.ToX != 47 || m.ToY != 3 {
		t.Errorf("conventional first cut to (%v,%v)", m.ToX, m.ToY)
	}
}

func TestGenerate_ToolTooWide(t *testing.T) {
	s := newTestSettings()
	s.Scale = 1 // boxes are 5 mm, tool is 6 mm
	code := New(s).Generate(newTestResult())
	if strings.Count(code, "tool is wider than the box") != 4 {
		t.Error("every box should be skipped")
	}
	if strings.Contains(code, "Pass 1/") {
		t.Error("no passes expected")
	}
}

func TestGenerate_Tabs(t *testing.T) {
	s := newTestSettings()
	s.TabsPerSide = 2
	s.TabWidth = 4
	s.TabHeight = 1.5
	r := newTestResult()
	r.Boxes = r.Boxes[:1]

	code := New(s).Generate(r)
	// Two tabs on each of four sides, each lifting to the tab depth.
	if got := strings.Count(code, "G1 Z-4.500\n"); got != 8 {
		t.Errorf("expected 8 tab lifts, got %d", got)
	}
}

func TestTabPositions(t *testing.T) {
	s := newTestSettings()
	s.TabsPerSide = 3
	s.TabWidth = 4
	g := New(s)

	pos := g.tabPositions(40)
	if len(pos) != 3 || pos[0] != 10 || pos[2] != 30 {
		t.Errorf("unexpected positions %v", pos)
	}
	if g.tabPositions(10) != nil {
		t.Error("tabs wider than the side should be dropped")
	}
}

func TestGenerate_LinuxCNCComments(t *testing.T) {
	s := newTestSettings()
	s.GCodeProfile = "LinuxCNC"
	code := New(s).Generate(newTestResult())
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, "(") && !strings.HasSuffix(line, ")") {
			t.Errorf("unterminated comment %q", line)
		}
		if strings.Count(line, "(") > 1 {
			t.Errorf("nested comment %q", line)
		}
	}
	if !strings.Contains(code, "X3.0000") {
		t.Error("LinuxCNC profile should use four decimals")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := newTestSettings()
	s.Scale = 0
	s.PassDepth = 0
	g := New(s)
	if g.Settings.Scale != 1 || g.Settings.PassDepth != s.CutDepth || g.Passes() != 1 {
		t.Errorf("unexpected defaults %+v", g.Settings)
	}
	if g.Profile().Name != "Generic" {
		t.Errorf("unexpected profile %s", g.Profile().Name)
	}
}

func TestWithProfile(t *testing.T) {
	g := New(newTestSettings())
	p := model.NewCustomProfile("Shop")
	p.RapidMove = "G00"
	p.CommentPrefix = "#"
	p.CommentSuffix = ""

	code := g.WithProfile(p).Generate(newTestResult())
	if !strings.Contains(code, "\nG00 ") || !strings.Contains(code, "# --- Box 1") {
		t.Errorf("custom profile not applied:\n%s", code)
	}
	if g.Profile().Name != "Generic" {
		t.Error("WithProfile should not change the receiver")
	}
}
