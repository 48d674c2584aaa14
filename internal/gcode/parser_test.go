package gcode

import (
	"strings"
	"testing"
	"time"
)

func TestParseGCode_EmptyAndComments(t *testing.T) {
	for _, code := range []string{
		"",
		"; a comment\n; another\n",
		"(parenthesised)\n( --- Box 1: 5x5 at 0,0 ---)\n",
		"G90\nG21\nM3 S18000\nM5\n",
	} {
		if moves := ParseGCode(code); len(moves) != 0 {
			t.Errorf("expected no moves for %q, got %d", code, len(moves))
		}
	}
}

func TestParseGCode_Moves(t *testing.T) {
	code := `G0 X10.000 Y20.000
G0 Z5.000
G1 Z-6.000 F500.0
G1 X100.000 Y20.000 F1500.0 ; cutting move
G1 X100.000 Y80.000 (side two)
G0 Z5.000
`
	moves := ParseGCode(code)
	if len(moves) != 6 {
		t.Fatalf("expected 6 moves, got %d", len(moves))
	}

	want := []MoveType{MoveRapid, MoveRetract, MovePlunge, MoveFeed, MoveFeed, MoveRetract}
	for i, m := range moves {
		if m.Type != want[i] {
			t.Errorf("move %d: got %s, want %s", i, m.Type, want[i])
		}
		if m.Line != i+1 {
			t.Errorf("move %d: line %d", i, m.Line)
		}
	}
	if moves[3].FromX != 10 || moves[3].ToX != 100 {
		t.Errorf("state not tracked: %+v", moves[3])
	}
	if moves[4].FeedRate != 1500 {
		t.Errorf("expected sticky feed rate 1500, got %.1f", moves[4].FeedRate)
	}
	if moves[4].ToY != 80 {
		t.Errorf("comment should not hide coordinates, got Y=%v", moves[4].ToY)
	}
}

func TestParseGCode_NegativeAndPadded(t *testing.T) {
	moves := ParseGCode("G00 X-3.000 Y-3.5\ng01 x4 y5 f100\n")
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[0].ToX != -3 || moves[0].ToY != -3.5 {
		t.Errorf("unexpected first move %+v", moves[0])
	}
	if moves[1].ToX != 4 || moves[1].FeedRate != 100 {
		t.Errorf("lowercase words should parse, got %+v", moves[1])
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct{ in, want string }{
		{"G1 X1 ; cut", "G1 X1"},
		{"(note) G0 X1", "G0 X1"},
		{"G0 (a) X1 (b)", "G0  X1"},
		{"G0 X1 (unterminated", "G0 X1"},
	}
	for _, tt := range tests {
		if got := stripComments(tt.in); got != tt.want {
			t.Errorf("stripComments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name    string
		isRapid bool
		fromZ   float64
		toZ     float64
		fromX   float64
		fromY   float64
		toX     float64
		toY     float64
		want    MoveType
	}{
		{"rapid XY", true, 5, 5, 0, 0, 10, 20, MoveRapid},
		{"rapid retract", true, -6, 5, 10, 20, 10, 20, MoveRetract},
		{"feed XY", false, -6, -6, 0, 0, 100, 0, MoveFeed},
		{"plunge", false, 5, -6, 10, 20, 10, 20, MovePlunge},
		{"retract feed", false, -6, 0, 10, 20, 10, 20, MoveRetract},
		{"feed with slight Z", false, -6, -6.0001, 0, 0, 100, 0, MoveFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMove(tt.isRapid, tt.fromZ, tt.toZ, tt.fromX, tt.fromY, tt.toX, tt.toY)
			if got != tt.want {
				t.Errorf("classifyMove() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	code := `G0 X0 Y0
G0 Z5
G1 Z-5 F600
G1 X600 F1200
G1 Y600
G0 Z5
`
	s := Stats(ParseGCode(code))
	if s.Moves != 6 || s.Plunges != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
	if s.CutLength != 10+600+600 {
		t.Errorf("CutLength = %v", s.CutLength)
	}
	if s.RapidLength != 5+10 {
		t.Errorf("RapidLength = %v", s.RapidLength)
	}
	// 10 mm at 600 mm/min plus 1200 mm at 1200 mm/min.
	want := time.Second + time.Minute
	if d := s.CutTime - want; d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("CutTime = %v, want %v", s.CutTime, want)
	}
}

func TestParseGeneratedProgram(t *testing.T) {
	s := newTestSettings()
	s.PassDepth = 3
	code := New(s).Generate(newTestResult())
	moves := ParseGCode(code)

	stats := Stats(moves)
	// Four boxes, two passes each.
	if stats.Plunges != 8 {
		t.Errorf("expected 8 plunges, got %d", stats.Plunges)
	}
	// Each pass traces a 44 mm square after plunging from the safe height.
	if want := 8*4*44.0 + 4*(8+11); stats.CutLength != want {
		t.Errorf("CutLength = %v, want %v", stats.CutLength, want)
	}
	if strings.Count(code, "\n") < len(moves) {
		t.Error("more moves than lines")
	}
}
