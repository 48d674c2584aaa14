package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	}
	return "unknown"
}

// GCodeMove represents a single parsed movement from GCode.
type GCodeMove struct {
	Line     int // 1-based source line
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// Length returns the 3-D distance travelled.
func (m GCodeMove) Length() float64 {
	dx, dy, dz := m.ToX-m.FromX, m.ToY-m.FromY, m.ToZ-m.FromZ
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

var coordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// ParseGCode parses a GCode string into a slice of structured moves.
// It tracks absolute position state and classifies each G0/G1 command
// by its movement characteristics (rapid, feed, plunge, retract).
func ParseGCode(code string) []GCodeMove {
	var moves []GCodeMove

	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for n, line := range strings.Split(code, "\n") {
		line = stripComments(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word := strings.Fields(upper)[0]
		isRapid := word == "G0" || word == "G00"
		isFeed := word == "G1" || word == "G01"
		if !isRapid && !isFeed {
			continue
		}

		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, GCodeMove{
			Line:     n + 1,
			Type:     classifyMove(isRapid, curZ, newZ, curX, curY, newX, newY),
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curFeed = newX, newY, newZ, newFeed
	}

	return moves
}

// stripComments removes semicolon and parenthesised comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// PathStats summarises a toolpath.
type PathStats struct {
	Moves       int
	Plunges     int
	CutLength   float64 // mm travelled at feed, plunges included
	RapidLength float64 // mm travelled at rapid, retracts included
	// CutTime is the time spent at feed. Rapid time depends on the machine
	// and is not included.
	CutTime time.Duration
}

// Stats walks the moves and totals distances and feed time.
func Stats(moves []GCodeMove) PathStats {
	var s PathStats
	s.Moves = len(moves)
	minutes := 0.0
	for _, m := range moves {
		d := m.Length()
		switch m.Type {
		case MoveRapid, MoveRetract:
			s.RapidLength += d
		default:
			if m.Type == MovePlunge {
				s.Plunges++
			}
			s.CutLength += d
			if m.FeedRate > 0 {
				minutes += d / m.FeedRate
			}
		}
	}
	s.CutTime = time.Duration(minutes * float64(time.Minute))
	return s
}
