package engine

import "fmt"

// Division identifies how an L-piece was split. Homogeneous means the
// count comes from the rectangle tables without a further split.
type Division uint8

const (
	Homogeneous Division = iota
	B1
	B2
	B3
	B4
	B5
	B6
	B7
	B8
	B9
)

func (d Division) String() string {
	if d == Homogeneous {
		return "homogeneous"
	}
	if d <= B9 {
		return fmt.Sprintf("B%d", uint8(d))
	}
	return fmt.Sprintf("Division(%d)", uint8(d))
}

// Bit layout of the packed solution and division point words.
const (
	countBits   = 27
	countMask   = 1<<countBits - 1 // 134217727
	pointBits   = 11
	pointMask   = 1<<pointBits - 1 // 2047
	secondShift = pointBits        // 11
	thirdShift  = 2 * pointBits    // 22
	noSolution  = ^uint32(0)
)

// Solution is the best packing recorded for an L-piece: the number of
// boxes and the division that achieves it.
type Solution struct {
	Count    int      `json:"count"`
	Division Division `json:"division"`
}

// Pack encodes the solution as count | division<<27.
func (s Solution) Pack() uint32 {
	return uint32(s.Count)&countMask | uint32(s.Division)<<countBits
}

// UnpackSolution decodes a word produced by Solution.Pack.
func UnpackSolution(word uint32) Solution {
	return Solution{Count: int(word & countMask), Division: Division(word >> countBits)}
}

// DivisionPoint holds the cut coordinates of a division. B1..B5, B8 and B9
// use (x', y') in P1, P2. B6 uses (x', y', x'') and B7 (x', y', y'').
type DivisionPoint struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3,omitempty"`
}

// Pack encodes the point as p1 | p2<<11 | p3<<22. P1 and P2 must fit in
// 11 bits; P3 takes the remaining bits.
func (p DivisionPoint) Pack() uint64 {
	return uint64(p.P1)&pointMask | (uint64(p.P2)&pointMask)<<secondShift | uint64(p.P3)<<thirdShift
}

// UnpackDivisionPoint decodes a word produced by DivisionPoint.Pack.
func UnpackDivisionPoint(word uint64) DivisionPoint {
	return DivisionPoint{
		P1: int(word & pointMask),
		P2: int(word >> secondShift & pointMask),
		P3: int(word >> thirdShift),
	}
}

func (p DivisionPoint) String() string {
	if p.P3 != 0 {
		return fmt.Sprintf("(%d,%d,%d)", p.P1, p.P2, p.P3)
	}
	return fmt.Sprintf("(%d,%d)", p.P1, p.P2)
}
