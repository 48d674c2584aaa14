package engine

import "sort"

// LBlock packs L-shaped pieces by splitting them into two smaller L-pieces
// with the nine subdivisions B1..B9 of Birgin, Lobato and Morabito. It
// shares the rectangle tables of a Five-Block session and feeds improved
// rectangle counts back into them.
type LBlock struct {
	s        *Session
	strategy MemoStrategy
	memo     memo
}

// NewLBlock creates an L-Block solver over the tables of s. The memo
// layout is the finest one whose estimated size fits budget; a
// non-positive budget uses the session's parameters.
func NewLBlock(s *Session, budget int64) (*LBlock, error) {
	if budget <= 0 {
		budget = s.params.memoryBudget()
	}
	strategy, err := SelectMemoStrategy(s.nx, s.ny, budget)
	if err != nil {
		return nil, err
	}
	return &LBlock{s: s, strategy: strategy, memo: newMemo(strategy, s.nx, s.ny)}, nil
}

// Strategy returns the memo layout in use.
func (lb *LBlock) Strategy() MemoStrategy { return lb.strategy }

// Entries returns the number of solved pieces held in the memo.
func (lb *LBlock) Entries() int { return lb.memo.entries() }

// Session returns the shared tables.
func (lb *LBlock) Session() *Session { return lb.s }

// Index returns the memo slot and key of a canonical piece.
func (lb *LBlock) Index(q Piece) (slot, key int) {
	s := lb.s
	nx, ny := s.nx, s.ny
	x, y := s.indexX[q.X], s.indexY[q.Y]
	cx, cy := s.indexX[q.CornerX], s.indexY[q.CornerY]

	switch lb.strategy {
	case MemoDense:
		return ((x*ny+y)*nx+cx)*ny + cy, 0
	case MemoSparse3:
		return (x*ny+y)*nx + cx, cy
	case MemoSparse2:
		return x*ny + y, cx*ny + cy
	default:
		return x, (y*nx+cx)*ny + cy
	}
}

// canonical normalizes the coordinates of q and then its shape.
func (lb *LBlock) canonical(q Piece) Piece {
	n := lb.s.Normalize
	q, _ = lb.s.NormalizePiece(Piece{X: n(q.X), Y: n(q.Y), CornerX: n(q.CornerX), CornerY: n(q.CornerY)})
	return q
}

// Solve packs q and returns its best solution. Pieces that cannot hold a
// box yield an empty solution.
func (lb *LBlock) Solve(q Piece) Solution {
	q = lb.canonical(q)
	if !q.Valid() {
		return Solution{}
	}
	return lb.solve(q)
}

// GetSolution returns the box count recorded for q, or zero when q has not
// been solved.
func (lb *LBlock) GetSolution(q Piece) int {
	sol, _, ok := lb.Lookup(lb.canonical(q))
	if !ok {
		return 0
	}
	return sol.Count
}

// Lookup returns the memo entry of a canonical piece.
func (lb *LBlock) Lookup(q Piece) (Solution, DivisionPoint, bool) {
	if !q.Valid() {
		return Solution{}, DivisionPoint{}, false
	}
	slot, key := lb.Index(q)
	e, ok := lb.memo.lookup(slot, key)
	if !ok {
		return Solution{}, DivisionPoint{}, false
	}
	return UnpackSolution(e.solution), UnpackDivisionPoint(e.point), true
}

func (lb *LBlock) record(slot, key int, sol Solution, pt DivisionPoint) {
	lb.memo.store(slot, key, memoEntry{solution: sol.Pack(), point: pt.Pack()})
}

// lowerBound splits a proper L-piece into two rectangles, either with a
// horizontal cut at CornerY or a vertical cut at CornerX.
func (lb *LBlock) lowerBound(q Piece) (count int, horizontal bool) {
	s := lb.s
	a := s.LowerBound(q.CornerX, q.Y-q.CornerY) + s.LowerBound(q.X, q.CornerY)
	b := s.LowerBound(q.CornerX, q.Y) + s.LowerBound(q.X-q.CornerX, q.CornerY)
	if a > b {
		return a, true
	}
	return b, false
}

// searchRange bounds the cut coordinates of one group of subdivisions.
type searchRange struct {
	xs, ys         []int
	startX, startY int
	maxX, maxY     int
}

func (lb *LBlock) solve(q Piece) Solution {
	slot, key := lb.Index(q)
	if e, ok := lb.memo.lookup(slot, key); ok {
		return UnpackSolution(e.solution)
	}
	s := lb.s

	if q.IsRectangle() {
		upper := s.UpperBound(q.X, q.Y)
		best := Solution{Count: s.LowerBound(q.X, q.Y), Division: Homogeneous}
		lb.record(slot, key, best, DivisionPoint{})
		if best.Count == 0 || best.Count == upper {
			return best
		}

		xs, ys := s.RasterPoints(q.X), s.RasterPoints(q.Y)
		if !lb.divideB6(q, slot, key, &best, upper, xs, ys) {
			lb.divideB7(q, slot, key, &best, upper, xs, ys)
		}
		s.raiseLowerBound(q.X, q.Y, best.Count)
		return best
	}

	upper := q.Area() / s.BoxArea()
	lower, horizontal := lb.lowerBound(q)
	best := Solution{Count: lower, Division: B1}
	pt := DivisionPoint{P1: q.CornerX}
	if horizontal {
		pt = DivisionPoint{P2: q.CornerY}
	}
	lb.record(slot, key, best, pt)
	if best.Count == upper {
		return best
	}

	xs, ys := s.RasterPoints(q.X), s.RasterPoints(q.Y)
	startX := sort.SearchInts(xs, q.CornerX)
	startY := sort.SearchInts(ys, q.CornerY)

	inner := searchRange{xs: xs, ys: ys, maxX: q.CornerX, maxY: q.CornerY}
	above := searchRange{xs: xs, ys: ys, startY: startY, maxX: q.CornerX, maxY: ys[len(ys)-1]}
	right := searchRange{xs: xs, ys: ys, startX: startX, maxX: xs[len(xs)-1], maxY: q.CornerY}

	passes := []struct {
		d Division
		r searchRange
	}{
		{B1, inner}, {B3, inner}, {B5, inner},
		{B2, above}, {B8, above},
		{B4, right}, {B9, right},
	}
	for _, p := range passes {
		if lb.divideL(q, slot, key, &best, upper, p.d, p.r) {
			break
		}
	}
	return best
}

// divideL tries every cut point of r with division d. It reports true once
// best reaches upper.
func (lb *LBlock) divideL(q Piece, slot, key int, best *Solution, upper int, d Division, r searchRange) bool {
	for i := r.startX; i < len(r.xs) && r.xs[i] <= r.maxX; i++ {
		for j := r.startY; j < len(r.ys) && r.ys[j] <= r.maxY; j++ {
			pt := DivisionPoint{P1: r.xs[i], P2: r.ys[j]}
			if lb.try(q, slot, key, best, upper, d, pt) {
				return true
			}
		}
	}
	return false
}

// divideB6 splits a rectangle with two vertical cuts at x' <= x'' joined by
// a horizontal one at y'.
func (lb *LBlock) divideB6(q Piece, slot, key int, best *Solution, upper int, xs, ys []int) bool {
	for i := range xs {
		for j := i; j < len(xs); j++ {
			if xs[i] == 0 && xs[j] == 0 {
				continue
			}
			for k := range ys {
				pt := DivisionPoint{P1: xs[i], P2: ys[k], P3: xs[j]}
				if lb.try(q, slot, key, best, upper, B6, pt) {
					return true
				}
			}
		}
	}
	return false
}

// divideB7 splits a rectangle with two horizontal cuts at y' <= y'' joined
// by a vertical one at x'.
func (lb *LBlock) divideB7(q Piece, slot, key int, best *Solution, upper int, xs, ys []int) bool {
	for j := range ys {
		for k := j; k < len(ys); k++ {
			if ys[j] == 0 && ys[k] == 0 {
				continue
			}
			for i := range xs {
				pt := DivisionPoint{P1: xs[i], P2: ys[j], P3: ys[k]}
				if lb.try(q, slot, key, best, upper, B7, pt) {
					return true
				}
			}
		}
	}
	return false
}

// try evaluates a single division of q. A strictly better count is stored
// in best and in the memo. It reports true once best reaches upper or the
// search was interrupted.
func (lb *LBlock) try(q Piece, slot, key int, best *Solution, upper int, d Division, pt DivisionPoint) bool {
	if lb.s.interrupted() {
		return true
	}
	q1, q2 := lb.s.divide(d, q, pt)
	if !q1.Valid() || !q2.Valid() {
		return false
	}
	area := lb.s.BoxArea()
	if q1.Area()/area+q2.Area()/area <= best.Count {
		return false
	}

	count := lb.solve(q1).Count + lb.solve(q2).Count
	if lb.s.err != nil {
		return true
	}
	if count <= best.Count {
		return false
	}
	*best = Solution{Count: count, Division: d}
	lb.record(slot, key, *best, pt)
	return count == upper
}
