package engine

// FiveBlock packs rectangles with guillotine and first-order non-guillotine
// cuts. Each cut splits a rectangle into at most five smaller ones that are
// solved recursively, pruning with the bound tables of the session.
//
//	    L1     L2
//	 +-----+----------+
//	 |     |    2     | W2
//	 |  1  +---+------+
//	W1     | 3 |      |
//	 +-----+---+      |
//	 |    4    |  5   | W5
//	 |         |      |
//	 +---------+------+
//	     L4      L5
type FiveBlock struct {
	s        *Session
	maxDepth int

	// depth[i][j] is the recursion level at which the rectangle was last
	// solved, or solvedDepth once proven optimal.
	depth [][]int
	// reached[i][j] is set when solving the rectangle hit the depth limit.
	reached [][]bool

	solution int
	done     bool
}

// NewFiveBlock creates a solver with a fresh session for p.
func NewFiveBlock(p Parameters) (*FiveBlock, error) {
	s, err := NewSession(p)
	if err != nil {
		return nil, err
	}
	return newFiveBlock(s), nil
}

func newFiveBlock(s *Session) *FiveBlock {
	fb := &FiveBlock{s: s, maxDepth: s.params.maxDepth()}
	fb.depth = make([][]int, s.nx)
	fb.reached = make([][]bool, s.nx)
	for i := range fb.depth {
		fb.depth[i] = make([]int, s.ny)
		fb.reached[i] = make([]bool, s.ny)
		for j := range fb.depth[i] {
			fb.depth[i][j] = fb.maxDepth
			fb.reached[i][j] = true
		}
	}
	return fb
}

// Session returns the tables shared with the L-Block solver.
func (fb *FiveBlock) Session() *Session { return fb.s }

// Solve returns the number of boxes packed into the normalized pallet.
// The first pass evaluates a single level of cuts over the homogeneous
// bounds; when that is not provably optimal the search restarts from the
// first level, seeded with the first result so it can only improve.
func (fb *FiveBlock) Solve() int {
	if fb.done {
		return fb.solution
	}
	s := fb.s
	L, W := s.lengthN, s.widthN
	i, j := s.cell(L, W)

	solution := fb.cutProcedure(L, W, fb.maxDepth)
	if solution != s.upper[i][j] && fb.maxDepth != 1 && s.err == nil {
		s.lower[i][j] = solution
		if again := fb.cutProcedure(L, W, 1); again > solution {
			solution = again
		}
	}
	s.lower[i][j] = solution

	fb.solution = solution
	fb.done = true
	return solution
}

// IsSolutionOptimal reports whether the count returned by Solve matches
// the upper bound of the pallet. A zero count is optimal as well: the grid
// bound is zero only when no box fits in either orientation.
func (fb *FiveBlock) IsSolutionOptimal() bool {
	if !fb.done {
		return false
	}
	i, j := fb.s.cell(fb.s.lengthN, fb.s.widthN)
	return fb.solution == 0 || fb.solution == fb.s.upper[i][j]
}

// UpperBound returns Barnes's bound for the normalized pallet.
func (fb *FiveBlock) UpperBound() int {
	return fb.s.UpperBound(fb.s.lengthN, fb.s.widthN)
}

func (fb *FiveBlock) localUpperBound(i, j int) int {
	if fb.depth[i][j] == solvedDepth {
		return fb.s.lower[i][j]
	}
	return fb.s.upper[i][j]
}

// block is one sub-rectangle produced by a cut.
type block struct {
	l, w int
}

// cutProcedure packs the normalized rectangle L x W at recursion level n
// and returns the best count found.
func (fb *FiveBlock) cutProcedure(L, W, n int) int {
	if W > L {
		L, W = W, L
	}
	s := fb.s
	i, j := s.cell(L, W)
	zlb := s.lower[i][j]
	zub := fb.localUpperBound(i, j)

	if zlb == 0 || zlb == zub {
		fb.depth[i][j] = solvedDepth
		fb.reached[i][j] = false
		return zlb
	}

	rx := s.RasterPoints(L)
	ry := s.RasterPoints(W)
	fb.reached[i][j] = false

	var blocks [5]block

	// First-order non-guillotine cuts: 0 < x1 < x2 < L and 0 < y1 < y2 < W
	// with x1 + x2 < L, or x1 + x2 == L and y1 + y2 <= W.
	for ix1 := 1; ix1 < len(rx) && rx[ix1] <= L/2; ix1++ {
		x1 := rx[ix1]
		for ix2 := ix1 + 1; ix2 < len(rx) && rx[ix2]+x1 <= L; ix2++ {
			x2 := rx[ix2]
			for iy1 := 1; iy1 < len(ry) && ry[iy1] < W; iy1++ {
				y1 := ry[iy1]
				for iy2 := iy1 + 1; iy2 < len(ry) && ry[iy2] < W; iy2++ {
					y2 := ry[iy2]
					if x1+x2 == L && y1+y2 > W {
						break
					}
					blocks[0] = block{x1, W - y1}
					blocks[1] = block{L - x1, W - y2}
					blocks[2] = block{x2 - x1, y2 - y1}
					blocks[3] = block{x2, y1}
					blocks[4] = block{L - x2, y2}
					cut := CutPoint{X1: x1, X2: x2, Y1: y1, Y2: y2, Kind: CutFiveBlock}
					if fb.solve(L, W, n, blocks[:5], &zlb, zub, cut) {
						return zlb
					}
				}
			}
		}
	}

	// Vertical guillotine cuts.
	for ix := 1; ix < len(rx) && rx[ix] <= L/2; ix++ {
		x := rx[ix]
		blocks[0] = block{x, W}
		blocks[1] = block{L - x, W}
		cut := CutPoint{X1: x, X2: x, Kind: CutFiveBlock}
		if fb.solve(L, W, n, blocks[:2], &zlb, zub, cut) {
			return zlb
		}
	}

	// Horizontal guillotine cuts.
	for iy := 1; iy < len(ry) && ry[iy] <= W/2; iy++ {
		y := ry[iy]
		blocks[0] = block{L, W - y}
		blocks[1] = block{L, y}
		cut := CutPoint{Y1: y, Y2: y, Kind: CutFiveBlock}
		if fb.solve(L, W, n, blocks[:2], &zlb, zub, cut) {
			return zlb
		}
	}

	return zlb
}

// solve evaluates one division of L x W into blocks. It raises *zlb and
// records the cut when the division beats it, and reports true once the
// rectangle is proven optimal or the search was interrupted.
func (fb *FiveBlock) solve(L, W, n int, blocks []block, zlb *int, zub int, cut CutPoint) bool {
	s := fb.s
	if s.interrupted() {
		return true
	}
	pi, pj := s.cell(L, W)

	var (
		ix, iy [5]int
		lbs    [5]int
		ubs    [5]int
	)
	for k := range blocks {
		b := block{s.Normalize(blocks[k].l), s.Normalize(blocks[k].w)}
		if b.l < b.w {
			b.l, b.w = b.w, b.l
		}
		blocks[k] = b
		ix[k], iy[k] = s.indexX[b.l], s.indexY[b.w]
	}

	if n >= fb.maxDepth {
		// Depth limit: every block keeps the best packing known so far.
		fb.reached[pi][pj] = true
		sum := 0
		for k := range blocks {
			sum += s.lower[ix[k]][iy[k]]
		}
		if sum > *zlb {
			*zlb = sum
			s.cuts[pi][pj] = cut
			if *zlb == zub {
				fb.depth[pi][pj] = solvedDepth
				fb.reached[pi][pj] = false
				return true
			}
		}
		return false
	}

	sumLower, sumUpper := 0, 0
	for k := range blocks {
		lbs[k] = s.lower[ix[k]][iy[k]]
		ubs[k] = fb.localUpperBound(ix[k], iy[k])
		sumLower += lbs[k]
		sumUpper += ubs[k]
	}
	if *zlb >= sumUpper {
		return false
	}

	for k := range blocks {
		var z int
		if fb.depth[ix[k]][iy[k]] > n {
			// First visit, or a deeper earlier visit that may improve now.
			z = fb.cutProcedure(blocks[k].l, blocks[k].w, n+1)
			if s.err != nil {
				return true
			}
			s.lower[ix[k]][iy[k]] = z
			if fb.reached[ix[k]][iy[k]] {
				fb.depth[ix[k]][iy[k]] = n
			} else {
				fb.depth[ix[k]][iy[k]] = solvedDepth
			}
		} else {
			z = s.lower[ix[k]][iy[k]]
		}

		if fb.reached[ix[k]][iy[k]] {
			fb.reached[pi][pj] = true
		}

		sumLower += z - lbs[k]
		sumUpper += z - ubs[k]

		if *zlb >= sumUpper {
			break
		}
		if sumLower > *zlb {
			*zlb = sumLower
			s.cuts[pi][pj] = cut
			if *zlb == zub {
				fb.depth[pi][pj] = solvedDepth
				fb.reached[pi][pj] = false
				return true
			}
		}
	}
	return false
}
