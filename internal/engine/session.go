package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/piwi3910/PalletCut/internal/pointset"
)

// MaxDimension is the largest pallet side the engine accepts. Division
// coordinates are packed into 11-bit fields.
const MaxDimension = 2047

// unboundedDepth stands in for "no depth limit".
const unboundedDepth = 200000000

// checkMask sets how often the search polls its context: once every
// checkMask+1 divisions.
const checkMask = 1<<10 - 1

// solvedDepth marks a rectangle whose packing is proven optimal.
const solvedDepth = -1

// DefaultMemoryBudget bounds the L-Block memo store when Parameters leaves
// MemoryBudget unset.
const DefaultMemoryBudget int64 = 512 << 20

var (
	// ErrInvalidParameters is returned for dimensions the engine cannot solve.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrMemoryExhausted is returned when even the coarsest memo layout
	// does not fit the memory budget.
	ErrMemoryExhausted = errors.New("memo store does not fit the memory budget")
)

// Parameters describes one pallet loading instance: an L x W pallet and an
// l x w box that may be placed in either orientation.
type Parameters struct {
	Length    int `json:"length"`     // L
	Width     int `json:"width"`      // W
	BoxLength int `json:"box_length"` // l
	BoxWidth  int `json:"box_width"`  // w

	// Depth limits the Five-Block recursion. Zero or negative is unbounded.
	Depth int `json:"depth"`

	// MemoryBudget caps the L-Block memo store in bytes. Zero selects
	// DefaultMemoryBudget.
	MemoryBudget int64 `json:"memory_budget,omitempty"`
}

// Validate checks the dimensions.
func (p Parameters) Validate() error {
	if p.Length <= 0 || p.Width <= 0 {
		return fmt.Errorf("%w: pallet %dx%d must be positive", ErrInvalidParameters, p.Length, p.Width)
	}
	if p.BoxLength <= 0 || p.BoxWidth <= 0 {
		return fmt.Errorf("%w: box %dx%d must be positive", ErrInvalidParameters, p.BoxLength, p.BoxWidth)
	}
	if p.Length > MaxDimension || p.Width > MaxDimension {
		return fmt.Errorf("%w: pallet %dx%d exceeds %d", ErrInvalidParameters, p.Length, p.Width, MaxDimension)
	}
	if p.MemoryBudget < 0 {
		return fmt.Errorf("%w: negative memory budget", ErrInvalidParameters)
	}
	return nil
}

// oriented returns a copy with Length >= Width.
func (p Parameters) oriented() Parameters {
	if p.Width > p.Length {
		p.Length, p.Width = p.Width, p.Length
	}
	return p
}

func (p Parameters) maxDepth() int {
	if p.Depth <= 0 {
		return unboundedDepth
	}
	return p.Depth
}

func (p Parameters) memoryBudget() int64 {
	if p.MemoryBudget == 0 {
		return DefaultMemoryBudget
	}
	return p.MemoryBudget
}

// CutKind tells how a rectangle recorded in the bound tables is packed.
type CutKind uint8

const (
	CutHomogeneous CutKind = iota // grid of boxes in a single orientation
	CutFiveBlock                  // first-order non-guillotine or guillotine cut
)

// CutPoint is the best division found for a rectangle. A vertical
// guillotine cut has X1 == X2 and Y1 == Y2 == 0; a horizontal one has
// X1 == X2 == 0 and Y1 == Y2.
type CutPoint struct {
	X1, X2, Y1, Y2 int
	Kind           CutKind
}

// Homogeneous reports whether the rectangle is packed as a plain grid.
func (c CutPoint) Homogeneous() bool { return c.Kind == CutHomogeneous }

// Session holds the tables shared by the Five-Block and L-Block solvers for
// one instance: normalization, raster point indices, per-rectangle bounds
// and cut points. A session is owned by a single solve and is not safe for
// concurrent use.
type Session struct {
	params Parameters // oriented so Length >= Width

	conic      *pointset.Set
	normalized []int

	lengthN int
	widthN  int

	points *pointset.Set // merged raster points of (lengthN, widthN) and the sentinel
	indexX []int
	indexY []int
	nx, ny int

	lower [][]int
	upper [][]int
	cuts  [][]CutPoint

	rasters map[int][]int

	ctx   context.Context
	ticks uint
	err   error
}

// NewSession validates p and builds the normalization and bound tables.
func NewSession(p Parameters) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.oriented()

	s := &Session{params: p, rasters: make(map[int][]int)}
	ps := pointset.Params{Limit: p.Length, Box1: p.BoxLength, Box2: p.BoxWidth}
	conic, err := pointset.ConicCombinations(ps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	s.conic = conic
	s.normalized = pointset.NormalizationTable(s.conic, p.Length)
	s.lengthN = s.normalized[p.Length]
	s.widthN = s.normalized[p.Width]

	rx, ry := pointset.Raster(s.lengthN, s.widthN, s.normalized, s.conic)
	s.points = pointset.Merge(rx, ry, s.lengthN, s.widthN)

	s.indexX, s.nx = buildIndex(s.points, s.lengthN)
	s.indexY, s.ny = buildIndex(s.points, s.widthN)

	s.lower = make([][]int, s.nx)
	s.upper = make([][]int, s.nx)
	s.cuts = make([][]CutPoint, s.nx)
	for i := 0; i < s.nx; i++ {
		x := s.points.At(i)
		s.lower[i] = make([]int, s.ny)
		s.upper[i] = make([]int, s.ny)
		s.cuts[i] = make([]CutPoint, s.ny)
		for j := 0; j < s.ny; j++ {
			y := s.points.At(j)
			s.lower[i][j] = s.gridBound(x, y)
			s.upper[i][j] = s.barnesBound(x, y)
		}
	}
	return s, nil
}

// buildIndex maps every value in [0, limit] to the position of the largest
// merged raster point not above it and returns the number of points <= limit.
func buildIndex(points *pointset.Set, limit int) ([]int, int) {
	index := make([]int, limit+1)
	n, j := 0, 0
	for v := 0; v <= limit; v++ {
		if j < points.Len() && points.At(j) == v {
			index[v] = n
			n++
			j++
		} else if v > 0 {
			index[v] = index[v-1]
		}
	}
	return index, n
}

// gridBound is the best homogeneous packing of an x by y rectangle.
func (s *Session) gridBound(x, y int) int {
	l, w := s.params.BoxLength, s.params.BoxWidth
	return max((x/l)*(y/w), (x/w)*(y/l))
}

// barnesBound computes Barnes's upper bound for packing l x w boxes into an
// x by y rectangle from the waste of the best 1 x l and 1 x w strip packings.
func (s *Session) barnesBound(x, y int) int {
	l, w := s.params.BoxLength, s.params.BoxWidth
	area := l * w
	minWaste := (x * y) % area

	r, q := x%l, y%l
	a := min(r*q, (l-r)*(l-q))
	r, q = x%w, y%w
	b := min(r*q, (w-r)*(w-q))

	maxAB := max(a, b)
	var waste int
	if minWaste >= maxAB%area {
		waste = (maxAB/area)*area + minWaste
	} else {
		waste = (maxAB/area+1)*area + minWaste
	}
	return (x*y - waste) / area
}

// Parameters returns the instance, oriented so Length >= Width.
func (s *Session) Parameters() Parameters { return s.params }

// BoxArea returns l*w.
func (s *Session) BoxArea() int { return s.params.BoxLength * s.params.BoxWidth }

// NormalizedLength returns the largest conic combination not above L.
func (s *Session) NormalizedLength() int { return s.lengthN }

// NormalizedWidth returns the largest conic combination not above W.
func (s *Session) NormalizedWidth() int { return s.widthN }

// Normalize returns the largest conic combination of l and w not above x.
func (s *Session) Normalize(x int) int {
	if x <= 0 {
		return 0
	}
	if x >= len(s.normalized) {
		return s.normalized[len(s.normalized)-1]
	}
	return s.normalized[x]
}

// RasterPoints returns the raster points of a normalized dimension.
func (s *Session) RasterPoints(v int) []int {
	if r, ok := s.rasters[v]; ok {
		return r
	}
	r := pointset.RasterPoints(v, s.normalized, s.conic).Points()
	s.rasters[v] = r
	return r
}

// cell returns the table coordinates of a normalized x by y rectangle in
// either orientation.
func (s *Session) cell(x, y int) (int, int) {
	if y > x {
		x, y = y, x
	}
	return s.indexX[x], s.indexY[y]
}

// LowerBound returns the best proven count for the rectangle x by y.
func (s *Session) LowerBound(x, y int) int {
	i, j := s.cell(s.Normalize(x), s.Normalize(y))
	return s.lower[i][j]
}

// UpperBound returns Barnes's bound for the rectangle x by y.
func (s *Session) UpperBound(x, y int) int {
	i, j := s.cell(s.Normalize(x), s.Normalize(y))
	return s.upper[i][j]
}

// CutPoint returns the recorded division of the normalized rectangle x by
// y, where x >= y.
func (s *Session) CutPoint(x, y int) CutPoint {
	i, j := s.cell(x, y)
	return s.cuts[i][j]
}

// raiseLowerBound stores count for the rectangle when it improves on the
// recorded value.
func (s *Session) raiseLowerBound(x, y, count int) {
	i, j := s.cell(s.Normalize(x), s.Normalize(y))
	if count > s.lower[i][j] {
		s.lower[i][j] = count
	}
}

// Watch makes the solvers stop early once ctx is done. The tables of an
// interrupted session hold valid but not optimal packings.
func (s *Session) Watch(ctx context.Context) {
	s.ctx = ctx
	s.err = nil
}

// Err returns the context error that interrupted the search, if any.
func (s *Session) Err() error { return s.err }

// interrupted polls the watched context every checkMask+1 calls.
func (s *Session) interrupted() bool {
	if s.err != nil {
		return true
	}
	if s.ctx == nil {
		return false
	}
	s.ticks++
	if s.ticks&checkMask == 0 {
		s.err = s.ctx.Err()
	}
	return s.err != nil
}

// RasterCount returns the number of merged raster points up to the
// normalized length and width.
func (s *Session) RasterCount() (nx, ny int) { return s.nx, s.ny }
