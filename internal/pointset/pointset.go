// Package pointset builds the integer point sets the packing engine uses to
// reduce the coordinate space: conic combinations of the box sides, the
// normalization table derived from them and raster points.
package pointset

import "fmt"

// Set is an ordered, strictly increasing sequence of non-negative integers
// with a fixed capacity. Values are added with Insert, which only accepts a
// value greater than the current maximum.
type Set struct {
	points []int
}

// New returns an empty set able to hold capacity points.
func New(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{points: make([]int, 0, capacity)}
}

// Insert appends v when it exceeds the current maximum and reports whether
// the set grew. Inserting past the capacity is a programming error.
func (s *Set) Insert(v int) bool {
	if v < 0 {
		return false
	}
	if n := len(s.points); n > 0 && s.points[n-1] >= v {
		return false
	}
	if len(s.points) == cap(s.points) {
		panic(fmt.Sprintf("pointset: capacity %d exceeded inserting %d", cap(s.points), v))
	}
	s.points = append(s.points, v)
	return true
}

// Len returns the number of points in the set.
func (s *Set) Len() int { return len(s.points) }

// At returns the i-th smallest point.
func (s *Set) At(i int) int { return s.points[i] }

// Last returns the largest point, or -1 for an empty set.
func (s *Set) Last() int {
	if len(s.points) == 0 {
		return -1
	}
	return s.points[len(s.points)-1]
}

// Points returns the backing slice. Callers must not modify it.
func (s *Set) Points() []int { return s.points }

// Params carries the dimensions a point-set construction works with.
// Limit is the largest coordinate of interest (the pallet length after
// orienting it so length >= width); Box1 and Box2 are the box sides.
type Params struct {
	Limit int
	Box1  int
	Box2  int
}

// Validate checks that the parameters describe a usable instance.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("pointset: negative limit %d", p.Limit)
	}
	if p.Box1 <= 0 || p.Box2 <= 0 {
		return fmt.Errorf("pointset: box sides must be positive, got %dx%d", p.Box1, p.Box2)
	}
	return nil
}

// ConicCombinations returns every x <= p.Limit that can be written as
// r*Box1 + s*Box2 with r, s >= 0. Zero and p.Limit are always members.
func ConicCombinations(p Params) (*Set, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	limit := p.Limit
	c := make([]int, limit+1)
	for i := p.Box1; i <= limit; i++ {
		if v := c[i-p.Box1] + p.Box1; v > c[i] {
			c[i] = v
		}
	}
	for i := p.Box2; i <= limit; i++ {
		if v := c[i-p.Box2] + p.Box2; v > c[i] {
			c[i] = v
		}
	}

	set := New(limit + 2)
	set.Insert(0)
	for i := 1; i <= limit; i++ {
		if c[i] == i {
			set.Insert(i)
		}
	}
	set.Insert(limit)
	return set, nil
}

// NormalizationTable returns normalized[0..limit] where normalized[x] is
// the largest member of conic that does not exceed x.
func NormalizationTable(conic *Set, limit int) []int {
	normalized := make([]int, limit+1)
	i := 0
	for x := 0; x <= limit; x++ {
		for i < conic.Len() && conic.At(i) <= x {
			i++
		}
		if i > 0 {
			normalized[x] = conic.At(i - 1)
		}
	}
	return normalized
}

// RasterPoints returns the raster points of a single dimension:
// {normalized[length-x] : x in conic, x <= length} plus zero. The descending scan of
// the conic set yields ascending values, so monotone insertion keeps the
// set ordered and duplicate free.
func RasterPoints(length int, normalized []int, conic *Set) *Set {
	n := 0
	for n < conic.Len() && conic.At(n) <= length {
		n++
	}
	raster := New(n + 2)
	raster.Insert(0)
	for i := n - 1; i >= 0; i-- {
		raster.Insert(normalized[length-conic.At(i)])
	}
	return raster
}

// Raster returns the raster point sets for both sides of an L x W rectangle.
func Raster(length, width int, normalized []int, conic *Set) (x, y *Set) {
	return RasterPoints(length, normalized, conic), RasterPoints(width, normalized, conic)
}

// Merge combines the raster points of both sides into one ascending set of
// values no larger than length. Length itself is always present and the
// sentinel length+1 closes the set.
func Merge(x, y *Set, length, width int) *Set {
	merged := New(x.Len() + y.Len() + 2)
	i, j := 0, 0
	for i < x.Len() || j < y.Len() {
		var v int
		switch {
		case j >= y.Len() || y.At(j) > width:
			if i >= x.Len() {
				j = y.Len()
				continue
			}
			v = x.At(i)
			i++
		case i >= x.Len() || x.At(i) > length:
			v = y.At(j)
			j++
		case x.At(i) < y.At(j):
			v = x.At(i)
			i++
		case x.At(i) > y.At(j):
			v = y.At(j)
			j++
		default:
			v = x.At(i)
			i++
			j++
		}
		if v > length {
			break
		}
		merged.Insert(v)
	}
	merged.Insert(length)
	merged.Insert(length + 1)
	return merged
}
