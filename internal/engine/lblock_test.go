package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lblockFor runs Five-Block on p and returns an L-Block solver over the same
// session using memo strategy m.
func lblockFor(t *testing.T, p Parameters, m MemoStrategy) (*FiveBlock, *LBlock) {
	t.Helper()
	fb, err := NewFiveBlock(p)
	require.NoError(t, err)
	fb.Solve()

	nx, ny := fb.Session().RasterCount()
	lb, err := NewLBlock(fb.Session(), EstimateMemo(m, nx, ny))
	require.NoError(t, err)
	require.Equal(t, m, lb.Strategy())
	return fb, lb
}

var memoStrategies = []MemoStrategy{MemoDense, MemoSparse3, MemoSparse2, MemoSparse1}

func TestLBlock_RectangleNotWorseThanFiveBlock(t *testing.T) {
	for _, p := range []Parameters{params(17, 11, 4, 3), params(25, 18, 6, 4), params(20, 13, 5, 3)} {
		fb, lb := lblockFor(t, p, MemoDense)
		s := fb.Session()

		sol := lb.Solve(Rect(s.NormalizedLength(), s.NormalizedWidth()))
		assert.GreaterOrEqual(t, sol.Count, fb.Solve(), "%+v", p)
		assert.LessOrEqual(t, sol.Count, fb.UpperBound(), "%+v", p)
		assert.Equal(t, sol.Count, lb.GetSolution(Rect(s.NormalizedLength(), s.NormalizedWidth())))
	}
}

func TestLBlock_ProperPiece(t *testing.T) {
	// Raster points of 17 include 8 and those of 11 include 7.
	p := params(17, 11, 4, 3)
	q := Piece{17, 11, 8, 7}

	fb, lb := lblockFor(t, p, MemoDense)
	s := fb.Session()

	sol := lb.Solve(q)
	lower, _ := lb.lowerBound(q)
	assert.GreaterOrEqual(t, sol.Count, lower)
	assert.LessOrEqual(t, sol.Count, q.Area()/s.BoxArea())
	assert.NotEqual(t, Homogeneous, sol.Division)
	assert.Greater(t, lb.Entries(), 0)

	got, _, ok := lb.Lookup(q)
	require.True(t, ok)
	assert.Equal(t, sol, got)
}

func TestLBlock_StrategiesAgree(t *testing.T) {
	p := params(17, 11, 4, 3)
	pieces := []Piece{{17, 11, 8, 7}, {17, 11, 13, 4}, Rect(17, 11), {14, 11, 9, 8}}

	var want []Solution
	for _, m := range memoStrategies {
		_, lb := lblockFor(t, p, m)
		var got []Solution
		for _, q := range pieces {
			got = append(got, lb.Solve(q))
		}
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, m.String())
	}
}

func TestLBlock_IndexIsInjective(t *testing.T) {
	p := params(17, 11, 4, 3)
	pieces := []Piece{{17, 11, 8, 7}, {17, 11, 13, 4}, Rect(17, 11), {14, 11, 9, 8}, Rect(11, 8)}

	for _, m := range memoStrategies {
		_, lb := lblockFor(t, p, m)
		seen := make(map[[2]int]Piece)
		for _, q := range pieces {
			slot, key := lb.Index(q)
			prev, dup := seen[[2]int{slot, key}]
			assert.False(t, dup, "%s collides with %s under %s", q, prev, m)
			seen[[2]int{slot, key}] = q
		}
	}
}

func TestLBlock_TooSmallPiece(t *testing.T) {
	_, lb := lblockFor(t, params(17, 11, 4, 3), MemoSparse2)
	assert.Equal(t, Solution{}, lb.Solve(Rect(3, 3)))
	assert.Equal(t, 0, lb.GetSolution(Rect(3, 3)))
}

func TestLBlock_Unsolved(t *testing.T) {
	_, lb := lblockFor(t, params(17, 11, 4, 3), MemoDense)
	assert.Equal(t, 0, lb.GetSolution(Piece{17, 11, 8, 7}))
	_, _, ok := lb.Lookup(Piece{17, 11, 8, 7})
	assert.False(t, ok)
	assert.Equal(t, 0, lb.Entries())
}

func TestNewLBlock_BudgetTooSmall(t *testing.T) {
	s, err := NewSession(params(17, 11, 4, 3))
	require.NoError(t, err)
	_, err = NewLBlock(s, 1)
	assert.ErrorIs(t, err, ErrMemoryExhausted)
}
