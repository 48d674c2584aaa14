package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/model"
)

var instances = []engine.Parameters{
	{Length: 10, Width: 10, BoxLength: 5, BoxWidth: 5},
	{Length: 29, Width: 17, BoxLength: 4, BoxWidth: 7},
	{Length: 11, Width: 8, BoxLength: 3, BoxWidth: 2},
	{Length: 8, Width: 11, BoxLength: 3, BoxWidth: 2},
	{Length: 17, Width: 11, BoxLength: 4, BoxWidth: 3},
	{Length: 25, Width: 18, BoxLength: 6, BoxWidth: 4},
	{Length: 20, Width: 13, BoxLength: 5, BoxWidth: 3},
	{Length: 24, Width: 14, BoxLength: 7, BoxWidth: 4},
	{Length: 25, Width: 18, BoxLength: 6, BoxWidth: 4, Depth: 1},
	{Length: 10, Width: 10, BoxLength: 12, BoxWidth: 3},
	{Length: 43, Width: 26, BoxLength: 7, BoxWidth: 3},
	{Length: 26, Width: 43, BoxLength: 3, BoxWidth: 7},
}

func TestMaterialize_ValidAndComplete(t *testing.T) {
	for _, p := range instances {
		out, err := engine.Solve(context.Background(), p)
		require.NoError(t, err, "%+v", p)

		boxes, err := Materialize(out)
		require.NoError(t, err, "%+v", p)
		assert.Len(t, boxes, out.Count, "%+v", p)
		assert.NoError(t, Validate(boxes, p.Length, p.Width, p.BoxLength, p.BoxWidth), "%+v", p)
	}
}

func TestMaterialize_LBlockWholePallet(t *testing.T) {
	p := engine.Parameters{Length: 43, Width: 26, BoxLength: 7, BoxWidth: 3}
	out, err := engine.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, engine.MethodLBlock, out.Method)
	assert.False(t, out.FiveBlock.IsSolutionOptimal())
	assert.Equal(t, 53, out.Count)

	boxes, err := Materialize(out)
	require.NoError(t, err)
	assert.Len(t, boxes, 53)
	assert.NoError(t, Validate(boxes, 43, 26, 7, 3))

	res, err := Solve(context.Background(), model.NewProblem("l-block", 43, 26, 7, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, string(engine.MethodLBlock), res.Method)
	assert.Len(t, res.Boxes, 53)
}

func TestMaterialize_LBlockPieces(t *testing.T) {
	// Draws L-Block solutions directly, including proper L-pieces.
	p := engine.Parameters{Length: 17, Width: 11, BoxLength: 4, BoxWidth: 3}
	fb, err := engine.NewFiveBlock(p)
	require.NoError(t, err)
	fb.Solve()
	s := fb.Session()
	lb, err := engine.NewLBlock(s, 0)
	require.NoError(t, err)

	d := &drawer{s: s, lb: lb, l: 4, w: 3, cache: make(map[engine.Piece][]rect)}
	for _, q := range []engine.Piece{{X: 17, Y: 11, CornerX: 8, CornerY: 7}, {X: 17, Y: 11, CornerX: 13, CornerY: 4}, engine.Rect(17, 11)} {
		sol := lb.Solve(q)
		rs := d.draw(q)
		assert.GreaterOrEqual(t, len(rs), sol.Count, q.String())

		boxes := make([]model.Box, len(rs))
		for i, r := range rs {
			boxes[i] = model.Box{X1: r.x1, Y1: r.y1, X2: r.x2, Y2: r.y2}
			inL := (r.x2 <= q.X && r.y2 <= q.CornerY) || (r.x2 <= q.CornerX && r.y2 <= q.Y)
			assert.True(t, inL, "%v outside %s", r, q)
		}
		assert.NoError(t, Validate(boxes, q.X, q.Y, 4, 3), q.String())
	}
}

func TestMaterialize_RotatedFlag(t *testing.T) {
	out, err := engine.Solve(context.Background(), engine.Parameters{Length: 29, Width: 17, BoxLength: 4, BoxWidth: 7})
	require.NoError(t, err)
	boxes, err := Materialize(out)
	require.NoError(t, err)

	for _, b := range boxes {
		assert.Equal(t, b.Width() != 4, b.Rotated)
	}
}

func TestMaterialize_NilOutcome(t *testing.T) {
	_, err := Materialize(nil)
	assert.Error(t, err)
}

func TestSolve_Result(t *testing.T) {
	prob := model.NewProblem("test", 11, 8, 3, 2)
	res, err := Solve(context.Background(), prob, 0)
	require.NoError(t, err)

	assert.Equal(t, 14, res.Count)
	assert.Len(t, res.Boxes, 14)
	assert.True(t, res.Optimal)
	assert.Equal(t, "five-block", res.Method)
	assert.Equal(t, prob.ID, res.Problem.ID)
	assert.InDelta(t, 14*6*100.0/88.0, res.Efficiency(), 1e-9)
}

func TestSolve_InvalidProblem(t *testing.T) {
	_, err := Solve(context.Background(), model.NewProblem("bad", 0, 8, 3, 2), 0)
	assert.ErrorIs(t, err, engine.ErrInvalidParameters)
}

func TestFrame_Compose(t *testing.T) {
	f := translate(3, 4).then(transposed)
	x, y := f.point(1, 2)
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)

	r := rotate180(10, 8).rect(rect{0, 0, 2, 3})
	assert.Equal(t, rect{8, 5, 10, 8}, r)

	g := reflectX(10).then(reflectX(10))
	assert.Equal(t, identity, g)
}

func TestChildFrames_CoverParent(t *testing.T) {
	// With 1x1 boxes every cell of a piece is a box, so the two parts of a
	// division must tile the parent exactly.
	out, err := engine.Solve(context.Background(), engine.Parameters{Length: 20, Width: 20, BoxLength: 1, BoxWidth: 1})
	require.NoError(t, err)
	s := out.Session
	d := &drawer{s: s, l: 1, w: 1, cache: make(map[engine.Piece][]rect)}

	l := engine.Piece{X: 10, Y: 8, CornerX: 6, CornerY: 5}
	r := engine.Rect(10, 8)
	cases := []struct {
		div engine.Division
		q   engine.Piece
		pt  engine.DivisionPoint
	}{
		{engine.B1, l, engine.DivisionPoint{P1: 2, P2: 3}},
		{engine.B2, l, engine.DivisionPoint{P1: 2, P2: 6}},
		{engine.B3, l, engine.DivisionPoint{P1: 2, P2: 3}},
		{engine.B4, l, engine.DivisionPoint{P1: 8, P2: 3}},
		{engine.B5, l, engine.DivisionPoint{P1: 2, P2: 3}},
		{engine.B6, r, engine.DivisionPoint{P1: 3, P2: 5, P3: 7}},
		{engine.B7, r, engine.DivisionPoint{P1: 4, P2: 2, P3: 6}},
		{engine.B8, l, engine.DivisionPoint{P1: 2, P2: 6}},
		{engine.B9, l, engine.DivisionPoint{P1: 8, P2: 3}},
	}
	for _, tt := range cases {
		rs := d.split(tt.div, tt.q, tt.pt)
		assert.Len(t, rs, tt.q.Area(), tt.div.String())

		boxes := make([]model.Box, len(rs))
		for i, c := range rs {
			boxes[i] = model.Box{X1: c.x1, Y1: c.y1, X2: c.x2, Y2: c.y2}
			inL := (c.x2 <= tt.q.X && c.y2 <= tt.q.CornerY) || (c.x2 <= tt.q.CornerX && c.y2 <= tt.q.Y)
			assert.True(t, inL, "%s: %v outside %s", tt.div, c, tt.q)
		}
		assert.NoError(t, Validate(boxes, tt.q.X, tt.q.Y, 1, 1), tt.div.String())
	}
}
