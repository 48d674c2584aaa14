// Package layout turns the bound tables and division records of a solve
// into concrete box positions on the pallet.
package layout

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/model"
)

// ErrIncomplete is returned when the recorded divisions yield fewer boxes
// than the solver reported.
var ErrIncomplete = errors.New("layout has fewer boxes than reported")

// drawer walks the recorded divisions of one outcome. Every piece is drawn
// in the local coordinates of its canonical form and memoized.
type drawer struct {
	s     *engine.Session
	lb    *engine.LBlock
	l, w  int
	cache map[engine.Piece][]rect
}

// Materialize returns the boxes of out in pallet coordinates, in the
// orientation of the caller's parameters. Exactly out.Count boxes are
// returned.
func Materialize(out *engine.Outcome) ([]model.Box, error) {
	if out == nil || out.Session == nil {
		return nil, errors.New("outcome has no session")
	}
	s := out.Session
	p := s.Parameters()
	d := &drawer{
		s:     s,
		lb:    out.LBlock,
		l:     p.BoxLength,
		w:     p.BoxWidth,
		cache: make(map[engine.Piece][]rect),
	}

	rs := d.draw(engine.Rect(s.NormalizedLength(), s.NormalizedWidth()))
	if len(rs) < out.Count {
		return nil, fmt.Errorf("%w: drew %d of %d", ErrIncomplete, len(rs), out.Count)
	}
	rs = rs[:out.Count]

	// The session works with Length >= Width.
	if out.Params.Width > out.Params.Length {
		rs = transposed.rects(rs)
	}

	boxes := make([]model.Box, len(rs))
	for i, r := range rs {
		boxes[i] = model.Box{
			X1: r.x1, Y1: r.y1, X2: r.x2, Y2: r.y2,
			Rotated: out.Params.BoxLength != out.Params.BoxWidth && r.width() != out.Params.BoxLength,
		}
	}
	return boxes, nil
}

// draw returns the boxes of a canonical piece.
func (d *drawer) draw(q engine.Piece) []rect {
	if rs, ok := d.cache[q]; ok {
		return rs
	}
	// Guards against a division that yields the piece itself.
	d.cache[q] = nil

	var rs []rect
	if q.IsRectangle() {
		rs = d.drawFiveBlock(q.X, q.Y)
		if alt := d.drawLBlock(q); len(alt) > len(rs) {
			rs = alt
		}
	} else {
		rs = d.drawLBlock(q)
		if rs == nil {
			// Not solved by L-Block: fall back to the better two-rectangle split.
			rs = d.split(engine.B1, q, engine.DivisionPoint{P1: q.CornerX})
			if alt := d.split(engine.B1, q, engine.DivisionPoint{P2: q.CornerY}); len(alt) > len(rs) {
				rs = alt
			}
		}
	}
	d.cache[q] = rs
	return rs
}

// drawPart draws the normalized X by Y rectangle in a frame where it has
// its lower left corner at (x, y). X may be smaller than Y.
func (d *drawer) drawPart(x, y, X, Y int) []rect {
	X, Y = d.s.Normalize(X), d.s.Normalize(Y)
	if X == 0 || Y == 0 {
		return nil
	}
	q, flip := d.s.NormalizePiece(engine.Rect(X, Y))
	if !q.Valid() {
		return nil
	}
	f := translate(x, y)
	if flip {
		f = f.then(transposed)
	}
	return f.rects(d.draw(q))
}

// drawFiveBlock draws the rectangle L x W, L >= W, from its recorded cut.
func (d *drawer) drawFiveBlock(L, W int) []rect {
	cut := d.s.CutPoint(L, W)
	if cut.Homogeneous() {
		return d.grid(L, W)
	}

	x1, x2, y1, y2 := cut.X1, cut.X2, cut.Y1, cut.Y2
	parts := [5][4]int{
		{0, y1, x1, W - y1},
		{x1, y2, L - x1, W - y2},
		{x1, y1, x2 - x1, y2 - y1},
		{0, 0, x2, y1},
		{x2, 0, L - x2, y2},
	}
	var rs []rect
	for _, pt := range parts {
		if pt[2] <= 0 || pt[3] <= 0 || (pt[2] == L && pt[3] == W) {
			continue
		}
		rs = append(rs, d.drawPart(pt[0], pt[1], pt[2], pt[3])...)
	}
	return rs
}

// grid lays boxes out in rows in the better of the two orientations.
func (d *drawer) grid(L, W int) []rect {
	bx, by := d.l, d.w
	if (L/d.w)*(W/d.l) > (L/d.l)*(W/d.w) {
		bx, by = d.w, d.l
	}
	var rs []rect
	for y := 0; y+by <= W; y += by {
		for x := 0; x+bx <= L; x += bx {
			rs = append(rs, rect{x, y, x + bx, y + by})
		}
	}
	return rs
}

// drawLBlock draws q from its L-Block memo entry. It returns nil when q has
// no entry, or when a rectangle's entry defers to the Five-Block tables.
func (d *drawer) drawLBlock(q engine.Piece) []rect {
	if d.lb == nil {
		return nil
	}
	sol, pt, ok := d.lb.Lookup(q)
	if !ok || sol.Division == engine.Homogeneous {
		return nil
	}
	return d.split(sol.Division, q, pt)
}

// split divides q and draws both parts in the coordinates of q.
func (d *drawer) split(div engine.Division, q engine.Piece, pt engine.DivisionPoint) []rect {
	q1, q2 := d.s.Split(div, q, pt)
	f1, f2 := childFrames(div, q, pt)
	return append(d.child(q1, f1), d.child(q2, f2)...)
}

// child draws the raw part c of a division, placed into its parent by f.
func (d *drawer) child(c engine.Piece, f frame) []rect {
	q, flip := d.s.NormalizePiece(c)
	if !q.Valid() {
		return nil
	}
	if flip {
		f = f.then(transposed)
	}
	return f.rects(d.draw(q))
}

// childFrames returns the frames placing the two parts of a division of q
// at pt back into q. The parts come from Session.Split in standard
// position; each is mirrored, turned or shifted into the corner it fills.
func childFrames(div engine.Division, q engine.Piece, pt engine.DivisionPoint) (frame, frame) {
	X, Y, x, y := q.X, q.Y, q.CornerX, q.CornerY
	a, b := pt.P1, pt.P2

	switch div {
	case engine.B1, engine.B5, engine.B6, engine.B7:
		return reflectY(Y), reflectX(X)
	case engine.B2:
		return rotate180(x, Y), identity
	case engine.B3:
		return identity, translate(a, b)
	case engine.B4:
		return identity, rotate180(X, y)
	case engine.B8:
		return reflectY(Y), translate(a, 0)
	case engine.B9:
		return translate(0, b), reflectX(X)
	}
	return identity, identity
}
