package layout

// rect is an axis-aligned rectangle with x1 <= x2 and y1 <= y2.
type rect struct {
	x1, y1, x2, y2 int
}

func (r rect) width() int  { return r.x2 - r.x1 }
func (r rect) height() int { return r.y2 - r.y1 }

// frame is an affine map with an integer matrix, taking a point (u, v) of
// a child region to (a*u + b*v + tx, c*u + d*v + ty) in its parent. The
// matrices used here are the symmetries of the square.
type frame struct {
	a, b, c, d int
	tx, ty     int
}

var identity = frame{a: 1, d: 1}

// transposed swaps the axes.
var transposed = frame{b: 1, c: 1}

func translate(dx, dy int) frame { return frame{a: 1, d: 1, tx: dx, ty: dy} }

// reflectX mirrors u across the line u = X/2: u -> X - u.
func reflectX(X int) frame { return frame{a: -1, d: 1, tx: X} }

// reflectY mirrors v: v -> Y - v.
func reflectY(Y int) frame { return frame{a: 1, d: -1, ty: Y} }

// rotate180 turns the child half a revolution so that its origin lands on
// (x, y).
func rotate180(x, y int) frame { return frame{a: -1, d: -1, tx: x, ty: y} }

func (f frame) point(u, v int) (int, int) {
	return f.a*u + f.b*v + f.tx, f.c*u + f.d*v + f.ty
}

// then returns the frame applying g first and f second.
func (f frame) then(g frame) frame {
	return frame{
		a:  f.a*g.a + f.b*g.c,
		b:  f.a*g.b + f.b*g.d,
		c:  f.c*g.a + f.d*g.c,
		d:  f.c*g.b + f.d*g.d,
		tx: f.a*g.tx + f.b*g.ty + f.tx,
		ty: f.c*g.tx + f.d*g.ty + f.ty,
	}
}

func (f frame) rect(r rect) rect {
	x1, y1 := f.point(r.x1, r.y1)
	x2, y2 := f.point(r.x2, r.y2)
	return rect{min(x1, x2), min(y1, y2), max(x1, x2), max(y1, y2)}
}

func (f frame) rects(rs []rect) []rect {
	out := make([]rect, len(rs))
	for i, r := range rs {
		out[i] = f.rect(r)
	}
	return out
}
