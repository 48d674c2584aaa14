package engine

import "fmt"

// Piece is an L-shaped region in standard position:
//
//	[0,X] x [0,CornerY]  union  [0,CornerX] x [0,Y]
//
// The notch [CornerX,X] x [CornerY,Y] is missing from the top right. When
// CornerX == X and CornerY == Y the piece is the plain X by Y rectangle.
// A negative X marks a piece too small to hold a single box.
type Piece struct {
	X       int `json:"x"`
	Y       int `json:"y"`
	CornerX int `json:"corner_x"`
	CornerY int `json:"corner_y"`
}

// Rect returns the rectangle piece x by y.
func Rect(x, y int) Piece { return Piece{X: x, Y: y, CornerX: x, CornerY: y} }

// Valid reports whether the piece survived normalization.
func (p Piece) Valid() bool { return p.X >= 0 }

// IsRectangle reports whether the piece has no notch.
func (p Piece) IsRectangle() bool { return p.CornerX == p.X && p.CornerY == p.Y }

// Area returns X*Y minus the notch.
func (p Piece) Area() int {
	return p.X*p.Y - (p.X-p.CornerX)*(p.Y-p.CornerY)
}

// Transpose mirrors the piece across the diagonal.
func (p Piece) Transpose() Piece {
	return Piece{X: p.Y, Y: p.X, CornerX: p.CornerY, CornerY: p.CornerX}
}

func (p Piece) String() string {
	if p.IsRectangle() {
		return fmt.Sprintf("R(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("L(%d,%d,%d,%d)", p.X, p.Y, p.CornerX, p.CornerY)
}

var invalidPiece = Piece{X: -1}

// NormalizePiece maps an L-piece to the canonical member of its symmetry
// class (Morabito and Morales, 1998):
//
//  1. X >= CornerX and Y >= CornerY;
//  2. X >= Y, otherwise the transposed piece is used;
//  3. X == Y implies CornerX >= CornerY;
//  4. CornerX == X if and only if CornerY == Y, so notches of zero depth
//     collapse into rectangles.
//
// Pieces holding less area than one box come back invalid. The second
// result reports whether the canonical piece is the transpose of q.
func (s *Session) NormalizePiece(q Piece) (Piece, bool) {
	i, j, i1, j1 := q.X, q.Y, q.CornerX, q.CornerY

	switch {
	case i1 == 0:
		i1 = i
		j = j1
	case j1 == 0:
		j1 = j
		i = i1
	case i1 == i || j1 == j:
		i1 = i
		j1 = j
	}

	if i*j-(i-i1)*(j-j1) < s.BoxArea() {
		return invalidPiece, false
	}

	c := Piece{X: i, Y: j, CornerX: i1, CornerY: j1}
	transposed := false
	if c.IsRectangle() && c.X < c.Y {
		c, transposed = c.Transpose(), true
	}
	proper := 0 < c.CornerX && c.CornerX < c.X && 0 < c.CornerY && c.CornerY < c.Y
	switch {
	case proper && c.X < c.Y:
		c, transposed = c.Transpose(), true
	case proper && c.X == c.Y && c.CornerX < c.CornerY:
		// Mirroring a square piece only exchanges its corner coordinates.
		c, transposed = c.Transpose(), true
	}
	return c, transposed
}

// Split divides q at pt according to division d and returns both parts in
// standard position, not yet normalized. For B6 and B7, q is a rectangle.
func (s *Session) Split(d Division, q Piece, pt DivisionPoint) (Piece, Piece) {
	n := s.Normalize
	X, Y, x, y := q.X, q.Y, q.CornerX, q.CornerY
	a, b, c := pt.P1, pt.P2, pt.P3

	switch d {
	case B1:
		return Piece{x, n(Y - b), a, n(Y - y)},
			Piece{X, y, n(X - a), b}
	case B2:
		return Piece{x, n(Y - y), n(x - a), n(Y - b)},
			Piece{X, b, a, y}
	case B3:
		return Piece{X, Y, a, b},
			Piece{n(X - a), n(Y - b), n(x - a), n(y - b)}
	case B4:
		return Piece{a, Y, x, b},
			Piece{n(X - x), y, n(X - a), n(y - b)}
	case B5:
		return Piece{x, Y, a, n(Y - b)},
			Piece{n(X - a), y, n(X - x), b}
	case B6:
		return Piece{c, Y, a, n(Y - b)},
			Piece{n(X - a), Y, n(X - c), b}
	case B7:
		return Piece{X, n(Y - b), a, n(Y - c)},
			Piece{X, c, n(X - a), b}
	case B8:
		return Piece{x, Y, a, n(Y - b)},
			Piece{n(X - a), b, n(x - a), y}
	case B9:
		return Piece{a, n(Y - b), x, n(y - b)},
			Piece{X, y, n(X - a), b}
	}
	return invalidPiece, invalidPiece
}

// divide splits q and normalizes both parts.
func (s *Session) divide(d Division, q Piece, pt DivisionPoint) (Piece, Piece) {
	q1, q2 := s.Split(d, q, pt)
	q1, _ = s.NormalizePiece(q1)
	q2, _ = s.NormalizePiece(q2)
	return q1, q2
}
