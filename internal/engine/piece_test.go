package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSession uses 1x1 boxes so normalization is the identity.
func unitSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(params(20, 20, 1, 1))
	require.NoError(t, err)
	return s
}

func TestNormalizePiece(t *testing.T) {
	s := unitSession(t)

	tests := []struct {
		name       string
		in         Piece
		want       Piece
		transposed bool
	}{
		{"zero corner x collapses to lower rectangle", Piece{10, 8, 0, 5}, Rect(10, 5), false},
		{"zero corner y collapses and transposes", Piece{10, 8, 4, 0}, Rect(8, 4), true},
		{"full corner x is a rectangle", Piece{10, 8, 10, 3}, Rect(10, 8), false},
		{"tall rectangle transposes", Rect(5, 9), Rect(9, 5), true},
		{"tall L transposes", Piece{6, 9, 2, 4}, Piece{9, 6, 4, 2}, true},
		{"square L orders the corner", Piece{7, 7, 2, 5}, Piece{7, 7, 5, 2}, true},
		{"canonical L is unchanged", Piece{7, 7, 5, 2}, Piece{7, 7, 5, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, transposed := s.NormalizePiece(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.transposed, transposed)
		})
	}
}

func TestNormalizePiece_TooSmall(t *testing.T) {
	s, err := NewSession(params(20, 20, 3, 3))
	require.NoError(t, err)

	got, _ := s.NormalizePiece(Rect(2, 2))
	assert.False(t, got.Valid())
}

func TestSplit_ConservesArea(t *testing.T) {
	s := unitSession(t)
	l := Piece{10, 8, 6, 5}
	r := Rect(10, 8)

	tests := []struct {
		d  Division
		q  Piece
		pt DivisionPoint
	}{
		{B1, l, DivisionPoint{P1: 2, P2: 3}},
		{B2, l, DivisionPoint{P1: 2, P2: 6}},
		{B3, l, DivisionPoint{P1: 2, P2: 3}},
		{B4, l, DivisionPoint{P1: 8, P2: 3}},
		{B5, l, DivisionPoint{P1: 2, P2: 3}},
		{B6, r, DivisionPoint{P1: 3, P2: 5, P3: 7}},
		{B7, r, DivisionPoint{P1: 4, P2: 2, P3: 6}},
		{B8, l, DivisionPoint{P1: 2, P2: 6}},
		{B9, l, DivisionPoint{P1: 8, P2: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			q1, q2 := s.Split(tt.d, tt.q, tt.pt)
			assert.Equal(t, tt.q.Area(), q1.Area()+q2.Area(), "%s + %s", q1, q2)
		})
	}
}

func TestSplit_B1(t *testing.T) {
	s := unitSession(t)
	q1, q2 := s.Split(B1, Piece{10, 8, 6, 5}, DivisionPoint{P1: 2, P2: 3})
	assert.Equal(t, Piece{6, 5, 2, 3}, q1)
	assert.Equal(t, Piece{10, 5, 8, 3}, q2)
}

func TestPiece_Basics(t *testing.T) {
	q := Piece{10, 8, 6, 5}
	assert.Equal(t, 68, q.Area())
	assert.False(t, q.IsRectangle())
	assert.Equal(t, Piece{8, 10, 5, 6}, q.Transpose())
	assert.Equal(t, "L(10,8,6,5)", q.String())
	assert.Equal(t, "R(4,3)", Rect(4, 3).String())
	assert.True(t, Rect(4, 3).IsRectangle())
}
