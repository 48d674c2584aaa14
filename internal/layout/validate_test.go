package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PalletCut/internal/model"
)

func TestValidate(t *testing.T) {
	ok := []model.Box{
		{X1: 0, Y1: 0, X2: 4, Y2: 3},
		{X1: 4, Y1: 0, X2: 7, Y2: 4, Rotated: true},
		{X1: 0, Y1: 3, X2: 4, Y2: 6},
	}
	assert.NoError(t, Validate(ok, 10, 10, 4, 3))
	assert.NoError(t, Validate(nil, 10, 10, 4, 3))

	tests := []struct {
		name  string
		boxes []model.Box
		want  error
	}{
		{"wrong size", []model.Box{{X1: 0, Y1: 0, X2: 4, Y2: 4}}, ErrBoxSize},
		{"negative origin", []model.Box{{X1: -1, Y1: 0, X2: 3, Y2: 3}}, ErrOutOfBounds},
		{"past the edge", []model.Box{{X1: 7, Y1: 0, X2: 11, Y2: 3}}, ErrOutOfBounds},
		{"overlap", []model.Box{{X1: 0, Y1: 0, X2: 4, Y2: 3}, {X1: 2, Y1: 1, X2: 6, Y2: 4}}, ErrOverlap},
		{"overlap after gap", []model.Box{
			{X1: 0, Y1: 0, X2: 4, Y2: 3},
			{X1: 0, Y1: 5, X2: 4, Y2: 8},
			{X1: 3, Y1: 6, X2: 6, Y2: 10},
		}, ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tt.boxes, 10, 10, 4, 3), tt.want)
		})
	}
}
