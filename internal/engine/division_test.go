package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolution_Pack(t *testing.T) {
	sol := Solution{Count: 16, Division: B6}
	word := sol.Pack()

	assert.Equal(t, uint32(16|6<<27), word)
	assert.Equal(t, sol, UnpackSolution(word))
	assert.Equal(t, countMask, UnpackSolution(countMask).Count)
}

func TestSolution_PackNeverCollidesWithEmpty(t *testing.T) {
	for d := Homogeneous; d <= B9; d++ {
		assert.NotEqual(t, noSolution, Solution{Count: countMask, Division: d}.Pack(), d.String())
	}
}

func TestDivisionPoint_Pack(t *testing.T) {
	pt := DivisionPoint{P1: 3, P2: 5, P3: 7}
	word := pt.Pack()

	assert.Equal(t, uint64(3+5<<11+7<<22), word)
	assert.Equal(t, pt, UnpackDivisionPoint(word))

	full := DivisionPoint{P1: MaxDimension, P2: MaxDimension, P3: MaxDimension}
	assert.Equal(t, full, UnpackDivisionPoint(full.Pack()))
}

func TestDivision_String(t *testing.T) {
	assert.Equal(t, "homogeneous", Homogeneous.String())
	assert.Equal(t, "B1", B1.String())
	assert.Equal(t, "B9", B9.String())
	assert.Equal(t, "Division(12)", Division(12).String())
	assert.Equal(t, "(1,2)", DivisionPoint{P1: 1, P2: 2}.String())
	assert.Equal(t, "(1,2,3)", DivisionPoint{P1: 1, P2: 2, P3: 3}.String())
}
