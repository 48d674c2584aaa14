package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/PalletCut/internal/model"
)

var (
	ErrBoxSize     = errors.New("box has the wrong size")
	ErrOutOfBounds = errors.New("box lies outside the pallet")
	ErrOverlap     = errors.New("boxes overlap")
)

// Validate checks that every box is l x w or w x l, lies inside the L x W
// pallet and that no two boxes overlap.
func Validate(boxes []model.Box, L, W, l, w int) error {
	for i, b := range boxes {
		bw, bh := b.Width(), b.Height()
		if !(bw == l && bh == w) && !(bw == w && bh == l) {
			return fmt.Errorf("%w: box %d is %dx%d, want %dx%d", ErrBoxSize, i, bw, bh, l, w)
		}
		if b.X1 < 0 || b.Y1 < 0 || b.X2 > L || b.Y2 > W {
			return fmt.Errorf("%w: box %d at (%d,%d)-(%d,%d) on %dx%d",
				ErrOutOfBounds, i, b.X1, b.Y1, b.X2, b.Y2, L, W)
		}
	}

	// Sweep over boxes ordered by left edge.
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return boxes[order[a]].X1 < boxes[order[b]].X1 })

	for i, oi := range order {
		bi := boxes[oi]
		for _, oj := range order[i+1:] {
			bj := boxes[oj]
			if bj.X1 >= bi.X2 {
				break
			}
			if bi.Overlaps(bj) {
				return fmt.Errorf("%w: boxes %d and %d", ErrOverlap, oi, oj)
			}
		}
	}
	return nil
}
