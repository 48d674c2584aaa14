package engine

import (
	"fmt"

	"github.com/google/btree"
)

// MemoStrategy is the layout of the L-Block memo store. Dense keeps a flat
// array addressed by all four piece coordinates. The sparse strategies keep
// an array of ordered maps addressed by the leading three, two or one
// coordinates, with the remaining ones folded into the map key.
type MemoStrategy int

const (
	MemoNone    MemoStrategy = iota
	MemoSparse1              // slots by X
	MemoSparse2              // slots by X, Y
	MemoSparse3              // slots by X, Y, CornerX
	MemoDense                // flat array by X, Y, CornerX, CornerY
)

func (m MemoStrategy) String() string {
	switch m {
	case MemoDense:
		return "dense"
	case MemoSparse3:
		return "sparse-3"
	case MemoSparse2:
		return "sparse-2"
	case MemoSparse1:
		return "sparse-1"
	default:
		return "none"
	}
}

// Bytes per entry of the dense store and per slot of a sparse store.
const (
	denseEntryBytes = 12 // uint32 solution + uint64 division point
	sparseSlotBytes = 8  // one tree pointer
)

// memoEntry is one solved piece.
type memoEntry struct {
	key      int
	solution uint32
	point    uint64
}

func memoLess(a, b memoEntry) bool { return a.key < b.key }

type memo interface {
	lookup(slot, key int) (memoEntry, bool)
	store(slot, key int, e memoEntry)
	entries() int
}

type denseMemo struct {
	solution []uint32
	point    []uint64
	count    int
}

func newDenseMemo(size int) *denseMemo {
	m := &denseMemo{solution: make([]uint32, size), point: make([]uint64, size)}
	for i := range m.solution {
		m.solution[i] = noSolution
	}
	return m
}

func (m *denseMemo) lookup(slot, _ int) (memoEntry, bool) {
	if m.solution[slot] == noSolution {
		return memoEntry{}, false
	}
	return memoEntry{solution: m.solution[slot], point: m.point[slot]}, true
}

func (m *denseMemo) store(slot, _ int, e memoEntry) {
	if m.solution[slot] == noSolution {
		m.count++
	}
	m.solution[slot] = e.solution
	m.point[slot] = e.point
}

func (m *denseMemo) entries() int { return m.count }

// sparseMemo creates each slot's tree on first store.
type sparseMemo struct {
	slots []*btree.BTreeG[memoEntry]
	count int
}

// btreeDegree is the branching factor of the slot trees.
const btreeDegree = 8

func newSparseMemo(size int) *sparseMemo {
	return &sparseMemo{slots: make([]*btree.BTreeG[memoEntry], size)}
}

func (m *sparseMemo) lookup(slot, key int) (memoEntry, bool) {
	t := m.slots[slot]
	if t == nil {
		return memoEntry{}, false
	}
	return t.Get(memoEntry{key: key})
}

func (m *sparseMemo) store(slot, key int, e memoEntry) {
	t := m.slots[slot]
	if t == nil {
		t = btree.NewG[memoEntry](btreeDegree, memoLess)
		m.slots[slot] = t
	}
	e.key = key
	if _, replaced := t.ReplaceOrInsert(e); !replaced {
		m.count++
	}
}

func (m *sparseMemo) entries() int { return m.count }

// memoSize returns the number of dense entries or sparse slots needed for
// strategy m with nx by ny raster points.
func memoSize(m MemoStrategy, nx, ny int64) int64 {
	switch m {
	case MemoDense:
		return nx * ny * nx * ny
	case MemoSparse3:
		return nx * ny * nx
	case MemoSparse2:
		return nx * ny
	case MemoSparse1:
		return nx
	}
	return 0
}

// EstimateMemo returns the bytes strategy m needs up front for nx by ny
// raster points.
func EstimateMemo(m MemoStrategy, nx, ny int) int64 {
	size := memoSize(m, int64(nx), int64(ny))
	if m == MemoDense {
		return size * denseEntryBytes
	}
	return size * sparseSlotBytes
}

// SelectMemoStrategy picks the finest strategy whose estimated size fits
// budget.
func SelectMemoStrategy(nx, ny int, budget int64) (MemoStrategy, error) {
	for _, m := range []MemoStrategy{MemoDense, MemoSparse3, MemoSparse2, MemoSparse1} {
		if EstimateMemo(m, nx, ny) <= budget {
			return m, nil
		}
	}
	return MemoNone, fmt.Errorf("%w: %d bytes needed, budget %d",
		ErrMemoryExhausted, EstimateMemo(MemoSparse1, nx, ny), budget)
}

func newMemo(m MemoStrategy, nx, ny int) memo {
	size := int(memoSize(m, int64(nx), int64(ny)))
	if m == MemoDense {
		return newDenseMemo(size)
	}
	return newSparseMemo(size)
}
