package importer

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PalletCut/internal/model"
)

// dxfTolerance is the distance under which two endpoints are joined and a
// coordinate is taken as whole.
const dxfTolerance = 0.01

type point struct {
	X, Y float64
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// bounds is the axis-aligned bounding box of a closed outline.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }
func (b bounds) area() float64   { return b.width() * b.height() }

// ImportDXF reads a drawing that outlines the pallet and one box. Closed
// LWPOLYLINEs and chains of LINEs are collected; the largest outline is
// the pallet and the smallest is the box. The result holds one Problem
// labelled after the file.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			outline := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				outline[i] = point{X: v[0], Y: v[1]}
			}
			outlines = append(outlines, outline)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, circles and the like carry no outline.
		}
	}
	outlines = append(outlines, chainSegments(segments, dxfTolerance)...)

	var boxes []bounds
	for _, o := range outlines {
		b := boundsOf(o)
		if b.width() < dxfTolerance || b.height() < dxfTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.width(), b.height()))
			continue
		}
		boxes = append(boxes, b)
	}
	if len(boxes) < 2 {
		result.Errors = append(result.Errors, "Expected a pallet outline and at least one box outline")
		return result
	}

	sort.Slice(boxes, func(i, j int) bool { return boxes[i].area() > boxes[j].area() })
	pallet, box := boxes[0], boxes[len(boxes)-1]

	dims := make([]int, 0, 4)
	for _, v := range []float64{pallet.width(), pallet.height(), box.width(), box.height()} {
		r := math.Round(v)
		if math.Abs(v-r) > dxfTolerance {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Rounded %.3f to %d", v, int(r)))
		}
		dims = append(dims, int(r))
	}
	if dims[2] == 0 || dims[3] == 0 {
		result.Errors = append(result.Errors, "Box outline rounds to zero size")
		return result
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result.Problems = append(result.Problems, model.NewProblem(label, dims[0], dims[1], dims[2], dims[3]))
	return result
}

func boundsOf(o []point) bounds {
	b := bounds{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range o {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Open chains are not outlines.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
