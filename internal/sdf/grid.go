// Package sdf turns polylines (coastlines, rivers, roads) into spatial
// acceleration structures and baked influence textures. The segment grid
// answers nearest-distance queries in O(local density); the bakers convert
// distances into the 0-255 textures the terrain compositor samples.
package sdf

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/geom"
)

// segment is one polyline edge stored in the grid.
type segment struct {
	a, b orb.Point
}

// SegmentGrid is a coarse uniform grid over polyline segments. Each segment
// is inserted into every cell its bounding box overlaps, so a query only
// inspects the 3x3 neighborhood around its own cell.
//
// MinDistance is exact only for distances up to one cell size: callers that
// need a correct answer within radius r must build the grid with
// cellSize >= r. GridCellSize picks that while capping grid dimensions.
type SegmentGrid struct {
	cells    [][]segment
	cols     int
	rows     int
	cellSize float64
	bounds   field.Bounds
}

// GridCellSize returns the cell size for a desired query radius over the
// given bounds: at least the radius (correctness), at least span/500 (caps
// the cell count on large worlds).
func GridCellSize(b field.Bounds, desiredRadius float64) float64 {
	span := math.Max(b.Width(), b.Height())
	return math.Max(desiredRadius, span/500)
}

// NewSegmentGrid indexes the polylines' segments. Zero-length segments are
// dropped; an empty input yields a grid whose queries return +Inf.
func NewSegmentGrid(lines []orb.LineString, b field.Bounds, cellSize float64) *SegmentGrid {
	if cellSize <= 0 {
		cellSize = GridCellSize(b, 1)
	}
	cols := int(math.Ceil(b.Width() / cellSize))
	rows := int(math.Ceil(b.Height() / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &SegmentGrid{
		cells:    make([][]segment, cols*rows),
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		bounds:   b,
	}

	for _, line := range lines {
		for i := 1; i < len(line); i++ {
			a, bb := line[i-1], line[i]
			if geom.DistSq(a, bb) < geom.Epsilon {
				continue
			}
			g.insert(segment{a, bb})
		}
	}
	return g
}

func (g *SegmentGrid) cellIndex(x, z float64) (col, row int) {
	col = int((x - g.bounds.MinX) / g.cellSize)
	row = int((z - g.bounds.MinZ) / g.cellSize)
	return col, row
}

// insert adds the segment to every cell overlapped by its AABB, clamped to
// the grid. Conservative: a cell may hold segments that never come closest,
// but no nearby segment is ever missed.
func (g *SegmentGrid) insert(s segment) {
	minC, minR := g.cellIndex(math.Min(s.a[0], s.b[0]), math.Min(s.a[1], s.b[1]))
	maxC, maxR := g.cellIndex(math.Max(s.a[0], s.b[0]), math.Max(s.a[1], s.b[1]))

	minC = clampInt(minC, 0, g.cols-1)
	maxC = clampInt(maxC, 0, g.cols-1)
	minR = clampInt(minR, 0, g.rows-1)
	maxR = clampInt(maxR, 0, g.rows-1)

	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			i := row*g.cols + col
			g.cells[i] = append(g.cells[i], s)
		}
	}
}

// MinDistance returns the distance from the query point to the nearest
// indexed segment within the surrounding 3x3 cell neighborhood, or +Inf when
// that neighborhood holds no segments.
func (g *SegmentGrid) MinDistance(x, z float64) float64 {
	col, row := g.cellIndex(x, z)
	p := orb.Point{x, z}

	best := math.Inf(1)
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			for _, s := range g.cells[r*g.cols+c] {
				if d := geom.DistToSegmentSq(p, s.a, s.b); d < best {
					best = d
				}
			}
		}
	}
	if math.IsInf(best, 1) {
		return best
	}
	return math.Sqrt(best)
}

// SegmentCount returns the number of stored segment references, counting one
// per overlapped cell. Diagnostics only.
func (g *SegmentGrid) SegmentCount() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
