// Package contour extracts isolines from sampled scalar fields using
// marching squares, chains the raw segments into polylines, and provides
// Douglas-Peucker simplification. Coastlines and lake boundaries both come
// from here.
package contour

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/geom"
)

// Cell edges, clockwise from the top.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// caseSegments maps each of the 16 marching-squares corner configurations to
// the cell edges its segments connect. Bit order: 1=top-left, 2=top-right,
// 4=bottom-right, 8=bottom-left, set when the corner is at or above the
// threshold. Cases 5 and 10 are saddles and emit two independent segments.
var caseSegments = [16][][2]int{
	0:  {},
	1:  {{edgeLeft, edgeTop}},
	2:  {{edgeTop, edgeRight}},
	3:  {{edgeLeft, edgeRight}},
	4:  {{edgeRight, edgeBottom}},
	5:  {{edgeLeft, edgeTop}, {edgeRight, edgeBottom}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeLeft, edgeBottom}},
	8:  {{edgeBottom, edgeLeft}},
	9:  {{edgeTop, edgeBottom}},
	10: {{edgeTop, edgeRight}, {edgeBottom, edgeLeft}},
	11: {{edgeRight, edgeBottom}},
	12: {{edgeRight, edgeLeft}},
	13: {{edgeTop, edgeRight}},
	14: {{edgeLeft, edgeTop}},
	15: {},
}

// Extract samples fn on a regular grid over b at the given spacing and
// returns the polylines of the level set fn == threshold. A sampling grid
// smaller than 2x2 yields no cells and an empty result.
func Extract(fn func(x, z float64) float64, threshold float64, b field.Bounds, resolution float64) []orb.LineString {
	if !b.Valid() || resolution <= 0 {
		return nil
	}
	cols := int(math.Floor(b.Width()/resolution)) + 1
	rows := int(math.Floor(b.Height()/resolution)) + 1
	if cols < 2 || rows < 2 {
		return nil
	}

	// Sample the whole grid once; each value is read by up to four cells.
	values := make([]float64, cols*rows)
	for row := 0; row < rows; row++ {
		z := b.MinZ + float64(row)*resolution
		for col := 0; col < cols; col++ {
			values[row*cols+col] = fn(b.MinX+float64(col)*resolution, z)
		}
	}

	ex := extractor{
		threshold:  threshold,
		bounds:     b,
		resolution: resolution,
		cols:       cols,
		rows:       rows,
		values:     values,
		edgePoints: make(map[int]int),
	}

	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			ex.marchCell(col, row)
		}
	}

	return connectSegments(ex.points, ex.segments)
}

type extractor struct {
	threshold  float64
	bounds     field.Bounds
	resolution float64
	cols, rows int
	values     []float64

	// Crossing points deduplicated by edge key so adjacent cells share the
	// identical point index. Chaining relies on this, not on float equality.
	edgePoints map[int]int
	points     []orb.Point
	segments   [][2]int
}

func (ex *extractor) value(col, row int) float64 {
	return ex.values[row*ex.cols+col]
}

// edgeKey packs a grid edge into one integer. orient 0 is the horizontal
// edge from sample (col,row) to (col+1,row); orient 1 is the vertical edge
// from (col,row) to (col,row+1).
func (ex *extractor) edgeKey(col, row, orient int) int {
	return (row*ex.cols+col)*2 + orient
}

// crossingPoint returns the index of the interpolated threshold crossing on
// the edge between samples (c0,r0) and (c1,r1), creating it on first use.
func (ex *extractor) crossingPoint(c0, r0, c1, r1, orient int) int {
	key := ex.edgeKey(c0, r0, orient)
	if idx, ok := ex.edgePoints[key]; ok {
		return idx
	}

	va := ex.value(c0, r0)
	vb := ex.value(c1, r1)
	t := 0.5 // Degenerate near-flat edge resolves to the midpoint.
	if delta := vb - va; math.Abs(delta) > geom.Epsilon {
		t = (ex.threshold - va) / delta
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	x0 := ex.bounds.MinX + float64(c0)*ex.resolution
	z0 := ex.bounds.MinZ + float64(r0)*ex.resolution
	x1 := ex.bounds.MinX + float64(c1)*ex.resolution
	z1 := ex.bounds.MinZ + float64(r1)*ex.resolution

	idx := len(ex.points)
	ex.points = append(ex.points, orb.Point{geom.Lerp(x0, x1, t), geom.Lerp(z0, z1, t)})
	ex.edgePoints[key] = idx
	return idx
}

// cellEdgePoint resolves one of the four edges of cell (col,row) to a shared
// crossing point index.
func (ex *extractor) cellEdgePoint(col, row, edge int) int {
	switch edge {
	case edgeTop:
		return ex.crossingPoint(col, row, col+1, row, 0)
	case edgeRight:
		return ex.crossingPoint(col+1, row, col+1, row+1, 1)
	case edgeBottom:
		return ex.crossingPoint(col, row+1, col+1, row+1, 0)
	default: // edgeLeft
		return ex.crossingPoint(col, row, col, row+1, 1)
	}
}

func (ex *extractor) marchCell(col, row int) {
	caseIdx := 0
	if ex.value(col, row) >= ex.threshold {
		caseIdx |= 1
	}
	if ex.value(col+1, row) >= ex.threshold {
		caseIdx |= 2
	}
	if ex.value(col+1, row+1) >= ex.threshold {
		caseIdx |= 4
	}
	if ex.value(col, row+1) >= ex.threshold {
		caseIdx |= 8
	}

	for _, seg := range caseSegments[caseIdx] {
		a := ex.cellEdgePoint(col, row, seg[0])
		b := ex.cellEdgePoint(col, row, seg[1])
		if a != b {
			ex.segments = append(ex.segments, [2]int{a, b})
		}
	}
}

// connectSegments chains raw segments into polylines by shared endpoint
// index. Every segment is consumed exactly once: a chain is grown forward
// from one end, then backward from the other, until no unused neighbor
// remains or the chain closes on itself.
func connectSegments(points []orb.Point, segments [][2]int) []orb.LineString {
	if len(segments) == 0 {
		return nil
	}

	// Endpoint index -> segments touching it.
	adjacency := make(map[int][]int, len(points))
	for i, seg := range segments {
		adjacency[seg[0]] = append(adjacency[seg[0]], i)
		adjacency[seg[1]] = append(adjacency[seg[1]], i)
	}

	used := make([]bool, len(segments))
	var lines []orb.LineString

	takeNext := func(at int) (other int, ok bool) {
		for _, si := range adjacency[at] {
			if used[si] {
				continue
			}
			used[si] = true
			if segments[si][0] == at {
				return segments[si][1], true
			}
			return segments[si][0], true
		}
		return 0, false
	}

	for start, seg := range segments {
		if used[start] {
			continue
		}
		used[start] = true

		chain := []int{seg[0], seg[1]}

		// Forward from the tail.
		for {
			next, ok := takeNext(chain[len(chain)-1])
			if !ok {
				break
			}
			chain = append(chain, next)
			if next == chain[0] {
				break // closed loop
			}
		}

		// Backward from the head, unless the chain already closed.
		if chain[len(chain)-1] != chain[0] {
			for {
				prev, ok := takeNext(chain[0])
				if !ok {
					break
				}
				chain = append([]int{prev}, chain...)
				if prev == chain[len(chain)-1] {
					break
				}
			}
		}

		line := make(orb.LineString, len(chain))
		for i, pi := range chain {
			line[i] = points[pi]
		}
		lines = append(lines, line)
	}

	return lines
}
