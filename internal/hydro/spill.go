package hydro

import (
	"container/heap"

	"github.com/talgya/terragen/internal/field"
)

// dirs8 is the D8 neighborhood, cardinals first.
var dirs8 = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// floodCell is a boundary cell in the priority flood, keyed by elevation.
type floodCell struct {
	col, row  int
	elevation float64
}

// floodHeap is a min-heap over boundary cells. Ties break on insertion
// order (the seq field) so resolution order never depends on map iteration.
type floodHeap struct {
	cells []floodCell
	seqs  []int
	next  int
}

func (h *floodHeap) Len() int { return len(h.cells) }
func (h *floodHeap) Less(i, j int) bool {
	if h.cells[i].elevation != h.cells[j].elevation {
		return h.cells[i].elevation < h.cells[j].elevation
	}
	return h.seqs[i] < h.seqs[j]
}
func (h *floodHeap) Swap(i, j int) {
	h.cells[i], h.cells[j] = h.cells[j], h.cells[i]
	h.seqs[i], h.seqs[j] = h.seqs[j], h.seqs[i]
}
func (h *floodHeap) Push(x any) {
	h.cells = append(h.cells, x.(floodCell))
	h.seqs = append(h.seqs, h.next)
	h.next++
}
func (h *floodHeap) Pop() any {
	n := len(h.cells) - 1
	c := h.cells[n]
	h.cells = h.cells[:n]
	h.seqs = h.seqs[:n]
	return c
}

// spillResult describes a successfully resolved depression.
type spillResult struct {
	spillCol, spillRow int
	waterLevel         float64
	flooded            []int // Absorbed cell indices (row*width+col)
	toOcean            bool  // Spill reached a cell at or below sea level
}

// findSpillPoint resolves the depression at the local minimum (col,row) with
// a priority flood: boundary cells are absorbed lowest-first, raising the
// water level as the flood climbs, until a neighbor strictly below the
// current water level offers a genuine downhill escape. A popped cell at or
// below sea level is also an escape (the depression drains to the ocean).
//
// Requiring a strictly-below escape is what makes smooth bowls work: any
// "first higher neighbor" shortcut would report success while still inside
// the bowl wall. Exploration stops after maxFillCells pops; exhausting the
// budget or the heap means the depression is a true endorheic basin.
func findSpillPoint(elev *field.Elevation, col, row int, seaLevel float64) (spillResult, bool) {
	start := elev.At(col, row)
	waterLevel := start

	explored := make(map[int]bool)
	absorbed := []int{row*elev.Width + col}
	explored[row*elev.Width+col] = true

	h := &floodHeap{}
	heap.Init(h)
	for _, d := range dirs8 {
		nc, nr := col+d[0], row+d[1]
		if !elev.InGrid(nc, nr) {
			continue
		}
		idx := nr*elev.Width + nc
		if explored[idx] {
			continue
		}
		explored[idx] = true
		heap.Push(h, floodCell{nc, nr, elev.At(nc, nr)})
	}

	for pops := 0; h.Len() > 0 && pops < maxFillCells; pops++ {
		c := heap.Pop(h).(floodCell)

		if c.elevation <= seaLevel {
			return spillResult{
				spillCol:   c.col,
				spillRow:   c.row,
				waterLevel: waterLevel,
				flooded:    absorbed,
				toOcean:    true,
			}, true
		}

		// Flood the cell: it joins the lake surface.
		if c.elevation > waterLevel {
			waterLevel = c.elevation
		}
		absorbed = append(absorbed, c.row*elev.Width+c.col)

		for _, d := range dirs8 {
			nc, nr := c.col+d[0], c.row+d[1]
			if !elev.InGrid(nc, nr) {
				continue
			}
			idx := nr*elev.Width + nc
			if explored[idx] {
				continue
			}
			ne := elev.At(nc, nr)
			if ne < waterLevel {
				// Genuine downhill escape over the lowest saddle found
				// so far: resolution succeeds at this neighbor.
				return spillResult{
					spillCol:   nc,
					spillRow:   nr,
					waterLevel: waterLevel,
					flooded:    absorbed,
					toOcean:    ne <= seaLevel,
				}, true
			}
			explored[idx] = true
			heap.Push(h, floodCell{nc, nr, ne})
		}
	}

	return spillResult{}, false
}
