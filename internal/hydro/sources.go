package hydro

import (
	"math"
	"sort"

	"github.com/talgya/terragen/internal/field"
)

// source is a candidate river start, in grid cells.
type source struct {
	col, row  int
	elevation float64
}

// How far downhill probes reach from a spine vertex, in grid cells.
const sourceOffsetCells = 3

// placeSources derives river sources from the ridge spine: every
// high-elevation vertex probes a few cells downhill in all eight directions,
// and every segment midpoint probes perpendicular to the ridge on both
// sides. Probes that fail the minimum-drop test are discarded, survivors are
// thinned to the configured spacing, highest elevation first.
func placeSources(elev *field.Elevation, spine Spine, cfg Config) []source {
	var candidates []source

	addProbe := func(baseCol, baseRow int, dc, dr int) {
		pc := baseCol + dc*sourceOffsetCells
		pr := baseRow + dr*sourceOffsetCells
		if !elev.InGrid(pc, pr) {
			return
		}
		base := elev.At(baseCol, baseRow)
		probe := elev.At(pc, pr)
		if base-probe < cfg.MinSourceDrop {
			return // Not downhill enough to start a channel.
		}
		if probe <= cfg.SeaLevel {
			return
		}
		candidates = append(candidates, source{pc, pr, probe})
	}

	// Vertex probes.
	for _, v := range spine.Vertices {
		if v.Elevation < cfg.MinSourceElevation {
			continue
		}
		col, row := elev.WorldToCell(v.X, v.Z)
		if !elev.InGrid(col, row) {
			continue
		}
		for _, d := range dirs8 {
			addProbe(col, row, d[0], d[1])
		}
	}

	// Segment midpoint probes, perpendicular to the ridge direction.
	for _, s := range spine.Segments {
		if s.From < 0 || s.From >= len(spine.Vertices) || s.To < 0 || s.To >= len(spine.Vertices) {
			continue
		}
		a := spine.Vertices[s.From]
		b := spine.Vertices[s.To]
		midElev := (a.Elevation + b.Elevation) / 2
		if midElev < cfg.MinSourceElevation {
			continue
		}

		dx := b.X - a.X
		dz := b.Z - a.Z
		length := math.Hypot(dx, dz)
		if length < 1e-9 {
			continue
		}
		// Unit perpendicular, in grid steps.
		pdc := int(math.Round(-dz / length))
		pdr := int(math.Round(dx / length))
		if pdc == 0 && pdr == 0 {
			pdr = 1
		}

		mc, mr := elev.WorldToCell((a.X+b.X)/2, (a.Z+b.Z)/2)
		if !elev.InGrid(mc, mr) {
			continue
		}
		addProbe(mc, mr, pdc, pdr)
		addProbe(mc, mr, -pdc, -pdr)
	}

	// Highest first; ties break on grid position so order is reproducible.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].elevation != candidates[j].elevation {
			return candidates[i].elevation > candidates[j].elevation
		}
		if candidates[i].row != candidates[j].row {
			return candidates[i].row < candidates[j].row
		}
		return candidates[i].col < candidates[j].col
	})

	// Greedy spacing filter in Chebyshev cells.
	var accepted []source
	for _, c := range candidates {
		if cfg.MaxRivers > 0 && len(accepted) >= cfg.MaxRivers {
			break
		}
		tooClose := false
		for _, a := range accepted {
			dc := absInt(a.col - c.col)
			dr := absInt(a.row - c.row)
			if maxInt(dc, dr) < cfg.SourceSpacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
