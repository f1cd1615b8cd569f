package hydro

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/contour"
	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/geom"
	"github.com/talgya/terragen/internal/noise"
)

// lakeBuilder accumulates lakes across all river traces of one generation
// run and hands out stable ids.
type lakeBuilder struct {
	elev   *field.Elevation
	cfg    Config
	lakes  []*Lake
	nextID int
}

// addBasinLake records a flooded depression as a lake. The boundary is the
// elevation contour at the water level, extracted over the flooded region's
// padded bounding box. Returns the lake id, or -1 when no usable boundary
// could be extracted.
func (lb *lakeBuilder) addBasinLake(res spillResult, minCol, minRow, riverID int) int {
	// Cell bounding box of the flooded region, padded so the contour can
	// close around the shore.
	minC, maxC := minCol, minCol
	minR, maxR := minRow, minRow
	for _, idx := range res.flooded {
		c := idx % lb.elev.Width
		r := idx / lb.elev.Width
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	const pad = 3
	x0, z0 := lb.elev.CellToWorld(minC-pad, minR-pad)
	x1, z1 := lb.elev.CellToWorld(maxC+pad, maxR+pad)
	box := field.Bounds{MinX: x0, MaxX: x1, MinZ: z0, MaxZ: z1}

	cellSize := lb.elev.CellSizeX()
	lines := contour.Extract(lb.elev.Sample, res.waterLevel, box, cellSize)

	cx, cz := lb.elev.CellToWorld(minCol, minRow)
	center := orb.Point{cx, cz}

	// Largest closed loop enclosing the depression minimum wins; open
	// fragments mean the flood ran past the box and get ignored.
	var boundary orb.Ring
	bestArea := 0.0
	for _, line := range lines {
		if !contour.IsClosedLoop(line, cellSize*0.5) {
			continue
		}
		ring := orb.Ring(line)
		if !geom.PointInRing(center, ring) {
			continue
		}
		if a := geom.RingArea(ring); a > bestArea {
			bestArea = a
			boundary = ring
		}
	}
	if boundary == nil {
		slog.Debug("basin lake dropped, no closed shoreline contour",
			"cells", len(res.flooded), "water_level", res.waterLevel)
		return -1
	}

	sx, sz := lb.elev.CellToWorld(res.spillCol, res.spillRow)
	spill := orb.Point{sx, sz}

	lake := &Lake{
		ID:             lb.nextID,
		Center:         center,
		WaterLevel:     res.waterLevel,
		SpillElevation: res.waterLevel,
		SpillPoint:     &spill,
		Boundary:       boundary,
		Area:           bestArea,
		Endorheic:      false,
		InflowRivers:   []int{riverID},
		OutflowRiver:   riverID,
	}
	lb.nextID++
	lb.lakes = append(lb.lakes, lake)
	return lake.ID
}

// lakeCandidate scores one explicit-lake location.
type lakeCandidate struct {
	col, row int
	x, z     float64
	score    float64
}

// placeExplicitLakes scatters endorheic lakes over flat, mid-elevation
// ground away from the ridge. Candidates are scored by local flatness,
// spine clearance, and closeness to the target elevation, then thinned to
// the configured spacing. Boundaries are perlin-perturbed ellipses, not
// elevation contours.
func (lb *lakeBuilder) placeExplicitLakes(spine Spine, rng *rand.Rand, shape noise.Func) {
	if lb.cfg.ExplicitLakes <= 0 {
		return
	}
	elev := lb.elev
	cfg := lb.cfg

	// Spine segments in world space for clearance checks.
	type seg struct{ a, b orb.Point }
	var spineSegs []seg
	for _, s := range spine.Segments {
		if s.From < 0 || s.From >= len(spine.Vertices) || s.To < 0 || s.To >= len(spine.Vertices) {
			continue
		}
		va := spine.Vertices[s.From]
		vb := spine.Vertices[s.To]
		spineSegs = append(spineSegs, seg{orb.Point{va.X, va.Z}, orb.Point{vb.X, vb.Z}})
	}
	spineDist := func(p orb.Point) float64 {
		best := math.Inf(1)
		for _, s := range spineSegs {
			if d := geom.DistToSegment(p, s.a, s.b); d < best {
				best = d
			}
		}
		return best
	}

	var candidates []lakeCandidate
	for row := 2; row < elev.Height-2; row += 2 {
		for col := 2; col < elev.Width-2; col += 2 {
			e := elev.At(col, row)
			if e <= cfg.SeaLevel+0.02 || e > cfg.LakeTargetElev*2 {
				continue
			}

			// Local elevation variance over a 5x5 window: flat is good.
			mean := 0.0
			for dr := -2; dr <= 2; dr++ {
				for dc := -2; dc <= 2; dc++ {
					mean += elev.At(col+dc, row+dr)
				}
			}
			mean /= 25
			variance := 0.0
			for dr := -2; dr <= 2; dr++ {
				for dc := -2; dc <= 2; dc++ {
					d := elev.At(col+dc, row+dr) - mean
					variance += d * d
				}
			}
			variance /= 25

			x, z := elev.CellToWorld(col, row)
			sd := spineDist(orb.Point{x, z})
			if sd < cfg.LakeMinSpineOffset {
				continue
			}

			flatness := 1 / (1 + variance*400)
			clearance := math.Min(sd/(cfg.LakeMinSpineOffset*3), 1)
			elevFit := 1 - math.Min(math.Abs(e-cfg.LakeTargetElev)/0.3, 1)

			candidates = append(candidates, lakeCandidate{
				col: col, row: row, x: x, z: z,
				score: flatness*2 + clearance + elevFit,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].row != candidates[j].row {
			return candidates[i].row < candidates[j].row
		}
		return candidates[i].col < candidates[j].col
	})

	var placed []lakeCandidate
	for _, c := range candidates {
		if len(placed) >= cfg.ExplicitLakes {
			break
		}
		tooClose := false
		for _, p := range placed {
			if math.Hypot(p.x-c.x, p.z-c.z) < cfg.LakeSpacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		placed = append(placed, c)

		rx := cfg.LakeRadius * (0.8 + rng.Float64()*0.5)
		rz := cfg.LakeRadius * (0.8 + rng.Float64()*0.5)
		boundary := perturbedEllipse(orb.Point{c.x, c.z}, rx, rz, shape)

		ground := elev.At(c.col, c.row)
		lake := &Lake{
			ID:             lb.nextID,
			Center:         orb.Point{c.x, c.z},
			WaterLevel:     ground,
			SpillElevation: ground,
			Boundary:       boundary,
			Area:           geom.RingArea(boundary),
			Endorheic:      true,
			OutflowRiver:   -1,
		}
		lb.nextID++
		lb.lakes = append(lb.lakes, lake)
	}
}

// perturbedEllipse builds a closed ring around center, radius modulated by
// noise so the shoreline reads as natural rather than stamped.
func perturbedEllipse(center orb.Point, rx, rz float64, shape noise.Func) orb.Ring {
	const steps = 24
	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		a := float64(i) / steps * 2 * math.Pi
		c, s := math.Cos(a), math.Sin(a)
		mod := 1 + 0.3*shape(center[0]*0.11+c*0.9, center[1]*0.11+s*0.9)
		ring = append(ring, orb.Point{
			center[0] + c*rx*mod,
			center[1] + s*rz*mod,
		})
	}
	ring = append(ring, ring[0])
	return ring
}

// dedupLakes drops explicit lakes that landed on top of a basin lake: the
// basin lake keeps its simulated water level, which is the more truthful of
// the two. Overlap means either center lies inside the other's boundary.
func dedupLakes(lakes []*Lake) []*Lake {
	var basins []*Lake
	for _, l := range lakes {
		if !l.Endorheic {
			basins = append(basins, l)
		}
	}

	out := lakes[:0]
	for _, l := range lakes {
		if l.Endorheic {
			overlap := false
			for _, b := range basins {
				if geom.PointInRing(l.Center, b.Boundary) || geom.PointInRing(b.Center, l.Boundary) {
					overlap = true
					break
				}
			}
			if overlap {
				slog.Debug("explicit lake overlaps basin lake, dropped", "lake", l.ID)
				continue
			}
		}
		out = append(out, l)
	}
	return out
}
