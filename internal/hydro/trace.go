package hydro

import (
	"math"

	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/noise"
)

// Downstream growth saturates after this many steps.
const widthSaturationSteps = 300

// widthAt returns channel width as a function of downstream step count:
// narrow near the source, growing with the square root of progress.
func widthAt(step int, cfg Config) float64 {
	t := math.Min(float64(step)/widthSaturationSteps, 1)
	return cfg.BaseRiverWidth * (0.3 + math.Sqrt(t)*1.7)
}

// carveAt returns channel depth for a step, scaling with the same progress
// as width so big rivers cut deeper valleys.
func carveAt(step int, cfg Config) float64 {
	t := math.Min(float64(step)/widthSaturationSteps, 1)
	return cfg.CarveDepth * (0.5 + 0.5*t)
}

// traceRiver follows steepest descent from a source cell until it reaches
// the ocean, dead-ends in an unresolvable depression, or exhausts its step
// budget. Local minima are handed to the priority-flood resolver; absorbed
// depression cells are marked visited so the trace never re-enters them.
func traceRiver(elev *field.Elevation, cfg Config, src source, id int, lakes *lakeBuilder) *River {
	r := &River{ID: id, TerminatingLake: -1}
	visited := make(map[int]bool)
	col, row := src.col, src.row

	for step := 0; step < maxTraceSteps; step++ {
		e := elev.At(col, row)
		x, z := elev.CellToWorld(col, row)
		r.Vertices = append(r.Vertices, Vertex{
			X:          x,
			Z:          z,
			Elevation:  e,
			Flow:       math.Min(float64(step)/widthSaturationSteps, 1),
			Width:      widthAt(step, cfg),
			CarveDepth: carveAt(step, cfg),
		})
		visited[row*elev.Width+col] = true

		if e <= cfg.SeaLevel {
			r.Termination = TermCoast
			return r
		}

		// Steepest strictly-lower unvisited neighbor.
		bestCol, bestRow := -1, -1
		bestElev := e
		for _, d := range dirs8 {
			nc, nr := col+d[0], row+d[1]
			if !elev.InGrid(nc, nr) || visited[nr*elev.Width+nc] {
				continue
			}
			if ne := elev.At(nc, nr); ne < bestElev {
				bestElev = ne
				bestCol, bestRow = nc, nr
			}
		}
		if bestCol >= 0 {
			col, row = bestCol, bestRow
			continue
		}

		// Local minimum or flat: flood until the depression spills.
		res, ok := findSpillPoint(elev, col, row, cfg.SeaLevel)
		if !ok {
			r.Termination = TermBasin
			return r
		}

		for _, idx := range res.flooded {
			visited[idx] = true
		}

		// A depression big and deep enough becomes a lake the river flows
		// through.
		depth := res.waterLevel - e
		if len(res.flooded) >= cfg.MinLakeCells && depth >= cfg.MinLakeDepth {
			lakeID := lakes.addBasinLake(res, col, row, id)
			if lakeID >= 0 && r.TerminatingLake < 0 {
				r.TerminatingLake = lakeID
			}
		}

		col, row = res.spillCol, res.spillRow
	}

	r.Termination = TermEdge
	return r
}

// postProcess applies the invariants raw tracing does not guarantee:
// meander displacement (position only), the monotonic elevation clamp, the
// sea-level ramp for rivers stranded above a basin, and curvature.
func postProcess(r *River, cfg Config, meander noise.Func, seaLevel float64) {
	n := len(r.Vertices)
	if n == 0 {
		return
	}

	// Meander: displace vertices past the first few perpendicular to the
	// local flow direction. Elevation is untouched.
	if cfg.MeanderAmplitude > 0 && n > 4 {
		for i := 3; i < n; i++ {
			v := &r.Vertices[i]
			dx := r.Vertices[i].X - r.Vertices[i-1].X
			dz := r.Vertices[i].Z - r.Vertices[i-1].Z
			length := math.Hypot(dx, dz)
			if length < 1e-9 {
				continue
			}
			amount := meander(v.X*cfg.MeanderFrequency, v.Z*cfg.MeanderFrequency) * cfg.MeanderAmplitude
			v.X += -dz / length * amount
			v.Z += dx / length * amount
		}
	}

	// Monotonic clamp: no vertex above its predecessor.
	for i := 1; i < n; i++ {
		if r.Vertices[i].Elevation > r.Vertices[i-1].Elevation {
			r.Vertices[i].Elevation = r.Vertices[i-1].Elevation
		}
	}

	// A river stranded above sea level ramps its final stretch down so the
	// mouth does not hang in the air.
	if r.Termination == TermBasin && r.Vertices[n-1].Elevation > seaLevel && n >= 4 {
		rampStart := n - 1 - (n*3)/10
		if rampStart < 1 {
			rampStart = 1
		}
		from := r.Vertices[rampStart].Elevation
		span := float64(n - 1 - rampStart)
		for i := rampStart; i < n; i++ {
			t := float64(i-rampStart) / span
			t = t * t * (3 - 2*t)
			r.Vertices[i].Elevation = from + (seaLevel-from)*t
		}
		// Re-clamp: the ramp target may sit above an already-lower vertex.
		for i := 1; i < n; i++ {
			if r.Vertices[i].Elevation > r.Vertices[i-1].Elevation {
				r.Vertices[i].Elevation = r.Vertices[i-1].Elevation
			}
		}
	}

	// Curvature: turning angle per unit length at each interior vertex.
	for i := 1; i < n-1; i++ {
		ax := r.Vertices[i].X - r.Vertices[i-1].X
		az := r.Vertices[i].Z - r.Vertices[i-1].Z
		bx := r.Vertices[i+1].X - r.Vertices[i].X
		bz := r.Vertices[i+1].Z - r.Vertices[i].Z
		la := math.Hypot(ax, az)
		lb := math.Hypot(bx, bz)
		if la < 1e-9 || lb < 1e-9 {
			continue
		}
		cross := ax*bz - az*bx
		dot := ax*bx + az*bz
		angle := math.Atan2(cross, dot)
		r.Vertices[i].Curvature = angle / ((la + lb) / 2)
	}
}
