package hydro

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/geom"
	"github.com/talgya/terragen/internal/noise"
)

// Generate runs the full hydrology pass over an elevation field: source
// placement, river tracing with depression hopping, lake formation, river
// post-processing, and the coarse SDF bake. The same seed and inputs always
// produce the same result. A degenerate individual trace (basin dead-end,
// step budget) is logged and kept as a valid partial output, never an error.
func Generate(elev *field.Elevation, spine Spine, seed int64, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if elev == nil || len(elev.Data) != elev.Width*elev.Height {
		return nil, fmt.Errorf("hydrology: elevation grid is nil or inconsistent")
	}

	sources := placeSources(elev, spine, cfg)
	slog.Info("hydrology sources placed", "count", len(sources))

	meander := noise.NewSimplex(noise.DeriveSeed(seed, "river-meander"))
	lakes := &lakeBuilder{elev: elev, cfg: cfg}

	var rivers []*River
	for i, src := range sources {
		r := traceRiver(elev, cfg, src, i, lakes)
		postProcess(r, cfg, meander, cfg.SeaLevel)
		if len(r.Vertices) >= 2 {
			rivers = append(rivers, r)
		}
		if r.Termination != TermCoast {
			slog.Debug("river did not reach the coast",
				"river", i, "termination", r.Termination.String(), "vertices", len(r.Vertices))
		}
	}

	lakes.placeExplicitLakes(spine,
		noise.NewRand(noise.DeriveSeed(seed, "explicit-lakes")),
		noise.NewPerlin(noise.DeriveSeed(seed, "lake-shape")))
	allLakes := dedupLakes(lakes.lakes)

	res := &Result{
		Rivers: rivers,
		Lakes:  allLakes,
		Width:  elev.Width,
		Height: elev.Height,
	}
	res.RiverSDF = bakeRiverSDF(elev, rivers)
	res.LakeSDF = bakeLakeSDF(elev, allLakes)

	coastCount := 0
	for _, r := range rivers {
		if r.Termination == TermCoast {
			coastCount++
		}
	}
	slog.Info("hydrology complete",
		"rivers", len(rivers), "reached_coast", coastCount, "lakes", len(allLakes))
	return res, nil
}

// bakeRiverSDF rasterizes river vertices into an occupancy mask on the
// elevation grid and runs the chamfer transform over it.
func bakeRiverSDF(elev *field.Elevation, rivers []*River) []float64 {
	mask := make([]bool, elev.Width*elev.Height)
	for _, r := range rivers {
		for _, v := range r.Vertices {
			col, row := elev.WorldToCell(v.X, v.Z)
			if elev.InGrid(col, row) {
				mask[row*elev.Width+col] = true
			}
		}
	}
	return field.ChamferTransform(mask, elev.Width, elev.Height, elev.CellSizeX())
}

// bakeLakeSDF marks every grid cell inside a lake boundary and chamfers the
// result. Only the boundary's bounding box is scanned per lake.
func bakeLakeSDF(elev *field.Elevation, lakes []*Lake) []float64 {
	mask := make([]bool, elev.Width*elev.Height)
	for _, lake := range lakes {
		if len(lake.Boundary) < 3 {
			continue
		}
		minX, maxX := math.Inf(1), math.Inf(-1)
		minZ, maxZ := math.Inf(1), math.Inf(-1)
		for _, p := range lake.Boundary {
			minX = math.Min(minX, p[0])
			maxX = math.Max(maxX, p[0])
			minZ = math.Min(minZ, p[1])
			maxZ = math.Max(maxZ, p[1])
		}
		c0, r0 := elev.WorldToCell(minX, minZ)
		c1, r1 := elev.WorldToCell(maxX, maxZ)
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if !elev.InGrid(col, row) {
					continue
				}
				x, z := elev.CellToWorld(col, row)
				if geom.PointInRing(orb.Point{x, z}, lake.Boundary) {
					mask[row*elev.Width+col] = true
				}
			}
		}
	}
	return field.ChamferTransform(mask, elev.Width, elev.Height, elev.CellSizeX())
}
