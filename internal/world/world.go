// Package world assembles a complete generated island: spine-driven
// elevation, hydrology, coastline extraction, and the memoized influence
// textures derived from them. One World is the unit of generation and of
// persistence.
package world

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/talgya/terragen/internal/contour"
	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/hydro"
	"github.com/talgya/terragen/internal/noise"
	"github.com/talgya/terragen/internal/sdf"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Size     int     // Grid cells per side
	Extent   float64 // World units per side
	Seed     int64   // Random seed (0 = random)
	SeaLevel float64 // Elevation threshold for ocean

	RidgeHeight  float64 // Peak spine elevation
	EdgeFalloff  float64 // Exponent shaping the ocean border
	DetailAmp    float64 // fBm detail amplitude added to the spine base
	CoastEpsilon float64 // Douglas-Peucker tolerance for coastline output

	FBm       noise.FBmConfig
	Hydrology hydro.Config
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:         256,
		Extent:       255,
		Seed:         0,
		SeaLevel:     0.1,
		RidgeHeight:  0.8,
		EdgeFalloff:  3.5,
		DetailAmp:    0.12,
		CoastEpsilon: 0.75,
		FBm:          noise.DefaultFBmConfig(),
		Hydrology:    hydro.DefaultConfig(),
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Size = 64
	cfg.Extent = 63
	cfg.Seed = 42
	cfg.Hydrology = hydro.SmallTestConfig()
	return cfg
}

// World is one generated island. Elevation and hydrology are immutable
// after Generate; the influence textures are lazy caches rebuilt on access
// after an explicit invalidation.
type World struct {
	Seed      int64
	Config    GenConfig
	Elevation *field.Elevation
	Spine     hydro.Spine
	Hydrology *hydro.Result

	riverInfluence *sdf.Texture
	lakeInfluence  *sdf.Texture
	coastline      []orb.LineString
	cacheDirty     bool
}

// Generate creates a complete world from a configuration and a ridge spine.
// An empty spine gets a default ridge derived from the seed.
func Generate(cfg GenConfig, spine hydro.Spine) (*World, error) {
	if cfg.Size < 2 {
		return nil, fmt.Errorf("world: grid size %d must be at least 2", cfg.Size)
	}
	if cfg.Extent <= 0 {
		return nil, fmt.Errorf("world: extent %v must be positive", cfg.Extent)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	cfg.Hydrology.SeaLevel = cfg.SeaLevel

	if len(spine.Vertices) == 0 {
		spine = defaultRidgeSpine(seed, cfg)
	}

	elev, err := buildElevation(seed, cfg, spine)
	if err != nil {
		return nil, fmt.Errorf("build elevation: %w", err)
	}

	hydrology, err := hydro.Generate(elev, spine, seed, cfg.Hydrology)
	if err != nil {
		return nil, fmt.Errorf("hydrology: %w", err)
	}

	slog.Info("world generated",
		"seed", seed, "size", cfg.Size,
		"rivers", len(hydrology.Rivers), "lakes", len(hydrology.Lakes))

	return &World{
		Seed:       seed,
		Config:     cfg,
		Elevation:  elev,
		Spine:      spine,
		Hydrology:  hydrology,
		cacheDirty: true,
	}, nil
}

// defaultRidgeSpine lays a perlin-bent ridge across the middle of the world.
func defaultRidgeSpine(seed int64, cfg GenConfig) hydro.Spine {
	bend := noise.NewPerlin(noise.DeriveSeed(seed, "spine-bend"))

	const count = 5
	spine := hydro.Spine{}
	for i := 0; i < count; i++ {
		t := float64(i) / (count - 1)
		x := cfg.Extent * (0.25 + 0.5*t)
		z := cfg.Extent * (0.5 + 0.12*bend(t*2.3, float64(seed%97)*0.013))
		// Peaks taper toward the ridge ends.
		elevation := cfg.RidgeHeight * (0.75 + 0.25*math.Sin(t*math.Pi))
		spine.Vertices = append(spine.Vertices, hydro.SpineVertex{
			X: x, Z: z, Elevation: elevation, Influence: 1,
		})
		if i > 0 {
			spine.Segments = append(spine.Segments, hydro.SpineSegment{From: i - 1, To: i})
		}
	}
	return spine
}

// buildElevation shapes the heightfield: spine-vertex falloff for the
// mountains, fBm noise for detail, and a radial falloff that sinks the
// border below sea level so every island has an ocean around it.
func buildElevation(seed int64, cfg GenConfig, spine hydro.Spine) (*field.Elevation, error) {
	bounds := field.Bounds{MinX: 0, MaxX: cfg.Extent, MinZ: 0, MaxZ: cfg.Extent}
	elev, err := field.NewElevation(cfg.Size, cfg.Size, bounds)
	if err != nil {
		return nil, err
	}

	detail := noise.NewFBm(noise.DeriveSeed(seed, "elevation-detail"), cfg.FBm)
	ridgeRadius := cfg.Extent * 0.35
	cx, cz := cfg.Extent/2, cfg.Extent/2

	for row := 0; row < cfg.Size; row++ {
		for col := 0; col < cfg.Size; col++ {
			x, z := elev.CellToWorld(col, row)

			// Highest contribution of any spine vertex wins.
			base := 0.0
			for _, v := range spine.Vertices {
				d := math.Hypot(x-v.X, z-v.Z) / (ridgeRadius * math.Max(v.Influence, 0.1))
				if d >= 1 {
					continue
				}
				contrib := v.Elevation * (1 - d*d)
				if contrib > base {
					base = contrib
				}
			}

			e := base + cfg.DetailAmp*detail(x, z)

			// Continental shaping: sink the border to guarantee ocean.
			distFromCenter := math.Hypot(x-cx, z-cz) / (cfg.Extent / 2)
			falloff := 1 - math.Pow(distFromCenter, cfg.EdgeFalloff)
			if falloff < 0 {
				falloff = 0
			}
			e = e*falloff - 0.05*math.Pow(distFromCenter, cfg.EdgeFalloff)

			elev.Set(col, row, e)
		}
	}
	return elev, nil
}

// Coastline returns the simplified sea-level contours, cached until
// Invalidate.
func (w *World) Coastline() []orb.LineString {
	w.rebuildCaches()
	return w.coastline
}

// RiverInfluence returns the baked 0-255 river proximity texture, cached
// until Invalidate.
func (w *World) RiverInfluence() *sdf.Texture {
	w.rebuildCaches()
	return w.riverInfluence
}

// LakeInfluence returns the baked 0-255 lake proximity texture, cached
// until Invalidate.
func (w *World) LakeInfluence() *sdf.Texture {
	w.rebuildCaches()
	return w.lakeInfluence
}

// Invalidate marks the derived caches stale. Call after replacing rivers or
// lakes (e.g. loading a world from storage into an existing object).
func (w *World) Invalidate() {
	w.cacheDirty = true
}

func (w *World) rebuildCaches() {
	if !w.cacheDirty {
		return
	}
	w.cacheDirty = false

	res := w.Elevation.CellSizeX()
	w.coastline = contour.SimplifyAll(
		contour.Extract(w.Elevation.Sample, w.Config.SeaLevel, w.Elevation.Bounds, res),
		w.Config.CoastEpsilon)

	var riverLines []orb.LineString
	maxWidth := 0.0
	for _, r := range w.Hydrology.Rivers {
		line := make(orb.LineString, len(r.Vertices))
		for i, v := range r.Vertices {
			line[i] = orb.Point{v.X, v.Z}
			maxWidth = math.Max(maxWidth, v.Width)
		}
		riverLines = append(riverLines, line)
	}
	w.riverInfluence = sdf.BakeInfluence(riverLines, sdf.InfluenceOptions{
		Resolution:  res,
		InnerRadius: maxWidth,
		OuterRadius: maxWidth * 4,
		Bounds:      w.Elevation.Bounds,
	})

	var lakeLines []orb.LineString
	for _, l := range w.Hydrology.Lakes {
		lakeLines = append(lakeLines, orb.LineString(l.Boundary))
	}
	w.lakeInfluence = sdf.BakeInfluence(lakeLines, sdf.InfluenceOptions{
		Resolution:  res,
		InnerRadius: w.Config.Hydrology.LakeRadius,
		OuterRadius: w.Config.Hydrology.LakeRadius * 3,
		Bounds:      w.Elevation.Bounds,
	})
}
