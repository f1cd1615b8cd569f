// Package hydro is the flow and hydrology engine: it places water sources on
// the ridge spine, traces rivers downhill by steepest descent with
// priority-flood depression hopping, forms lakes where water pools, and
// bakes the coarse river/lake distance fields the terrain compositor uses
// for fast rejection.
package hydro

import "fmt"

// Hard budgets bounding worst-case work on pathological terrain. Hitting
// either one ends a single river or depression, never the whole generation.
const (
	maxTraceSteps = 2000
	maxFillCells  = 4000
)

// Config holds the hydrology tuning knobs. All distances are in world units,
// spacings in grid cells.
type Config struct {
	SeaLevel float64 // Elevation at and below which water is ocean

	// Source placement.
	MinSourceElevation float64 // Spine vertices below this spawn no rivers
	MinSourceDrop      float64 // Required elevation drop over the offset probe
	SourceSpacing      int     // Minimum spacing between sources, in grid cells
	MaxRivers          int     // Cap on traced rivers per generation

	// River shape.
	BaseRiverWidth   float64 // Width scale; actual width grows downstream
	CarveDepth       float64 // Channel depth scale
	MeanderAmplitude float64 // World-space displacement of vertices by noise
	MeanderFrequency float64 // Noise frequency for meander sampling

	// Basin lakes (from depression filling).
	MinLakeCells int     // Flooded regions smaller than this stay unrecorded
	MinLakeDepth float64 // Flooded regions shallower than this stay unrecorded

	// Explicit lakes (placed on flat mid-elevation ground).
	ExplicitLakes      int     // How many to attempt
	LakeTargetElev     float64 // Preferred elevation for placed lakes
	LakeRadius         float64 // Base radius of placed lake boundaries
	LakeSpacing        float64 // Minimum world-space distance between placed lakes
	LakeMinSpineOffset float64 // Placed lakes keep at least this far from the spine
}

// DefaultConfig returns the tuning used for full continental generation.
func DefaultConfig() Config {
	return Config{
		SeaLevel:           0.1,
		MinSourceElevation: 0.45,
		MinSourceDrop:      0.02,
		SourceSpacing:      6,
		MaxRivers:          24,
		BaseRiverWidth:     3.0,
		CarveDepth:         0.06,
		MeanderAmplitude:   1.5,
		MeanderFrequency:   0.05,
		MinLakeCells:       12,
		MinLakeDepth:       0.015,
		ExplicitLakes:      4,
		LakeTargetElev:     0.3,
		LakeRadius:         6.0,
		LakeSpacing:        30.0,
		LakeMinSpineOffset: 12.0,
	}
}

// SmallTestConfig returns tuning for small grids in tests.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.SourceSpacing = 2
	cfg.MaxRivers = 8
	cfg.MinLakeCells = 4
	cfg.ExplicitLakes = 2
	cfg.LakeRadius = 3.0
	cfg.LakeSpacing = 10.0
	cfg.LakeMinSpineOffset = 4.0
	return cfg
}

// Validate reports the first misconfiguration. Called once at the Generate
// entry point so bad input fails fast instead of corrupting a trace.
func (c Config) Validate() error {
	if c.BaseRiverWidth <= 0 {
		return fmt.Errorf("hydro config: BaseRiverWidth %v must be positive", c.BaseRiverWidth)
	}
	if c.CarveDepth < 0 {
		return fmt.Errorf("hydro config: CarveDepth %v must not be negative", c.CarveDepth)
	}
	if c.SourceSpacing < 1 {
		return fmt.Errorf("hydro config: SourceSpacing %d must be at least 1", c.SourceSpacing)
	}
	if c.MaxRivers < 0 {
		return fmt.Errorf("hydro config: MaxRivers %d must not be negative", c.MaxRivers)
	}
	if c.MinLakeCells < 1 {
		return fmt.Errorf("hydro config: MinLakeCells %d must be at least 1", c.MinLakeCells)
	}
	if c.ExplicitLakes < 0 {
		return fmt.Errorf("hydro config: ExplicitLakes %d must not be negative", c.ExplicitLakes)
	}
	return nil
}
