package hydro

import (
	"github.com/paulmach/orb"
)

// Termination says how a river trace ended.
type Termination uint8

const (
	TermCoast Termination = iota // Reached a cell at or below sea level
	TermBasin                    // Dead-ended in a depression that could not spill
	TermEdge                     // Ran out of steps or left the grid
)

// String returns a human-readable termination name.
func (t Termination) String() string {
	switch t {
	case TermCoast:
		return "coast"
	case TermBasin:
		return "basin"
	case TermEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Vertex is one point along a traced river.
type Vertex struct {
	X, Z       float64
	Elevation  float64 // Water surface; non-increasing downstream after post-processing
	Flow       float64 // Normalized downstream progress, 0 at source
	Width      float64 // Channel width, grows with flow
	CarveDepth float64 // Channel depth at this vertex
	Curvature  float64 // Local turning rate, radians per world unit
}

// River is a single traced watercourse. Immutable once generation returns.
type River struct {
	ID              int
	Vertices        []Vertex
	Termination     Termination
	TerminatingLake int // Lake ID the river ends in, -1 if none
}

// Lake is a body of standing water, either flooded out of a depression
// during river tracing or placed explicitly on flat ground.
type Lake struct {
	ID             int
	Center         orb.Point
	WaterLevel     float64
	SpillElevation float64
	SpillPoint     *orb.Point // nil for endorheic lakes
	Boundary       orb.Ring   // Simple closed polygon
	Area           float64
	Endorheic      bool
	InflowRivers   []int
	OutflowRiver   int // River ID continuing past the spill, -1 if none
}

// SpineVertex is one weighted point of the authored mountain ridge.
type SpineVertex struct {
	X, Z      float64
	Elevation float64
	Influence float64
}

// SpineSegment connects two spine vertices by index.
type SpineSegment struct {
	From, To int
}

// Spine is the ridge geometry handed in by the archetype stage. The
// hydrology engine only reads it: vertices seed river sources, segments
// keep explicit lakes off the ridge.
type Spine struct {
	Vertices []SpineVertex
	Segments []SpineSegment
}

// Result is the complete hydrology output for one generation run.
type Result struct {
	Rivers []*River
	Lakes  []*Lake

	// Coarse chamfer distance fields over the elevation grid, in world
	// units. Fast rejection only; authoritative geometry is the polylines.
	RiverSDF []float64
	LakeSDF  []float64
	Width    int
	Height   int
}
