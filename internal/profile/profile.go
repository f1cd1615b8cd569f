// Package profile maps feature proximity (from the influence bakers or the
// hydrology SDFs) into elevation deltas and surface classes. The terrain
// compositor calls these per texel and blends overlapping features itself;
// the functions here are pure and never composite.
package profile

import (
	"math"

	"github.com/talgya/terragen/internal/geom"
)

// Surface classifies the ground a profile assigns inside its zones.
type Surface uint8

const (
	SurfaceNone Surface = iota
	SurfaceOceanFloor
	SurfaceBeach
	SurfaceRiverbed
	SurfaceRiverbank
	SurfaceFloodplain
	SurfaceRoadbed
	SurfaceRoadShoulder
)

// Query carries the spatial relationship between one texel and one feature.
// Distance is unsigned except for coastline queries, where negative means
// the ocean side of the shoreline.
type Query struct {
	Distance       float64 // Distance to the feature centerline (signed for coastline)
	Width          float64 // Feature width at the nearest point (beach width for coastline)
	CarveDepth     float64 // How deep the feature cuts below the surrounding terrain
	WaterElevation float64 // Water surface elevation of the feature
	SeaLevel       float64
}

// Effect is a profile result: a delta to add to the base elevation, the
// surface class inside the zone, and the weight the compositor should blend
// this feature with.
type Effect struct {
	ElevationDelta float64
	Surface        Surface
	BlendWeight    float64
}

// Zone radii as multiples of feature width.
const (
	riverChannelMul    = 0.5
	riverFloodplainMul = 2.0
	riverValleyMul     = 4.0

	roadBedMul      = 0.5
	roadShoulderMul = 1.5

	coastOceanDepthMul = 3.0
	coastTransitionMul = 4.0
)

// clampCarve limits a negative delta so base+delta never drops below the
// water surface or sea level, whichever is higher.
func clampCarve(delta, base, waterElevation, seaLevel float64) float64 {
	floor := math.Max(waterElevation, seaLevel)
	if base+delta < floor {
		delta = floor - base
	}
	if delta > 0 {
		delta = 0
	}
	return delta
}

// Coastline shapes the shore: ocean floor dropping away over the transition
// zone, a flat noisy beach band on the land side, untouched terrain inland.
// localNoise in [-1,1] roughens the beach so it does not read as a plane.
func Coastline(q Query, localNoise float64) Effect {
	beachWidth := q.Width
	if beachWidth <= 0 {
		return Effect{}
	}

	if q.Distance < 0 {
		// Ocean side: ramp down toward the floor depth.
		offshore := -q.Distance
		t := geom.Smoothstep(0, beachWidth*coastTransitionMul, offshore)
		delta := -q.CarveDepth * coastOceanDepthMul * t
		return Effect{
			ElevationDelta: delta,
			Surface:        SurfaceOceanFloor,
			BlendWeight:    1,
		}
	}

	if q.Distance < beachWidth {
		// Beach band: pull terrain down toward just above sea level, with a
		// little grain so the strip is not perfectly flat.
		w := 1 - geom.Smoothstep(0, beachWidth, q.Distance)
		delta := (-q.CarveDepth + localNoise*q.CarveDepth*0.25) * w
		return Effect{
			ElevationDelta: delta,
			Surface:        SurfaceBeach,
			BlendWeight:    w,
		}
	}

	return Effect{}
}

// River carves the channel and its valley. Zones widen with the river:
// channel (full depth) then floodplain (shallow) then valley wall (fading
// to nothing). baseElevation is the terrain before carving; the delta is
// clamped so the bed never ends up below the river's own water surface or
// sea level.
func River(q Query, baseElevation float64) Effect {
	if q.Width <= 0 {
		return Effect{}
	}

	channelR := q.Width * riverChannelMul
	floodR := q.Width * riverFloodplainMul
	valleyR := q.Width * riverValleyMul

	switch {
	case q.Distance <= channelR:
		delta := clampCarve(-q.CarveDepth, baseElevation, q.WaterElevation, q.SeaLevel)
		return Effect{ElevationDelta: delta, Surface: SurfaceRiverbed, BlendWeight: 1}

	case q.Distance <= floodR:
		w := 1 - geom.Smoothstep(channelR, floodR, q.Distance)
		delta := clampCarve(-q.CarveDepth*0.4*w, baseElevation, q.WaterElevation, q.SeaLevel)
		return Effect{ElevationDelta: delta, Surface: SurfaceFloodplain, BlendWeight: w}

	case q.Distance <= valleyR:
		w := 1 - geom.Smoothstep(floodR, valleyR, q.Distance)
		delta := clampCarve(-q.CarveDepth*0.15*w, baseElevation, q.WaterElevation, q.SeaLevel)
		return Effect{ElevationDelta: delta, Surface: SurfaceRiverbank, BlendWeight: w * 0.6}
	}

	return Effect{}
}

// Road flattens rather than carves: the bed gets a small cut for the
// surface, the shoulder eases back into the terrain. Roads never cut below
// sea level either.
func Road(q Query, baseElevation float64) Effect {
	if q.Width <= 0 {
		return Effect{}
	}

	bedR := q.Width * roadBedMul
	shoulderR := q.Width * roadShoulderMul

	switch {
	case q.Distance <= bedR:
		delta := clampCarve(-q.CarveDepth, baseElevation, q.WaterElevation, q.SeaLevel)
		return Effect{ElevationDelta: delta, Surface: SurfaceRoadbed, BlendWeight: 1}

	case q.Distance <= shoulderR:
		w := 1 - geom.Smoothstep(bedR, shoulderR, q.Distance)
		delta := clampCarve(-q.CarveDepth*0.5*w, baseElevation, q.WaterElevation, q.SeaLevel)
		return Effect{ElevationDelta: delta, Surface: SurfaceRoadShoulder, BlendWeight: w}
	}

	return Effect{}
}
