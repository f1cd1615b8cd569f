package profile

import (
	"math"
	"testing"
)

func riverQuery(dist float64) Query {
	return Query{
		Distance:       dist,
		Width:          4,
		CarveDepth:     0.2,
		WaterElevation: 0.15,
		SeaLevel:       0.1,
	}
}

func TestRiverZones(t *testing.T) {
	// Channel: full carve depth, full blend.
	eff := River(riverQuery(1), 1.0)
	if eff.Surface != SurfaceRiverbed {
		t.Errorf("channel surface = %v, want riverbed", eff.Surface)
	}
	if math.Abs(eff.ElevationDelta+0.2) > 1e-9 {
		t.Errorf("channel delta = %v, want -0.2", eff.ElevationDelta)
	}
	if eff.BlendWeight != 1 {
		t.Errorf("channel blend = %v, want 1", eff.BlendWeight)
	}

	// Floodplain: shallower, fading weight.
	eff = River(riverQuery(5), 1.0)
	if eff.Surface != SurfaceFloodplain {
		t.Errorf("floodplain surface = %v", eff.Surface)
	}
	if eff.ElevationDelta >= 0 || eff.ElevationDelta < -0.2 {
		t.Errorf("floodplain delta = %v, want shallow negative", eff.ElevationDelta)
	}

	// Beyond the valley wall: no effect.
	eff = River(riverQuery(100), 1.0)
	if eff != (Effect{}) {
		t.Errorf("distant query = %+v, want zero effect", eff)
	}
}

func TestRiverNeverCarvesBelowWater(t *testing.T) {
	q := riverQuery(0)
	q.CarveDepth = 5 // absurdly deep cut

	base := 0.3
	eff := River(q, base)
	floor := math.Max(q.WaterElevation, q.SeaLevel)
	if base+eff.ElevationDelta < floor-1e-9 {
		t.Errorf("carved to %v, floor is %v", base+eff.ElevationDelta, floor)
	}

	// Terrain already below the floor gets no positive push from the clamp.
	eff = River(q, 0.05)
	if eff.ElevationDelta > 0 {
		t.Errorf("delta = %v, carve must never raise terrain", eff.ElevationDelta)
	}
}

func TestRiverZeroWidthNoEffect(t *testing.T) {
	q := riverQuery(0)
	q.Width = 0
	if eff := River(q, 1.0); eff != (Effect{}) {
		t.Errorf("zero-width river produced %+v", eff)
	}
}

func TestCoastlineSides(t *testing.T) {
	q := Query{Width: 3, CarveDepth: 0.1, SeaLevel: 0.1}

	// Ocean side drops away, deeper further offshore.
	q.Distance = -2
	near := Coastline(q, 0)
	q.Distance = -20
	far := Coastline(q, 0)
	if near.Surface != SurfaceOceanFloor || far.Surface != SurfaceOceanFloor {
		t.Fatal("ocean side should classify as ocean floor")
	}
	if far.ElevationDelta >= near.ElevationDelta {
		t.Errorf("offshore delta %v should be below nearshore %v", far.ElevationDelta, near.ElevationDelta)
	}

	// Beach band flattens with fading weight.
	q.Distance = 1
	beach := Coastline(q, 0)
	if beach.Surface != SurfaceBeach {
		t.Errorf("beach surface = %v", beach.Surface)
	}
	if beach.BlendWeight <= 0 || beach.BlendWeight > 1 {
		t.Errorf("beach blend = %v", beach.BlendWeight)
	}

	// Inland: untouched.
	q.Distance = 10
	if eff := Coastline(q, 0); eff != (Effect{}) {
		t.Errorf("inland query = %+v, want zero effect", eff)
	}
}

func TestRoadZones(t *testing.T) {
	q := Query{Distance: 0.5, Width: 2, CarveDepth: 0.02, WaterElevation: 0, SeaLevel: 0.1}
	bed := Road(q, 0.5)
	if bed.Surface != SurfaceRoadbed || bed.BlendWeight != 1 {
		t.Errorf("roadbed = %+v", bed)
	}

	q.Distance = 2
	shoulder := Road(q, 0.5)
	if shoulder.Surface != SurfaceRoadShoulder {
		t.Errorf("shoulder surface = %v", shoulder.Surface)
	}
	if shoulder.BlendWeight >= 1 || shoulder.BlendWeight <= 0 {
		t.Errorf("shoulder blend = %v, want fading", shoulder.BlendWeight)
	}

	q.Distance = 10
	if eff := Road(q, 0.5); eff != (Effect{}) {
		t.Errorf("distant road query = %+v", eff)
	}
}
