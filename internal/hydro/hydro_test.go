package hydro

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/terragen/internal/field"
	"github.com/talgya/terragen/internal/noise"
)

// islandField builds a radial island with fBm detail: high center, ocean at
// the rim. Deterministic for a given seed.
func islandField(t *testing.T, size int, seed int64) *field.Elevation {
	t.Helper()
	span := float64(size - 1)
	elev, err := field.NewElevation(size, size, field.Bounds{MinX: 0, MaxX: span, MinZ: 0, MaxZ: span})
	if err != nil {
		t.Fatal(err)
	}
	fbm := noise.NewFBm(seed, noise.DefaultFBmConfig())
	cx, cz := span/2, span/2
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			x, z := elev.CellToWorld(col, row)
			d := math.Hypot(x-cx, z-cz) / (span / 2)
			base := 0.8 * (1 - d*d)
			elev.Set(col, row, base+0.08*fbm(x, z))
		}
	}
	return elev
}

func ridgeSpine(elev *field.Elevation) Spine {
	cx := (elev.Bounds.MinX + elev.Bounds.MaxX) / 2
	cz := (elev.Bounds.MinZ + elev.Bounds.MaxZ) / 2
	return Spine{
		Vertices: []SpineVertex{
			{X: cx - 8, Z: cz, Elevation: 0.8, Influence: 1},
			{X: cx + 8, Z: cz, Elevation: 0.8, Influence: 1},
		},
		Segments: []SpineSegment{{From: 0, To: 1}},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	elev := islandField(t, 64, 42)
	cfg := SmallTestConfig()

	res, err := Generate(elev, ridgeSpine(elev), 42, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Rivers) == 0 {
		t.Fatal("no rivers traced from a ridge island")
	}

	coastReached := false
	for _, r := range res.Rivers {
		if r.Termination == TermCoast {
			coastReached = true
		}
		// Property: elevation is monotonically non-increasing downstream.
		for i := 1; i < len(r.Vertices); i++ {
			if r.Vertices[i].Elevation > r.Vertices[i-1].Elevation+1e-9 {
				t.Fatalf("river %d: elevation rises at vertex %d (%v -> %v)",
					r.ID, i, r.Vertices[i-1].Elevation, r.Vertices[i].Elevation)
			}
		}
		// Width grows monotonically downstream.
		for i := 1; i < len(r.Vertices); i++ {
			if r.Vertices[i].Width < r.Vertices[i-1].Width-1e-9 {
				t.Fatalf("river %d: width shrinks at vertex %d", r.ID, i)
			}
		}
	}
	if !coastReached {
		t.Error("no river reached the coast on an island sloping into the ocean")
	}

	if len(res.RiverSDF) != res.Width*res.Height {
		t.Fatalf("river SDF length %d, want %d", len(res.RiverSDF), res.Width*res.Height)
	}
	// Somewhere near the ridge the river SDF must be close to zero.
	minSDF := math.Inf(1)
	for _, d := range res.RiverSDF {
		minSDF = math.Min(minSDF, d)
	}
	if minSDF != 0 {
		t.Errorf("river SDF minimum = %v, want 0 on river cells", minSDF)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()

	run := func() *Result {
		elev := islandField(t, 48, 7)
		res, err := Generate(elev, ridgeSpine(elev), 7, cfg)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a := run()
	b := run()

	if len(a.Rivers) != len(b.Rivers) {
		t.Fatalf("river counts differ: %d vs %d", len(a.Rivers), len(b.Rivers))
	}
	for i := range a.Rivers {
		if !reflect.DeepEqual(a.Rivers[i], b.Rivers[i]) {
			t.Fatalf("river %d differs between identical runs", i)
		}
	}
	if len(a.Lakes) != len(b.Lakes) {
		t.Fatalf("lake counts differ: %d vs %d", len(a.Lakes), len(b.Lakes))
	}
	for i := range a.Lakes {
		if !reflect.DeepEqual(a.Lakes[i], b.Lakes[i]) {
			t.Fatalf("lake %d differs between identical runs", i)
		}
	}
	if !reflect.DeepEqual(a.RiverSDF, b.RiverSDF) {
		t.Error("river SDFs differ between identical runs")
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	elev := islandField(t, 16, 1)

	bad := SmallTestConfig()
	bad.BaseRiverWidth = 0
	if _, err := Generate(elev, Spine{}, 1, bad); err == nil {
		t.Error("invalid config should fail fast")
	}
	if _, err := Generate(nil, Spine{}, 1, SmallTestConfig()); err == nil {
		t.Error("nil elevation should fail fast")
	}
}

func TestPlaceSourcesSpacingAndDrop(t *testing.T) {
	elev := islandField(t, 48, 3)
	cfg := SmallTestConfig()

	sources := placeSources(elev, ridgeSpine(elev), cfg)
	if len(sources) == 0 {
		t.Fatal("ridge above MinSourceElevation should yield sources")
	}
	if cfg.MaxRivers > 0 && len(sources) > cfg.MaxRivers {
		t.Errorf("%d sources exceed MaxRivers %d", len(sources), cfg.MaxRivers)
	}
	for i := range sources {
		if sources[i].elevation <= cfg.SeaLevel {
			t.Errorf("source %d at elevation %v is underwater", i, sources[i].elevation)
		}
		for j := i + 1; j < len(sources); j++ {
			dc := absInt(sources[i].col - sources[j].col)
			dr := absInt(sources[i].row - sources[j].row)
			if maxInt(dc, dr) < cfg.SourceSpacing {
				t.Errorf("sources %d and %d closer than spacing %d", i, j, cfg.SourceSpacing)
			}
		}
	}

	// A spine entirely below the elevation threshold spawns nothing.
	low := Spine{Vertices: []SpineVertex{{X: 20, Z: 20, Elevation: 0.1}}}
	if got := placeSources(elev, low, cfg); len(got) != 0 {
		t.Errorf("low spine produced %d sources, want 0", len(got))
	}
}

func TestPostProcessBasinRamp(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.MeanderAmplitude = 0

	r := &River{Termination: TermBasin}
	for i := 0; i < 20; i++ {
		r.Vertices = append(r.Vertices, Vertex{
			X: float64(i), Z: 0, Elevation: 0.8 - float64(i)*0.01,
		})
	}

	flat := func(x, y float64) float64 { return 0 }
	postProcess(r, cfg, flat, cfg.SeaLevel)

	last := r.Vertices[len(r.Vertices)-1].Elevation
	if math.Abs(last-cfg.SeaLevel) > 1e-9 {
		t.Errorf("basin river mouth at %v, want ramped to sea level %v", last, cfg.SeaLevel)
	}
	for i := 1; i < len(r.Vertices); i++ {
		if r.Vertices[i].Elevation > r.Vertices[i-1].Elevation+1e-9 {
			t.Fatalf("ramp broke monotonicity at vertex %d", i)
		}
	}
}

func TestPostProcessMeanderKeepsElevation(t *testing.T) {
	cfg := SmallTestConfig()

	r := &River{Termination: TermCoast}
	for i := 0; i < 12; i++ {
		r.Vertices = append(r.Vertices, Vertex{
			X: float64(i), Z: 0, Elevation: 0.5 - float64(i)*0.02,
		})
	}
	before := make([]float64, len(r.Vertices))
	for i, v := range r.Vertices {
		before[i] = v.Elevation
	}

	wavy := noise.NewSimplex(5)
	postProcess(r, cfg, wavy, cfg.SeaLevel)

	displaced := false
	for i, v := range r.Vertices {
		if v.Elevation != before[i] {
			t.Fatalf("meander changed elevation at vertex %d", i)
		}
		if i >= 3 && (v.X != float64(i) || v.Z != 0) {
			displaced = true
		}
	}
	if !displaced {
		t.Error("meander displaced no vertex positions")
	}
}
