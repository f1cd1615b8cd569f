package world

import (
	"reflect"
	"testing"

	"github.com/talgya/terragen/internal/contour"
	"github.com/talgya/terragen/internal/hydro"
)

func TestGenerateSeed42Scenario(t *testing.T) {
	cfg := SmallTestConfig() // 64x64, seed 42, sea level 0.1

	spine := hydro.Spine{
		Vertices: []hydro.SpineVertex{
			{X: 20, Z: 31.5, Elevation: 0.8, Influence: 1},
			{X: 43, Z: 31.5, Elevation: 0.8, Influence: 1},
		},
		Segments: []hydro.SpineSegment{{From: 0, To: 1}},
	}

	w, err := Generate(cfg, spine)
	if err != nil {
		t.Fatal(err)
	}

	coastal := 0
	for _, r := range w.Hydrology.Rivers {
		if r.Termination == hydro.TermCoast {
			coastal++
			for i := 1; i < len(r.Vertices); i++ {
				if r.Vertices[i].Elevation > r.Vertices[i-1].Elevation+1e-9 {
					t.Fatalf("river %d elevation rises at vertex %d", r.ID, i)
				}
			}
		}
	}
	if coastal == 0 {
		t.Error("expected at least one river reaching the coast from the ridge")
	}

	// The river SDF must touch zero somewhere near the ridge.
	foundZero := false
	for _, d := range w.Hydrology.RiverSDF {
		if d == 0 {
			foundZero = true
			break
		}
	}
	if !foundZero {
		t.Error("river SDF has no zero cells")
	}
}

func TestGenerateDeterministicElevation(t *testing.T) {
	cfg := SmallTestConfig()

	a, err := Generate(cfg, hydro.Spine{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(cfg, hydro.Spine{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Elevation.Data, b.Elevation.Data) {
		t.Error("same seed produced different elevation data")
	}
	if !reflect.DeepEqual(a.Spine, b.Spine) {
		t.Error("same seed produced different default spines")
	}
	if len(a.Hydrology.Rivers) != len(b.Hydrology.Rivers) {
		t.Error("same seed produced different river counts")
	}
}

func TestCoastlineIsClosedAroundIsland(t *testing.T) {
	w, err := Generate(SmallTestConfig(), hydro.Spine{})
	if err != nil {
		t.Fatal(err)
	}

	lines := w.Coastline()
	if len(lines) == 0 {
		t.Fatal("an island must have a coastline")
	}
	closed := 0
	for _, line := range lines {
		if contour.IsClosedLoop(line, w.Elevation.CellSizeX()) {
			closed++
		}
	}
	if closed == 0 {
		t.Error("no closed coastline loop around the island")
	}
}

func TestInfluenceCachesRebuildOnInvalidate(t *testing.T) {
	w, err := Generate(SmallTestConfig(), hydro.Spine{})
	if err != nil {
		t.Fatal(err)
	}

	first := w.RiverInfluence()
	if first == nil {
		t.Fatal("nil river influence texture")
	}
	if w.RiverInfluence() != first {
		t.Error("second access should return the cached texture")
	}

	w.Invalidate()
	rebuilt := w.RiverInfluence()
	if rebuilt == first {
		t.Error("Invalidate should force a rebuild")
	}
	if !reflect.DeepEqual(rebuilt.Pix, first.Pix) {
		t.Error("rebuild from unchanged hydrology should produce identical texels")
	}
}

func TestGenerateValidation(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Size = 1
	if _, err := Generate(cfg, hydro.Spine{}); err == nil {
		t.Error("size 1 should fail")
	}
	cfg = SmallTestConfig()
	cfg.Extent = 0
	if _, err := Generate(cfg, hydro.Spine{}); err == nil {
		t.Error("zero extent should fail")
	}
}
