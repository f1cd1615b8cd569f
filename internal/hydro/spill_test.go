package hydro

import (
	"testing"

	"github.com/talgya/terragen/internal/field"
)

// bowlField builds a 9x9 bowl: elevation 0 at the center rising to 1.0 at
// the rim in Chebyshev rings, with one rim cell dropped to 0.5 as the only
// genuine escape.
func bowlField(t *testing.T) *field.Elevation {
	t.Helper()
	elev, err := field.NewElevation(9, 9, field.Bounds{MinX: 0, MaxX: 8, MinZ: 0, MaxZ: 8})
	if err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			dc := absInt(col - 4)
			dr := absInt(row - 4)
			elev.Set(col, row, float64(maxInt(dc, dr))/4)
		}
	}
	elev.Set(8, 4, 0.5) // low rim cell
	return elev
}

func TestFindSpillPointSmoothBowl(t *testing.T) {
	elev := bowlField(t)

	res, ok := findSpillPoint(elev, 4, 4, 0.0)
	if !ok {
		t.Fatal("bowl with a low rim must resolve")
	}
	if res.spillCol != 8 || res.spillRow != 4 {
		t.Errorf("spill at (%d,%d), want the low rim cell (8,4)", res.spillCol, res.spillRow)
	}
	// The flood must climb the bowl wall before escaping: the water level is
	// the saddle height, not the first absorbed cell's elevation (0.25).
	if res.waterLevel < 0.7 {
		t.Errorf("waterLevel = %v, want >= 0.7 (inner wall height), not a premature report", res.waterLevel)
	}
	if res.toOcean {
		t.Error("escape at 0.5 with sea level 0 is not an ocean spill")
	}
	if len(res.flooded) < 9 {
		t.Errorf("flooded %d cells, expected at least the center plus inner rings", len(res.flooded))
	}
}

func TestFindSpillPointToOcean(t *testing.T) {
	elev := bowlField(t)

	// With sea level at 0.3, the first ring (0.25) pops at or below sea
	// level and drains the depression straight to the ocean.
	res, ok := findSpillPoint(elev, 4, 4, 0.3)
	if !ok {
		t.Fatal("bowl adjoining the ocean must resolve")
	}
	if !res.toOcean {
		t.Error("popped cell at or below sea level should count as an ocean spill")
	}
}

func TestFindSpillPointUnresolvableBasin(t *testing.T) {
	// A dimple in a perfectly flat plateau: no cell is ever strictly below
	// the water level, so the heap drains without an escape.
	elev, err := field.NewElevation(7, 7, field.Bounds{MinX: 0, MaxX: 6, MinZ: 0, MaxZ: 6})
	if err != nil {
		t.Fatal(err)
	}
	for i := range elev.Data {
		elev.Data[i] = 0.5
	}
	elev.Set(3, 3, 0.4)

	if _, ok := findSpillPoint(elev, 3, 3, 0.0); ok {
		t.Error("flat sealed plateau should fail to spill")
	}
}

func TestFindSpillPointDeterministic(t *testing.T) {
	elev := bowlField(t)
	a, okA := findSpillPoint(elev, 4, 4, 0.0)
	b, okB := findSpillPoint(elev, 4, 4, 0.0)
	if okA != okB || a.spillCol != b.spillCol || a.spillRow != b.spillRow || a.waterLevel != b.waterLevel {
		t.Error("identical inputs must resolve identically")
	}
	if len(a.flooded) != len(b.flooded) {
		t.Errorf("flooded counts differ: %d vs %d", len(a.flooded), len(b.flooded))
	}
	for i := range a.flooded {
		if a.flooded[i] != b.flooded[i] {
			t.Fatal("flooded cell order differs between identical runs")
		}
	}
}
