// Command terragen generates an island world from a seed and reports its
// hydrology. Optionally persists the result to SQLite for later inspection.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talgya/terragen/internal/contour"
	"github.com/talgya/terragen/internal/hydro"
	"github.com/talgya/terragen/internal/persistence"
	"github.com/talgya/terragen/internal/world"
)

func main() {
	var (
		seed    = flag.Int64("seed", 0, "generation seed (0 = random)")
		size    = flag.Int("size", 256, "elevation grid cells per side")
		dbPath  = flag.String("db", "", "SQLite path to persist the world (empty = no persistence)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := world.DefaultGenConfig()
	cfg.Seed = *seed
	cfg.Size = *size
	cfg.Extent = float64(*size - 1)

	slog.Info("generating world", "seed", cfg.Seed, "size", cfg.Size)

	w, err := world.Generate(cfg, hydro.Spine{})
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	reportWorld(w)

	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		db, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		worldID, err := db.SaveWorld(w)
		if err != nil {
			slog.Error("failed to save world", "error", err)
			os.Exit(1)
		}
		if err := db.SaveMeta("last_world_id", fmt.Sprintf("%d", worldID)); err != nil {
			slog.Error("failed to save meta", "error", err)
			os.Exit(1)
		}
	}
}

// reportWorld logs a summary of the generated terrain and hydrology.
func reportWorld(w *world.World) {
	ocean := 0
	for _, e := range w.Elevation.Data {
		if e <= w.Config.SeaLevel {
			ocean++
		}
	}
	total := len(w.Elevation.Data)
	slog.Info("terrain",
		"ocean_cells", ocean,
		"land_cells", total-ocean,
		"ocean_fraction", fmt.Sprintf("%.2f", float64(ocean)/float64(total)))

	byTermination := map[hydro.Termination]int{}
	longest := 0
	for _, r := range w.Hydrology.Rivers {
		byTermination[r.Termination]++
		if len(r.Vertices) > longest {
			longest = len(r.Vertices)
		}
	}
	slog.Info("rivers",
		"total", len(w.Hydrology.Rivers),
		"coast", byTermination[hydro.TermCoast],
		"basin", byTermination[hydro.TermBasin],
		"edge", byTermination[hydro.TermEdge],
		"longest_vertices", longest)

	endorheic := 0
	for _, l := range w.Hydrology.Lakes {
		if l.Endorheic {
			endorheic++
		}
	}
	slog.Info("lakes",
		"total", len(w.Hydrology.Lakes),
		"endorheic", endorheic,
		"basin_fed", len(w.Hydrology.Lakes)-endorheic)

	coast := w.Coastline()
	closed := 0
	for _, line := range coast {
		if contour.IsClosedLoop(line, w.Elevation.CellSizeX()) {
			closed++
		}
	}
	slog.Info("coastline", "polylines", len(coast), "closed_loops", closed)
}
