// Package persistence provides SQLite-based storage for generated worlds so
// a run can be reloaded or compared without regenerating.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/terragen/internal/hydro"
	"github.com/talgya/terragen/internal/world"
)

// DB wraps a SQLite connection for world storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		size INTEGER NOT NULL,
		extent REAL NOT NULL,
		sea_level REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rivers (
		world_id INTEGER NOT NULL,
		river_id INTEGER NOT NULL,
		termination INTEGER NOT NULL,
		terminating_lake INTEGER NOT NULL,
		vertices_json TEXT NOT NULL,
		PRIMARY KEY (world_id, river_id)
	);

	CREATE TABLE IF NOT EXISTS lakes (
		world_id INTEGER NOT NULL,
		lake_id INTEGER NOT NULL,
		water_level REAL NOT NULL,
		spill_elevation REAL NOT NULL,
		area REAL NOT NULL,
		endorheic INTEGER NOT NULL,
		lake_json TEXT NOT NULL,
		PRIMARY KEY (world_id, lake_id)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_worlds_seed ON worlds(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorld stores a generated world's hydrology and returns its row id.
// The elevation grid is not stored: it regenerates byte-identically from
// the seed and configuration.
func (db *DB) SaveWorld(w *world.World) (int64, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO worlds (seed, size, extent, sea_level, created_at) VALUES (?, ?, ?, ?, ?)",
		w.Seed, w.Config.Size, w.Config.Extent, w.Config.SeaLevel,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert world: %w", err)
	}
	worldID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Preparex(`INSERT INTO rivers
		(world_id, river_id, termination, terminating_lake, vertices_json)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range w.Hydrology.Rivers {
		verticesJSON, err := json.Marshal(r.Vertices)
		if err != nil {
			return 0, fmt.Errorf("marshal river %d: %w", r.ID, err)
		}
		if _, err := stmt.Exec(worldID, r.ID, r.Termination, r.TerminatingLake, string(verticesJSON)); err != nil {
			return 0, fmt.Errorf("insert river %d: %w", r.ID, err)
		}
	}

	for _, l := range w.Hydrology.Lakes {
		lakeJSON, err := json.Marshal(l)
		if err != nil {
			return 0, fmt.Errorf("marshal lake %d: %w", l.ID, err)
		}
		endorheic := 0
		if l.Endorheic {
			endorheic = 1
		}
		_, err = tx.Exec(`INSERT INTO lakes
			(world_id, lake_id, water_level, spill_elevation, area, endorheic, lake_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			worldID, l.ID, l.WaterLevel, l.SpillElevation, l.Area, endorheic, string(lakeJSON))
		if err != nil {
			return 0, fmt.Errorf("insert lake %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("world saved",
		"world_id", worldID, "seed", w.Seed,
		"rivers", len(w.Hydrology.Rivers), "lakes", len(w.Hydrology.Lakes))
	return worldID, nil
}

// LoadRivers restores the rivers of a stored world.
func (db *DB) LoadRivers(worldID int64) ([]*hydro.River, error) {
	rows, err := db.conn.Queryx(
		"SELECT river_id, termination, terminating_lake, vertices_json FROM rivers WHERE world_id = ? ORDER BY river_id",
		worldID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rivers: %w", err)
	}
	defer rows.Close()

	var rivers []*hydro.River
	for rows.Next() {
		var (
			id, lake     int
			termination  uint8
			verticesJSON string
		)
		if err := rows.Scan(&id, &termination, &lake, &verticesJSON); err != nil {
			return nil, fmt.Errorf("scan river: %w", err)
		}
		r := &hydro.River{ID: id, Termination: hydro.Termination(termination), TerminatingLake: lake}
		if err := json.Unmarshal([]byte(verticesJSON), &r.Vertices); err != nil {
			return nil, fmt.Errorf("unmarshal river %d: %w", id, err)
		}
		rivers = append(rivers, r)
	}
	return rivers, rows.Err()
}

// LoadLakes restores the lakes of a stored world.
func (db *DB) LoadLakes(worldID int64) ([]*hydro.Lake, error) {
	rows, err := db.conn.Queryx(
		"SELECT lake_json FROM lakes WHERE world_id = ? ORDER BY lake_id",
		worldID,
	)
	if err != nil {
		return nil, fmt.Errorf("query lakes: %w", err)
	}
	defer rows.Close()

	var lakes []*hydro.Lake
	for rows.Next() {
		var lakeJSON string
		if err := rows.Scan(&lakeJSON); err != nil {
			return nil, fmt.Errorf("scan lake: %w", err)
		}
		l := &hydro.Lake{}
		if err := json.Unmarshal([]byte(lakeJSON), l); err != nil {
			return nil, fmt.Errorf("unmarshal lake: %w", err)
		}
		lakes = append(lakes, l)
	}
	return lakes, rows.Err()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
