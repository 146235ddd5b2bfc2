// Package persistence stores generated planets in SQLite.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for planet storage.
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
	CREATE TABLE IF NOT EXISTS tiles (
		id INTEGER PRIMARY KEY,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		area REAL NOT NULL,
		elevation REAL NOT NULL,
		temperature REAL NOT NULL,
		moisture REAL NOT NULL,
		plate INTEGER NOT NULL,
		slope REAL NOT NULL,
		noise REAL NOT NULL,
		biome INTEGER NOT NULL,
		resources_json TEXT NOT NULL,
		calories REAL NOT NULL,
		upstream_weight REAL NOT NULL,
		drain INTEGER NOT NULL,
		inflow REAL NOT NULL,
		outflow REAL NOT NULL,
		river INTEGER NOT NULL,
		lake_depth REAL NOT NULL,
		watershed INTEGER NOT NULL,
		body INTEGER NOT NULL,
		flagged INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS corners (
		id INTEGER PRIMARY KEY,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		area REAL NOT NULL,
		elevation REAL NOT NULL,
		between_plates INTEGER NOT NULL,
		pressure REAL NOT NULL,
		shear REAL NOT NULL,
		dist_boundary REAL NOT NULL,
		dist_root REAL NOT NULL,
		air_x REAL NOT NULL,
		air_y REAL NOT NULL,
		air_z REAL NOT NULL,
		air_speed REAL NOT NULL,
		outflows_json TEXT NOT NULL,
		heat REAL NOT NULL,
		precipitation REAL NOT NULL,
		temperature REAL NOT NULL,
		moisture REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS borders (
		id INTEGER PRIMARY KEY,
		between_plates INTEGER NOT NULL,
		length REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		kind TEXT NOT NULL,
		owner INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		tile INTEGER NOT NULL,
		corner INTEGER NOT NULL,
		border INTEGER NOT NULL,
		PRIMARY KEY (kind, owner, slot)
	);

	CREATE TABLE IF NOT EXISTS plates (
		id INTEGER PRIMARY KEY,
		color INTEGER NOT NULL,
		drift_x REAL NOT NULL,
		drift_y REAL NOT NULL,
		drift_z REAL NOT NULL,
		drift_rate REAL NOT NULL,
		spin_rate REAL NOT NULL,
		elevation REAL NOT NULL,
		oceanic INTEGER NOT NULL,
		root INTEGER NOT NULL,
		root_x REAL NOT NULL,
		root_y REAL NOT NULL,
		root_z REAL NOT NULL,
		tiles_json TEXT NOT NULL,
		boundary_corners_json TEXT NOT NULL,
		boundary_borders_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lakes (
		id INTEGER PRIMARY KEY,
		level REAL NOT NULL,
		outlet INTEGER NOT NULL,
		escape_tile INTEGER NOT NULL,
		filled INTEGER NOT NULL,
		tiles_json TEXT NOT NULL,
		shore_json TEXT NOT NULL,
		sources_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS watersheds (
		id INTEGER PRIMARY KEY,
		outlet INTEGER NOT NULL,
		color INTEGER NOT NULL,
		tiles_json TEXT NOT NULL,
		neighbors_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bodies (
		id INTEGER PRIMARY KEY,
		land INTEGER NOT NULL,
		tiles_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tiles_biome ON tiles(biome);
	CREATE INDEX IF NOT EXISTS idx_tiles_river ON tiles(river);
	`
	_, err := db.conn.Exec(schema)
	return err
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

// AllMeta returns every metadata pair.
func (db *DB) AllMeta() (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM world_meta ORDER BY key"); err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value
	}
	slog.Debug("loaded world meta", "keys", len(meta))
	return meta, nil
}
