// Package telemetry keeps the history of finished episodes in an
// embedded SQLite database so learning progress survives restarts and
// can be served to the visualizer.
package telemetry

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/robocore-labs/maze-rover/sim"
)

// DB wraps the run-history database.
type DB struct {
	*sql.DB
}

// Run is one recorded episode. CreatedAt is the UTC insertion time in
// SQLite's default "YYYY-MM-DD HH:MM:SS" text form.
type Run struct {
	ID         string `json:"id"`
	Maze       string `json:"maze"`
	Steps      int    `json:"steps"`
	Collisions int    `json:"collisions"`
	Cost       int    `json:"cost"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			maze TEXT,
			steps INTEGER,
			collisions INTEGER,
			cost INTEGER,
			duration_ms INTEGER,
			created_at TEXT DEFAULT (datetime('now'))
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordRun stores a finished episode and returns its id.
func (db *DB) RecordRun(mazeName string, r sim.Result, duration time.Duration) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		"INSERT INTO runs (run_id, maze, steps, collisions, cost, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
		id, mazeName, r.Steps, r.Collisions, r.Cost, duration.Milliseconds(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecentRuns returns up to limit episodes, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(
		"SELECT run_id, maze, steps, collisions, cost, duration_ms, created_at FROM runs ORDER BY created_at DESC, run_id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Maze, &r.Steps, &r.Collisions, &r.Cost, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// BestCost returns the lowest recorded cost for a maze. The second
// return is false when the maze has no recorded run.
func (db *DB) BestCost(mazeName string) (int, bool, error) {
	var cost sql.NullInt64
	err := db.QueryRow("SELECT MIN(cost) FROM runs WHERE maze = ?", mazeName).Scan(&cost)
	if err != nil {
		return 0, false, err
	}
	if !cost.Valid {
		return 0, false, nil
	}
	return int(cost.Int64), true, nil
}
