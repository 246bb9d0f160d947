// Package store persists planning runs to a local SQLite database so
// past schedules stay queryable after the fact.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens the run-history database at the given path, creating parent
// directories as needed. ":memory:" opens a throwaway in-memory database.
// Sets WAL mode, enables foreign keys and runs migrations.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		sprint_name  TEXT NOT NULL,
		sprint_start TEXT NOT NULL,
		sprint_end   TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		placed       INTEGER NOT NULL,
		rejected     INTEGER NOT NULL,
		report_json  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_generated ON runs(generated_at)`,

	`CREATE TABLE IF NOT EXISTS run_placements (
		run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		task_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		executor     TEXT NOT NULL,
		start_date   TEXT NOT NULL,
		start_period TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		end_period   TEXT NOT NULL,
		hours        REAL NOT NULL,
		PRIMARY KEY (run_id, task_id)
	)`,

	`CREATE TABLE IF NOT EXISTS run_rejections (
		run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		task_id TEXT NOT NULL,
		reason  TEXT NOT NULL,
		PRIMARY KEY (run_id, task_id)
	)`,

	`CREATE TABLE IF NOT EXISTS run_stories (
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		story_id TEXT NOT NULL,
		title    TEXT NOT NULL,
		owner    TEXT NOT NULL,
		points   INTEGER NOT NULL,
		hours    REAL NOT NULL,
		PRIMARY KEY (run_id, story_id)
	)`,
}
