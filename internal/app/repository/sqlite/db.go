package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"whisper-offline/internal/app/util/files"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL UNIQUE,
	model_path       TEXT NOT NULL,
	input_path       TEXT NOT NULL,
	transcriber_path TEXT NOT NULL,
	stage            TEXT NOT NULL,
	failed_stage     TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	transcript       TEXT NOT NULL DEFAULT '',
	output_path      TEXT NOT NULL DEFAULT '',
	started_at       TIMESTAMP NOT NULL,
	finished_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs (finished_at);`

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string) (*sql.DB, error) {
	if err := files.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer keeps sqlite from returning SQLITE_BUSY under the API server.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the runs table when missing.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(createRunsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}
