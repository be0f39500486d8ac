package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all rota tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS workers (
		name      TEXT PRIMARY KEY,
		position  INTEGER NOT NULL,
		height    TEXT NOT NULL DEFAULT 'NONE',
		stamina   TEXT NOT NULL DEFAULT 'NONE',
		is_senior INTEGER NOT NULL DEFAULT 0,
		is_young  INTEGER NOT NULL DEFAULT 0,
		is_older  INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		name             TEXT PRIMARY KEY,
		position         INTEGER NOT NULL,
		min_height       TEXT NOT NULL DEFAULT 'NONE',
		min_stamina      TEXT NOT NULL DEFAULT 'NONE',
		senior_required  INTEGER NOT NULL DEFAULT 0,
		younger_required INTEGER NOT NULL DEFAULT 0,
		older_required   INTEGER NOT NULL DEFAULT 0,
		requires_pair    INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_workers_position ON workers(position)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_position ON jobs(position)`,

	// Completed allocations. Audit only: never read back into exclusion history.
	`CREATE TABLE IF NOT EXISTS rounds (
		id          TEXT PRIMARY KEY,
		attempts    INTEGER NOT NULL DEFAULT 1,
		quota       INTEGER NOT NULL DEFAULT 1,
		idle        TEXT NOT NULL DEFAULT '[]',
		assignments TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
