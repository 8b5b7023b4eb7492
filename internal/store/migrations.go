package store

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for all groupsched tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		scenario    TEXT NOT NULL DEFAULT '',
		timeline    TEXT NOT NULL,
		tasks       INTEGER NOT NULL,
		group_count INTEGER NOT NULL,
		passes      INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS intervals (
		run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		task_id   TEXT NOT NULL,
		task_name TEXT NOT NULL,
		seq       INTEGER NOT NULL,
		state     TEXT NOT NULL,
		start     REAL NOT NULL,
		finish    REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS registry_entries (
		run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		task_id       TEXT NOT NULL,
		seq           INTEGER NOT NULL,
		state         TEXT NOT NULL,
		deadline      REAL,
		registered_at REAL NOT NULL,
		memberships   TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (run_id, task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_intervals_state ON intervals(run_id, state)`,
}

// alterStatements are column additions that need special handling since
// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
}{
	// Final group snapshots, stored as JSON.
	{
		table:    "runs",
		column:   "group_state",
		alterSQL: "ALTER TABLE runs ADD COLUMN group_state TEXT NOT NULL DEFAULT '[]'",
	},
}

// migrate executes all schema DDL statements and alter migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
	}
	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return err
	}

	found := false
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			rows.Close()
			return err
		}
		if strings.EqualFold(name, column) {
			found = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if found {
		return nil
	}

	_, err = db.ExecContext(ctx, alterSQL)
	return err
}
