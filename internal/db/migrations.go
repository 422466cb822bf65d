package db

import "fmt"

// migrate runs all database migrations
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateTasks,
		migrationCreateLabels,
		migrationCreateMilestones,
		migrationCreateRefreshRuns,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// Schema is shared by sqlite and postgres: dates and timestamps are TEXT
// (YYYY-MM-DD and RFC3339), so both drivers scan them the same way.

const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT PRIMARY KEY,
    number INTEGER NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    html_url TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    end_date TEXT,
    duration INTEGER NOT NULL DEFAULT 1,
    progress DOUBLE PRECISION,
    label TEXT,
    color TEXT,
    state TEXT NOT NULL DEFAULT 'open',
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TEXT NOT NULL,
    synced_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_schedule ON tasks(is_deleted, state);
`

const migrationCreateLabels = `
CREATE TABLE IF NOT EXISTS labels (
    id BIGINT PRIMARY KEY,
    url TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    is_default BOOLEAN NOT NULL DEFAULT FALSE
);
`

const migrationCreateMilestones = `
CREATE TABLE IF NOT EXISTS milestones (
    id BIGINT PRIMARY KEY,
    url TEXT NOT NULL DEFAULT '',
    html_url TEXT NOT NULL DEFAULT '',
    number INTEGER NOT NULL,
    state TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    open_issues INTEGER NOT NULL DEFAULT 0,
    closed_issues INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT,
    closed_at TEXT,
    due_on TEXT
);
`

const migrationCreateRefreshRuns = `
CREATE TABLE IF NOT EXISTS refresh_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    issues INTEGER NOT NULL DEFAULT 0,
    created INTEGER NOT NULL DEFAULT 0,
    pruned INTEGER NOT NULL DEFAULT 0,
    labels INTEGER NOT NULL DEFAULT 0,
    milestones INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);
`
