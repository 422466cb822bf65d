package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/issuegantt/internal/model"
)

// SaveRefreshRun inserts or updates a refresh run record
func (q *Queries) SaveRefreshRun(ctx context.Context, r model.RefreshRun) error {
	_, err := q.exec(ctx, `
		INSERT INTO refresh_runs (id, started_at, finished_at, issues, created, pruned, labels, milestones, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = excluded.finished_at,
			issues = excluded.issues,
			created = excluded.created,
			pruned = excluded.pruned,
			labels = excluded.labels,
			milestones = excluded.milestones,
			error = excluded.error`,
		r.ID, r.StartedAt.UTC().Format(timeLayout), nullTime(r.FinishedAt),
		r.Issues, r.Created, r.Pruned, r.Labels, r.Milestones, r.Error,
	)
	if err != nil {
		return fmt.Errorf("save refresh run %s: %w", r.ID, err)
	}
	return nil
}

// LatestRefreshRun returns the most recently started run, or ErrNotFound
func (q *Queries) LatestRefreshRun(ctx context.Context) (model.RefreshRun, error) {
	var (
		r        model.RefreshRun
		started  string
		finished sql.NullString
	)
	err := q.queryRow(ctx, `
		SELECT id, started_at, finished_at, issues, created, pruned, labels, milestones, error
		FROM refresh_runs ORDER BY started_at DESC, id DESC LIMIT 1`,
	).Scan(&r.ID, &started, &finished, &r.Issues, &r.Created, &r.Pruned, &r.Labels, &r.Milestones, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshRun{}, fmt.Errorf("refresh run: %w", ErrNotFound)
	}
	if err != nil {
		return model.RefreshRun{}, fmt.Errorf("latest refresh run: %w", err)
	}
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseNullTime(finished)
	return r, nil
}
