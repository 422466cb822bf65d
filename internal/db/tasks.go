package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/issuegantt/internal/model"
)

const taskColumns = `id, number, url, html_url, title, body, start_date, end_date, duration,
	progress, label, color, state, is_deleted, created_at, synced_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t                      model.Task
		start, created, synced string
		end, label, color      sql.NullString
		progress               sql.NullFloat64
	)
	err := row.Scan(&t.ID, &t.Number, &t.URL, &t.HTMLURL, &t.Title, &t.Body,
		&start, &end, &t.Duration, &progress, &label, &color, &t.State,
		&t.IsDeleted, &created, &synced)
	if err != nil {
		return model.Task{}, err
	}

	t.StartDate = parseDate(start)
	t.EndDate = parseNullDate(end)
	if progress.Valid {
		p := progress.Float64
		t.Progress = &p
	}
	t.Label = label.String
	t.Color = color.String
	t.CreatedAt = parseTime(created)
	t.SyncedAt = parseTime(synced)
	return t, nil
}

// UpsertTask creates the task or overwrites every field but its id
func (q *Queries) UpsertTask(ctx context.Context, t model.Task) error {
	_, err := q.exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			number = excluded.number,
			url = excluded.url,
			html_url = excluded.html_url,
			title = excluded.title,
			body = excluded.body,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			duration = excluded.duration,
			progress = excluded.progress,
			label = excluded.label,
			color = excluded.color,
			state = excluded.state,
			is_deleted = excluded.is_deleted,
			created_at = excluded.created_at,
			synced_at = excluded.synced_at`,
		t.ID, t.Number, t.URL, t.HTMLURL, t.Title, t.Body,
		formatDate(t.StartDate), nullDate(t.EndDate), t.Duration,
		nullFloat(t.Progress), nullString(t.Label), nullString(t.Color), t.State,
		t.IsDeleted, t.CreatedAt.UTC().Format(timeLayout), t.SyncedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert task %d: %w", t.ID, err)
	}
	return nil
}

// GetTask returns the task with id, or ErrNotFound
func (q *Queries) GetTask(ctx context.Context, id int64) (model.Task, error) {
	row := q.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// UpdateTaskSchedule saves an edited schedule and body
func (q *Queries) UpdateTaskSchedule(ctx context.Context, t model.Task) error {
	res, err := q.exec(ctx, `
		UPDATE tasks SET body = ?, start_date = ?, end_date = ?, duration = ?, progress = ?
		WHERE id = ?`,
		t.Body, formatDate(t.StartDate), nullDate(t.EndDate), t.Duration, nullFloat(t.Progress), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("task %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

// TaskRef is the identity and deletion flag of a stored task
type TaskRef struct {
	ID        int64
	IsDeleted bool
}

// ListTaskRefs returns every stored task id, deleted or not
func (q *Queries) ListTaskRefs(ctx context.Context) ([]TaskRef, error) {
	rows, err := q.query(ctx, `SELECT id, is_deleted FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list task ids: %w", err)
	}
	defer rows.Close()

	var refs []TaskRef
	for rows.Next() {
		var r TaskRef
		if err := rows.Scan(&r.ID, &r.IsDeleted); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// MarkTaskDeleted flags a task as deleted upstream
func (q *Queries) MarkTaskDeleted(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, `UPDATE tasks SET is_deleted = ? WHERE id = ?`, true, id)
	if err != nil {
		return fmt.Errorf("mark task %d deleted: %w", id, err)
	}
	return nil
}

// ListTasks returns tasks ordered by id, optionally including deleted ones
func (q *Queries) ListTasks(ctx context.Context, includeDeleted bool) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []interface{}
	if !includeDeleted {
		query += ` WHERE is_deleted = ?`
		args = append(args, false)
	}
	query += ` ORDER BY id`
	return q.listTasks(ctx, query, args...)
}

// ListScheduledTasks returns live open tasks that have an end date, latest
// start first
func (q *Queries) ListScheduledTasks(ctx context.Context) ([]model.Task, error) {
	return q.listTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE is_deleted = ? AND state = ? AND end_date IS NOT NULL
		ORDER BY start_date DESC, id`,
		false, model.StateOpen,
	)
}

func (q *Queries) listTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
