package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/existflow/issuegantt/internal/model"
)

// ReplaceLabels swaps the stored label set for labels
func (q *Queries) ReplaceLabels(ctx context.Context, labels []model.Label) error {
	if _, err := q.exec(ctx, `DELETE FROM labels`); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	for _, l := range labels {
		_, err := q.exec(ctx, `
			INSERT INTO labels (id, url, name, color, is_default) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				url = excluded.url, name = excluded.name,
				color = excluded.color, is_default = excluded.is_default`,
			l.ID, l.URL, l.Name, l.Color, l.Default,
		)
		if err != nil {
			return fmt.Errorf("insert label %q: %w", l.Name, err)
		}
	}
	return nil
}

// ListLabels returns labels ordered by name
func (q *Queries) ListLabels(ctx context.Context) ([]model.Label, error) {
	rows, err := q.query(ctx, `SELECT id, url, name, color, is_default FROM labels ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	labels := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.URL, &l.Name, &l.Color, &l.Default); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// ReplaceMilestones swaps the stored milestone set for milestones
func (q *Queries) ReplaceMilestones(ctx context.Context, milestones []model.Milestone) error {
	if _, err := q.exec(ctx, `DELETE FROM milestones`); err != nil {
		return fmt.Errorf("clear milestones: %w", err)
	}
	for _, m := range milestones {
		_, err := q.exec(ctx, `
			INSERT INTO milestones (id, url, html_url, number, state, title, description,
				open_issues, closed_issues, created_at, updated_at, closed_at, due_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.URL, m.HTMLURL, m.Number, m.State, m.Title, m.Description,
			m.OpenIssues, m.ClosedIssues, m.CreatedAt.UTC().Format(timeLayout),
			nullTime(m.UpdatedAt), nullTime(m.ClosedAt), nullTime(m.DueOn),
		)
		if err != nil {
			return fmt.Errorf("insert milestone %d: %w", m.Number, err)
		}
	}
	return nil
}

// ListMilestones returns milestones ordered by number
func (q *Queries) ListMilestones(ctx context.Context) ([]model.Milestone, error) {
	rows, err := q.query(ctx, `
		SELECT id, url, html_url, number, state, title, description,
			open_issues, closed_issues, created_at, updated_at, closed_at, due_on
		FROM milestones ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var (
			m                      model.Milestone
			created                string
			updated, closed, dueOn sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.URL, &m.HTMLURL, &m.Number, &m.State, &m.Title, &m.Description,
			&m.OpenIssues, &m.ClosedIssues, &created, &updated, &closed, &dueOn); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(created)
		m.UpdatedAt = parseNullTime(updated)
		m.ClosedAt = parseNullTime(closed)
		m.DueOn = parseNullTime(dueOn)
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}
