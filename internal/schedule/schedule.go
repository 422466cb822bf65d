// Package schedule projects stored tasks into the flat records a timeline
// chart consumes.
package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/existflow/issuegantt/internal/model"
)

// DateLayout is the chart's date format
const DateLayout = "01-02-2006"

// SortKey orders the projection
type SortKey string

const (
	SortByLabel     SortKey = "label"
	SortByStartDate SortKey = "start_date"
)

// ParseSortKey validates a sort key name. "" selects SortByLabel.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortByLabel:
		return SortByLabel, nil
	case SortByStartDate:
		return SortByStartDate, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want %s or %s)", s, SortByLabel, SortByStartDate)
}

// Item is one bar on the chart
type Item struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	StartDate string   `json:"start_date"`
	Duration  int      `json:"duration"`
	EndDate   string   `json:"end_date"`
	URL       string   `json:"url"`
	Progress  *float64 `json:"progress,omitempty"`
	Color     string   `json:"color,omitempty"`
	HTMLURL   string   `json:"htmlUrl"`

	// Label is used for grouping and the label legend
	Label string `json:"-"`
}

// LabelRef is a legend entry
type LabelRef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Store is the read side the projector needs
type Store interface {
	ListScheduledTasks(ctx context.Context) ([]model.Task, error)
}

// Projector turns live scheduled tasks into chart items
type Projector struct {
	store Store
}

// NewProjector creates a projector reading from store
func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

// Project returns every open, live task with an end date, ordered by key.
// An empty store gives an empty slice.
func (p *Projector) Project(ctx context.Context, key SortKey) ([]Item, error) {
	tasks, err := p.store.ListScheduledTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	scheduled := tasks[:0:0]
	for _, t := range tasks {
		if t.Scheduled() {
			scheduled = append(scheduled, t)
		}
	}
	Sort(scheduled, key)

	items := make([]Item, 0, len(scheduled))
	for _, t := range scheduled {
		items = append(items, ToItem(t))
	}
	return items, nil
}

// Sort orders tasks in place. Label order puts unlabeled tasks last; ties
// fall back to latest start first, then id.
func Sort(tasks []model.Task, key SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if key == SortByLabel && a.Label != b.Label {
			switch {
			case a.Label == "":
				return false
			case b.Label == "":
				return true
			}
			return a.Label < b.Label
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
}

// ToItem maps a task to its chart record
func ToItem(t model.Task) Item {
	item := Item{
		ID:        t.ID,
		Text:      t.Title,
		StartDate: t.StartDate.Format(DateLayout),
		Duration:  t.Duration,
		URL:       t.URL,
		Color:     t.Color,
		HTMLURL:   t.HTMLURL,
		Label:     t.Label,
	}
	if t.EndDate != nil {
		item.EndDate = t.EndDate.Format(DateLayout)
	}
	if t.Progress != nil {
		p := *t.Progress
		item.Progress = &p
	}
	return item
}

// Labels lists the labels used by items, first occurrence wins
func Labels(items []Item) []LabelRef {
	refs := []LabelRef{}
	seen := map[string]bool{}
	for _, it := range items {
		if it.Label == "" || seen[it.Label] {
			continue
		}
		seen[it.Label] = true
		refs = append(refs, LabelRef{Name: it.Label, Color: it.Color})
	}
	return refs
}
