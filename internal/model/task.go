package model

import "time"

// Task states as reported by the issue tracker
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// DefaultDuration is the duration of a task without an end date
const DefaultDuration = 1

// Task is the local record of one remote issue plus the schedule derived
// from its body
type Task struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	URL       string     `json:"url"`
	HTMLURL   string     `json:"html_url"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Duration  int        `json:"duration"`
	Progress  *float64   `json:"progress,omitempty"`
	Label     string     `json:"label,omitempty"`
	Color     string     `json:"color,omitempty"`
	State     string     `json:"state"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	SyncedAt  time.Time  `json:"synced_at"`
}

// IsOpen returns true if the remote issue is open
func (t *Task) IsOpen() bool {
	return t.State == StateOpen
}

// Scheduled returns true if the task belongs on the chart
func (t *Task) Scheduled() bool {
	return !t.IsDeleted && t.IsOpen() && t.EndDate != nil
}

// DurationDays returns the whole days between start and end, at least one
func DurationDays(start time.Time, end *time.Time) int {
	if end == nil {
		return DefaultDuration
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < DefaultDuration {
		return DefaultDuration
	}
	return days
}
