package model

import "time"

// RefreshRun records one attempt to reconcile the store with the remote
type RefreshRun struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Issues     int        `json:"issues"`
	Created    int        `json:"created"`
	Pruned     int        `json:"pruned"`
	Labels     int        `json:"labels"`
	Milestones int        `json:"milestones"`
	Error      string     `json:"error,omitempty"`
}

// Succeeded returns true if the run finished without error
func (r *RefreshRun) Succeeded() bool {
	return r.FinishedAt != nil && r.Error == ""
}
