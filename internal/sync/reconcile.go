package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/issuegantt/internal/db"
	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/model"
)

// Remote is the issue tracker the store is reconciled against
type Remote interface {
	IssuesPage(ctx context.Context, cursor string) (github.Page[github.Issue], error)
	LabelsPage(ctx context.Context, cursor string) (github.Page[github.Label], error)
	MilestonesPage(ctx context.Context, cursor string) (github.Page[github.Milestone], error)
	UpdateIssueBody(ctx context.Context, number int, body string) error
}

// Result holds refresh statistics
type Result struct {
	RunID      string
	Issues     int
	Created    int
	Pruned     int
	Labels     int
	Milestones int
}

// Syncer mirrors the remote issues into the store and pushes edits back
type Syncer struct {
	db       *db.DB
	remote   Remote
	prefixes keyword.Prefixes
	now      func() time.Time
	log      *logger.Logger

	// mu serializes refreshes and edits
	mu gosync.Mutex
}

// NewSyncer creates a syncer for the given store and remote
func NewSyncer(database *db.DB, remote Remote, prefixes keyword.Prefixes) *Syncer {
	return &Syncer{
		db:       database,
		remote:   remote,
		prefixes: prefixes,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.Named("sync"),
	}
}

// Prefixes returns the keyword prefixes the syncer reads and writes
func (s *Syncer) Prefixes() keyword.Prefixes {
	return s.prefixes
}

// Refresh drains labels, milestones and issues from the remote and folds
// them into the store in one transaction. A failed page leaves the store
// as it was. Every attempt is recorded as a refresh run.
func (s *Syncer) Refresh(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := model.RefreshRun{ID: uuid.New().String(), StartedAt: s.now()}
	result, err := s.refresh(ctx)
	if result != nil {
		run.Issues = result.Issues
		run.Created = result.Created
		run.Pruned = result.Pruned
		run.Labels = result.Labels
		run.Milestones = result.Milestones
		result.RunID = run.ID
	}
	finished := s.now()
	run.FinishedAt = &finished
	if err != nil {
		run.Error = err.Error()
		s.log.Error("Refresh failed", logger.F("run", run.ID), logger.Err(err))
	} else {
		s.log.Info("Refresh complete",
			logger.F("run", run.ID),
			logger.F("issues", run.Issues),
			logger.F("created", run.Created),
			logger.F("pruned", run.Pruned),
		)
	}

	// The run is recorded even when the request context is gone
	if saveErr := s.db.SaveRefreshRun(context.WithoutCancel(ctx), run); saveErr != nil {
		s.log.Warn("Failed to record refresh run", logger.F("run", run.ID), logger.Err(saveErr))
	}

	return result, err
}

func (s *Syncer) refresh(ctx context.Context) (*Result, error) {
	ghLabels, err := Drain[github.Label](ctx, s.remote.LabelsPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch labels: %w", err)
	}
	ghMilestones, err := Drain[github.Milestone](ctx, s.remote.MilestonesPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch milestones: %w", err)
	}
	issues, err := Drain[github.Issue](ctx, s.remote.IssuesPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	labels := toLabels(ghLabels)
	milestones := toMilestones(ghMilestones)
	resolver := NewLabelResolver(labels)
	now := s.now()

	tasks := make([]model.Task, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		if bad := malformed(issue.BodyText(), s.prefixes, resolver); len(bad) > 0 {
			s.log.Debug("Ignoring malformed keyword lines",
				logger.F("issue", issue.Number),
				logger.F("fields", bad),
			)
		}
		tasks = append(tasks, DeriveTask(issue, s.prefixes, resolver, now))
	}

	var result *Result
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		if err := q.ReplaceLabels(ctx, labels); err != nil {
			return err
		}
		if err := q.ReplaceMilestones(ctx, milestones); err != nil {
			return err
		}
		r, err := Reconcile(ctx, q, tasks)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save refresh: %w", err)
	}

	result.Labels = len(labels)
	result.Milestones = len(milestones)
	return result, nil
}

// Reconcile upserts every task as live and flags every stored task missing
// from tasks as deleted. tasks must be the complete remote set. Running it
// twice with the same input leaves the store unchanged.
func Reconcile(ctx context.Context, q *db.Queries, tasks []model.Task) (*Result, error) {
	refs, err := q.ListTaskRefs(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[int64]bool, len(refs))
	for _, r := range refs {
		stored[r.ID] = r.IsDeleted
	}

	result := &Result{}
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		t.IsDeleted = false
		if err := q.UpsertTask(ctx, t); err != nil {
			return nil, err
		}
		if _, ok := stored[t.ID]; !ok && !seen[t.ID] {
			result.Created++
		}
		seen[t.ID] = true
	}
	result.Issues = len(seen)

	for _, r := range refs {
		if seen[r.ID] || r.IsDeleted {
			continue
		}
		if err := q.MarkTaskDeleted(ctx, r.ID); err != nil {
			return nil, err
		}
		result.Pruned++
	}

	return result, nil
}
