package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/issuegantt/internal/db"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/model"
)

// Edit is a schedule change for one task
type Edit struct {
	ID        int64
	StartDate time.Time
	EndDate   time.Time
	Duration  int      // 0 derives it from the dates
	Progress  *float64 // nil keeps the current value
}

// Validate checks the edit is complete and consistent
func (e Edit) Validate() error {
	switch {
	case e.ID <= 0:
		return fmt.Errorf("%w: missing id", ErrInvalidEdit)
	case e.StartDate.IsZero():
		return fmt.Errorf("%w: missing start date", ErrInvalidEdit)
	case e.EndDate.IsZero():
		return fmt.Errorf("%w: missing end date", ErrInvalidEdit)
	case e.EndDate.Before(e.StartDate):
		return fmt.Errorf("%w: end date before start date", ErrInvalidEdit)
	case e.Duration < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidEdit)
	case e.Progress != nil && (*e.Progress < 0 || *e.Progress > 1):
		return fmt.Errorf("%w: progress out of range", ErrInvalidEdit)
	}
	return nil
}

// Edit patches the task's keyword lines, pushes the new body upstream and
// stores the change. The store is only changed when the push succeeds.
func (s *Syncer) Edit(ctx context.Context, e Edit) (model.Task, error) {
	if err := e.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := keyword.Day(e.StartDate)
	end := keyword.Day(e.EndDate)

	var updated model.Task
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		t, err := q.GetTask(ctx, e.ID)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrTaskNotFound, e.ID)
		}
		if err != nil {
			return err
		}

		t.Body = keyword.Patch(t.Body, s.prefixes, keyword.Update{
			StartDate: &start,
			DueDate:   &end,
			Progress:  e.Progress,
		})
		t.StartDate = start
		t.EndDate = &end
		t.Duration = e.Duration
		if t.Duration == 0 {
			t.Duration = model.DurationDays(start, &end)
		}
		if e.Progress != nil {
			p := *e.Progress
			t.Progress = &p
		}

		if err := q.UpdateTaskSchedule(ctx, t); err != nil {
			return err
		}
		if err := s.remote.UpdateIssueBody(ctx, t.Number, t.Body); err != nil {
			return fmt.Errorf("%w: update issue #%d: %w", ErrRemote, t.Number, err)
		}

		updated = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRemote) {
			s.log.Error("Edit push failed", logger.F("task", e.ID), logger.Err(err))
		}
		return model.Task{}, err
	}

	s.log.Info("Task edited",
		logger.F("task", updated.ID),
		logger.F("issue", updated.Number),
		logger.F("start", start.Format(keyword.DateLayout)),
		logger.F("end", end.Format(keyword.DateLayout)),
	)
	return updated, nil
}

// IssueURL returns the human-facing URL of a stored task
func (s *Syncer) IssueURL(ctx context.Context, id int64) (string, error) {
	t, err := s.db.GetTask(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	if err != nil {
		return "", err
	}
	return t.HTMLURL, nil
}
