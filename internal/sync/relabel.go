package sync

import (
	"context"
	"fmt"

	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/logger"
)

// Relabeled is an issue whose body had a keyword prefix rewritten
type Relabeled struct {
	Number int
	Title  string
}

// Relabel rewrites the line prefix from to to in every issue body and
// pushes the changed bodies one at a time. With dryRun nothing is pushed.
// The next refresh brings the store up to date.
func (s *Syncer) Relabel(ctx context.Context, from, to string, dryRun bool) ([]Relabeled, error) {
	if from == "" {
		return nil, fmt.Errorf("%w: empty prefix", ErrInvalidEdit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issues, err := Drain[github.Issue](ctx, s.remote.IssuesPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	var changed []Relabeled
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		body, ok := keyword.Rewrite(issue.BodyText(), from, to)
		if !ok {
			continue
		}
		if !dryRun {
			if err := s.remote.UpdateIssueBody(ctx, issue.Number, body); err != nil {
				s.log.Error("Relabel push failed", logger.F("issue", issue.Number), logger.Err(err))
				return changed, fmt.Errorf("%w: update issue #%d: %w", ErrRemote, issue.Number, err)
			}
		}
		changed = append(changed, Relabeled{Number: issue.Number, Title: issue.Title})
	}

	s.log.Info("Relabel complete",
		logger.F("from", from),
		logger.F("to", to),
		logger.F("changed", len(changed)),
		logger.F("dry_run", dryRun),
	)
	return changed, nil
}
