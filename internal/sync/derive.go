package sync

import (
	"time"

	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/model"
)

// DeriveTask builds the task for issue from its keyword lines. Bad dates
// fall back (creation date for the start, none for the end), bad progress
// and unknown labels are left empty. It never fails.
func DeriveTask(issue github.Issue, p keyword.Prefixes, labels *LabelResolver, now time.Time) model.Task {
	body := issue.BodyText()
	fields := keyword.Parse(body, p)

	start := keyword.Day(issue.CreatedAt)
	if d, ok := fields.Date(keyword.StartDate); ok {
		start = d
	}

	var end *time.Time
	if d, ok := fields.Date(keyword.DueDate); ok {
		end = &d
	}

	t := model.Task{
		ID:        issue.ID,
		Number:    issue.Number,
		URL:       issue.URL,
		HTMLURL:   issue.HTMLURL,
		Title:     issue.Title,
		Body:      body,
		StartDate: start,
		EndDate:   end,
		Duration:  model.DurationDays(start, end),
		Progress:  fields.Progress(),
		State:     issue.State,
		IsDeleted: false,
		CreatedAt: issue.CreatedAt,
		SyncedAt:  now,
	}

	if l, ok := labels.Resolve(fields.Label()); ok {
		t.Label = l.Name
		t.Color = l.Color
	}

	return t
}

// malformed lists the keyword fields present in body whose value did not
// parse or resolve
func malformed(body string, p keyword.Prefixes, labels *LabelResolver) []string {
	fields := keyword.Parse(body, p)
	var bad []string
	if _, ok := fields[keyword.StartDate]; ok {
		if _, ok := fields.Date(keyword.StartDate); !ok {
			bad = append(bad, keyword.StartDate.String())
		}
	}
	if _, ok := fields[keyword.DueDate]; ok {
		if _, ok := fields.Date(keyword.DueDate); !ok {
			bad = append(bad, keyword.DueDate.String())
		}
	}
	if _, ok := fields[keyword.Progress]; ok && fields.Progress() == nil {
		bad = append(bad, keyword.Progress.String())
	}
	if name := fields.Label(); name != "" {
		if _, ok := labels.Resolve(name); !ok {
			bad = append(bad, keyword.Label.String())
		}
	}
	return bad
}

func toLabels(in []github.Label) []model.Label {
	out := make([]model.Label, 0, len(in))
	for _, l := range in {
		out = append(out, model.Label{ID: l.ID, URL: l.URL, Name: l.Name, Color: l.Color, Default: l.Default})
	}
	return out
}

func toMilestones(in []github.Milestone) []model.Milestone {
	out := make([]model.Milestone, 0, len(in))
	for _, m := range in {
		desc := ""
		if m.Description != nil {
			desc = *m.Description
		}
		out = append(out, model.Milestone{
			ID:           m.ID,
			URL:          m.URL,
			HTMLURL:      m.HTMLURL,
			Number:       m.Number,
			State:        m.State,
			Title:        m.Title,
			Description:  desc,
			OpenIssues:   m.OpenIssues,
			ClosedIssues: m.ClosedIssues,
			CreatedAt:    m.CreatedAt,
			UpdatedAt:    m.UpdatedAt,
			ClosedAt:     m.ClosedAt,
			DueOn:        m.DueOn,
		})
	}
	return out
}
