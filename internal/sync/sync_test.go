package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/existflow/issuegantt/internal/db"
	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/model"
)

var testPrefixes = keyword.Prefixes{
	StartDate: "#### Start Date:",
	DueDate:   "#### Due Date:",
	Label:     "#### Team:",
	Progress:  "#### Progress:",
}

// fakeRemote serves fixed collections split into pages of pageSize
type fakeRemote struct {
	issues     []github.Issue
	labels     []github.Label
	milestones []github.Milestone
	pageSize   int

	failIssuePage int // 1-based page that fails, 0 for none
	failUpdate    error

	issueCalls []string
	updates    map[int]string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{pageSize: 2, updates: map[int]string{}}
}

func paginate[T any](items []T, size int, cursor string) (github.Page[T], int, error) {
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return github.Page[T]{}, 0, err
		}
		start = n
	}
	if size <= 0 {
		size = len(items)
	}
	end := start + size
	if end >= len(items) {
		return github.Page[T]{Items: items[start:]}, start/max(size, 1) + 1, nil
	}
	return github.Page[T]{Items: items[start:end], Next: strconv.Itoa(end)}, start/size + 1, nil
}

func (f *fakeRemote) IssuesPage(ctx context.Context, cursor string) (github.Page[github.Issue], error) {
	f.issueCalls = append(f.issueCalls, cursor)
	p, page, err := paginate(f.issues, f.pageSize, cursor)
	if err != nil {
		return p, err
	}
	if f.failIssuePage == page {
		return github.Page[github.Issue]{}, &github.APIError{Method: "GET", StatusCode: 500, Message: "boom"}
	}
	return p, nil
}

func (f *fakeRemote) LabelsPage(ctx context.Context, cursor string) (github.Page[github.Label], error) {
	p, _, err := paginate(f.labels, f.pageSize, cursor)
	return p, err
}

func (f *fakeRemote) MilestonesPage(ctx context.Context, cursor string) (github.Page[github.Milestone], error) {
	p, _, err := paginate(f.milestones, f.pageSize, cursor)
	return p, err
}

func (f *fakeRemote) UpdateIssueBody(ctx context.Context, number int, body string) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.updates[number] = body
	return nil
}

func newTestSyncer(t *testing.T, remote Remote) (*Syncer, *db.DB) {
	t.Helper()
	database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	// Each call moves the clock a second so refresh runs order by start
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSyncer(database, remote, testPrefixes)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, database
}

func issue(id int64, body string) github.Issue {
	return github.Issue{
		ID:        id,
		Number:    int(id),
		Title:     fmt.Sprintf("Issue %d", id),
		Body:      &body,
		State:     model.StateOpen,
		URL:       fmt.Sprintf("https://api.github.com/repos/acme/product/issues/%d", id),
		HTMLURL:   fmt.Sprintf("https://github.com/acme/product/issues/%d", id),
		CreatedAt: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestRefreshCreatesAndPrunes(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{issue(1, ""), issue(2, "")}
	s, database := newTestSyncer(t, remote)

	res, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Issues != 2 || res.Created != 2 || res.Pruned != 0 {
		t.Errorf("Expected 2 issues, 2 created, 0 pruned, got %+v", res)
	}

	remote.issues = []github.Issue{issue(2, "")}
	res, err = s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Created != 0 || res.Pruned != 1 {
		t.Errorf("Expected 0 created, 1 pruned, got %+v", res)
	}

	one, err := database.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask(1): %v", err)
	}
	if !one.IsDeleted {
		t.Error("Expected task 1 to be flagged deleted")
	}
	two, err := database.GetTask(ctx, 2)
	if err != nil {
		t.Fatalf("GetTask(2): %v", err)
	}
	if two.IsDeleted {
		t.Error("Expected task 2 to stay live")
	}

	// An issue that comes back is live again
	remote.issues = []github.Issue{issue(1, ""), issue(2, "")}
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	one, _ = database.GetTask(ctx, 1)
	if one.IsDeleted {
		t.Error("Expected task 1 to be live after it reappeared")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{
		issue(1, "#### Start Date: 2024-01-05\n#### Due Date: 2024-01-10"),
		issue(2, "no keywords"),
		issue(3, "#### Progress: 0.5"),
	}
	s, database := newTestSyncer(t, remote)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	first, err := database.ListTasks(ctx, true)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}

	res, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Created != 0 || res.Pruned != 0 {
		t.Errorf("Expected no changes on second refresh, got %+v", res)
	}
	second, err := database.ListTasks(ctx, true)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected %d tasks, got %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Body != b.Body || !a.StartDate.Equal(b.StartDate) ||
			a.Duration != b.Duration || a.IsDeleted != b.IsDeleted {
			t.Errorf("Task %d changed between refreshes: %+v vs %+v", a.ID, a, b)
		}
	}
}

func TestRefreshDerivesKeywordFields(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.labels = []github.Label{{ID: 7, Name: "Backend", Color: "d73a4a"}}
	remote.issues = []github.Issue{
		issue(1, "Intro\n#### Start Date: 2024-01-05\n#### Due Date: 2024-01-10\n#### Team: Backend\n#### Progress: 0.25"),
		issue(2, "#### Team: Frontend\n#### Start Date: not a date\n#### Progress: 7"),
	}
	s, database := newTestSyncer(t, remote)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	one, err := database.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got := one.StartDate.Format("2006-01-02"); got != "2024-01-05" {
		t.Errorf("Expected start 2024-01-05, got %s", got)
	}
	if one.EndDate == nil || one.EndDate.Format("2006-01-02") != "2024-01-10" {
		t.Errorf("Expected end 2024-01-10, got %v", one.EndDate)
	}
	if one.Duration != 5 {
		t.Errorf("Expected duration 5, got %d", one.Duration)
	}
	if one.Label != "Backend" || one.Color != "#d73a4a" {
		t.Errorf("Expected label Backend/#d73a4a, got %q/%q", one.Label, one.Color)
	}
	if one.Progress == nil || *one.Progress != 0.25 {
		t.Errorf("Expected progress 0.25, got %v", one.Progress)
	}

	// Unknown label and bad values fall back without failing the task
	two, err := database.GetTask(ctx, 2)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if two.Label != "" || two.Color != "" {
		t.Errorf("Expected no label, got %q/%q", two.Label, two.Color)
	}
	if got := two.StartDate.Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("Expected start to fall back to creation date, got %s", got)
	}
	if two.Progress != nil {
		t.Errorf("Expected no progress, got %v", *two.Progress)
	}
	if two.EndDate != nil || two.Duration != model.DefaultDuration {
		t.Errorf("Expected no end and default duration, got %v/%d", two.EndDate, two.Duration)
	}
}

func TestRefreshDrainsEveryPage(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	for i := int64(1); i <= 5; i++ {
		remote.issues = append(remote.issues, issue(i, ""))
	}
	s, database := newTestSyncer(t, remote)

	res, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Issues != 5 {
		t.Errorf("Expected 5 issues, got %d", res.Issues)
	}
	if len(remote.issueCalls) != 3 {
		t.Errorf("Expected 3 page requests, got %v", remote.issueCalls)
	}
	tasks, _ := database.ListTasks(ctx, false)
	if len(tasks) != 5 {
		t.Errorf("Expected 5 stored tasks, got %d", len(tasks))
	}
}

func TestRefreshFailedPageLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{issue(1, ""), issue(2, ""), issue(3, "")}
	s, database := newTestSyncer(t, remote)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Second page fails: task 3 must not be pruned
	remote.issues = []github.Issue{issue(1, ""), issue(2, ""), issue(4, "")}
	remote.failIssuePage = 2
	_, err := s.Refresh(ctx)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("Expected ErrRemote, got %v", err)
	}
	var apiErr *github.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Errorf("Expected wrapped APIError 500, got %v", err)
	}

	tasks, err := database.ListTasks(ctx, true)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.IsDeleted {
			t.Errorf("Expected task %d to stay live", task.ID)
		}
	}

	run, err := database.LatestRefreshRun(ctx)
	if err != nil {
		t.Fatalf("LatestRefreshRun: %v", err)
	}
	if run.Succeeded() || run.Error == "" {
		t.Errorf("Expected failed run to be recorded, got %+v", run)
	}
}

func TestRefreshSkipsPullRequests(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	pr := issue(2, "")
	pr.PullRequest = []byte(`{"url":"x"}`)
	remote.issues = []github.Issue{issue(1, ""), pr}
	s, database := newTestSyncer(t, remote)

	res, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Issues != 1 {
		t.Errorf("Expected 1 issue, got %d", res.Issues)
	}
	if _, err := database.GetTask(ctx, 2); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected pull request to be skipped, got %v", err)
	}
}

func TestRefreshStoresLabelsAndMilestones(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	desc := "first cut"
	remote.labels = []github.Label{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	remote.milestones = []github.Milestone{{ID: 9, Number: 1, Title: "v1", State: "open", Description: &desc}}
	s, database := newTestSyncer(t, remote)

	res, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Labels != 3 || res.Milestones != 1 {
		t.Errorf("Expected 3 labels and 1 milestone, got %+v", res)
	}
	if res.RunID == "" {
		t.Error("Expected a run id")
	}

	ms, err := database.ListMilestones(ctx)
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	if len(ms) != 1 || ms[0].Description != "first cut" {
		t.Errorf("Expected milestone v1, got %+v", ms)
	}

	run, err := database.LatestRefreshRun(ctx)
	if err != nil {
		t.Fatalf("LatestRefreshRun: %v", err)
	}
	if run.ID != res.RunID || !run.Succeeded() {
		t.Errorf("Expected successful run %s, got %+v", res.RunID, run)
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{
		issue(1, "Intro\n#### Start Date: 2024-01-05\n#### Due Date: 2024-01-10\n#### Progress: 0.1\nOutro"),
	}
	s, database := newTestSyncer(t, remote)
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	progress := 0.75
	task, err := s.Edit(ctx, Edit{
		ID:        1,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		Progress:  &progress,
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	want := "Intro\n#### Start Date: 2024-02-01\n#### Due Date: 2024-02-04\n#### Progress: 0.75\nOutro"
	if task.Body != want {
		t.Errorf("Expected body %q, got %q", want, task.Body)
	}
	if remote.updates[1] != want {
		t.Errorf("Expected pushed body %q, got %q", want, remote.updates[1])
	}
	if task.Duration != 3 {
		t.Errorf("Expected derived duration 3, got %d", task.Duration)
	}

	stored, err := database.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.Body != want || stored.Progress == nil || *stored.Progress != 0.75 {
		t.Errorf("Expected stored edit, got %+v", stored)
	}

	// The next refresh reads the same values back from the patched body
	remote.issues[0].Body = &want
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	again, _ := database.GetTask(ctx, 1)
	if !again.StartDate.Equal(stored.StartDate) || !again.EndDate.Equal(*stored.EndDate) {
		t.Errorf("Expected refresh to keep edited dates, got %v-%v", again.StartDate, again.EndDate)
	}
}

func TestEditUnknownTask(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s, _ := newTestSyncer(t, remote)

	_, err := s.Edit(ctx, Edit{
		ID:        42,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}
	if len(remote.updates) != 0 {
		t.Errorf("Expected no push, got %v", remote.updates)
	}
}

func TestEditPushFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	body := "#### Start Date: 2024-01-05\n#### Due Date: 2024-01-10"
	remote.issues = []github.Issue{issue(1, body)}
	s, database := newTestSyncer(t, remote)
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	remote.failUpdate = errors.New("connection reset")
	_, err := s.Edit(ctx, Edit{
		ID:        1,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("Expected ErrRemote, got %v", err)
	}

	stored, err := database.GetTask(ctx, 1)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.Body != body {
		t.Errorf("Expected body unchanged, got %q", stored.Body)
	}
	if got := stored.StartDate.Format("2006-01-02"); got != "2024-01-05" {
		t.Errorf("Expected start unchanged, got %s", got)
	}
}

func TestEditValidate(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	bad := 1.5

	tests := []struct {
		name string
		edit Edit
		ok   bool
	}{
		{"valid", Edit{ID: 1, StartDate: start, EndDate: end}, true},
		{"missing id", Edit{StartDate: start, EndDate: end}, false},
		{"missing start", Edit{ID: 1, EndDate: end}, false},
		{"missing end", Edit{ID: 1, StartDate: start}, false},
		{"end before start", Edit{ID: 1, StartDate: end, EndDate: start}, false},
		{"negative duration", Edit{ID: 1, StartDate: start, EndDate: end, Duration: -1}, false},
		{"progress out of range", Edit{ID: 1, StartDate: start, EndDate: end, Progress: &bad}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit.Validate()
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidEdit) {
				t.Errorf("Expected ErrInvalidEdit, got %v", err)
			}
		})
	}
}

func TestIssueURL(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{issue(1, "")}
	s, _ := newTestSyncer(t, remote)
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	url, err := s.IssueURL(ctx, 1)
	if err != nil {
		t.Fatalf("IssueURL: %v", err)
	}
	if url != "https://github.com/acme/product/issues/1" {
		t.Errorf("Expected html url, got %s", url)
	}
	if _, err := s.IssueURL(ctx, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestRelabel(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.issues = []github.Issue{
		issue(1, "#### Owner: Backend\nText"),
		issue(2, "Nothing here"),
		issue(3, "a\r\n#### Owner: Web"),
	}
	s, _ := newTestSyncer(t, remote)

	changed, err := s.Relabel(ctx, "#### Owner:", "#### Team:", true)
	if err != nil {
		t.Fatalf("Relabel dry run: %v", err)
	}
	if len(changed) != 2 || len(remote.updates) != 0 {
		t.Fatalf("Expected 2 candidates and no pushes, got %v / %v", changed, remote.updates)
	}

	changed, err = s.Relabel(ctx, "#### Owner:", "#### Team:", false)
	if err != nil {
		t.Fatalf("Relabel: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("Expected 2 changed issues, got %v", changed)
	}
	if got := remote.updates[1]; got != "#### Team: Backend\nText" {
		t.Errorf("Unexpected body for #1: %q", got)
	}
	if got := remote.updates[3]; got != "a\r\n#### Team: Web" {
		t.Errorf("Unexpected body for #3: %q", got)
	}
}
