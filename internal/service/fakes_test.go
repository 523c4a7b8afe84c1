package service

import (
	"context"

	"github.com/nhle/workstatus/internal/source/github"
	"github.com/nhle/workstatus/internal/source/jira"
)

type fakeTracker struct {
	issue         func(ctx context.Context, key string) (*jira.Issue, error)
	devPanel      func(ctx context.Context, issueID string) (*jira.DevPanel, error)
	boards        func(ctx context.Context, projectKey string) ([]jira.Board, error)
	activeSprints func(ctx context.Context, boardID int) ([]jira.Sprint, error)
	sprintIssues  func(ctx context.Context, sprintID int) ([]jira.Issue, error)
	browseURL     func(key string) string
}

func (f *fakeTracker) GetIssue(ctx context.Context, key string) (*jira.Issue, error) {
	return f.issue(ctx, key)
}

func (f *fakeTracker) GetDevPanel(ctx context.Context, issueID string) (*jira.DevPanel, error) {
	return f.devPanel(ctx, issueID)
}

func (f *fakeTracker) GetBoards(ctx context.Context, projectKey string) ([]jira.Board, error) {
	return f.boards(ctx, projectKey)
}

func (f *fakeTracker) GetActiveSprints(ctx context.Context, boardID int) ([]jira.Sprint, error) {
	return f.activeSprints(ctx, boardID)
}

func (f *fakeTracker) GetSprintIssues(ctx context.Context, sprintID int) ([]jira.Issue, error) {
	return f.sprintIssues(ctx, sprintID)
}

func (f *fakeTracker) BrowseURL(key string) string {
	if f.browseURL == nil {
		return ""
	}
	return f.browseURL(key)
}

type fakeHost struct {
	pullRequest func(ctx context.Context, repo string, number int) (*github.PullRequest, error)
	reviews     func(ctx context.Context, repo string, number int) ([]github.Review, error)
	checkRuns   func(ctx context.Context, repo string, sha string) ([]github.CheckRun, error)
	search      func(ctx context.Context, query string, limit int) ([]github.SearchItem, error)
}

func (f *fakeHost) GetPullRequest(ctx context.Context, repo string, number int) (*github.PullRequest, error) {
	return f.pullRequest(ctx, repo, number)
}

func (f *fakeHost) GetReviews(ctx context.Context, repo string, number int) ([]github.Review, error) {
	return f.reviews(ctx, repo, number)
}

func (f *fakeHost) GetCheckRuns(ctx context.Context, repo string, sha string) ([]github.CheckRun, error) {
	return f.checkRuns(ctx, repo, sha)
}

func (f *fakeHost) SearchPullRequests(ctx context.Context, query string, limit int) ([]github.SearchItem, error) {
	return f.search(ctx, query, limit)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
