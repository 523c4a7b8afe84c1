package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/source"
)

// issueFields are the Jira fields requested for issue and sprint queries.
var issueFields = []string{"summary", "status", "assignee", "priority"}

// devPanelApplication is the development tool whose pull requests are
// read from the development panel.
const devPanelApplication = "GitHub"

// Adapter exposes the read-only Jira lookups used by the status queries.
type Adapter struct {
	client           *Client
	baseURL          string
	sprintIssueLimit int
}

// NewAdapter creates a new Jira adapter.
func NewAdapter(
	baseURL string,
	tokens source.TokenSource,
	sprintIssueLimit int,
) *Adapter {
	if sprintIssueLimit < 1 {
		sprintIssueLimit = 100
	}
	return &Adapter{
		client:           NewClient(baseURL, tokens),
		baseURL:          strings.TrimRight(baseURL, "/"),
		sprintIssueLimit: sprintIssueLimit,
	}
}

// Type returns the source type identifier for Jira.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeJira
}

// ValidateConnection verifies credentials by calling GET /rest/api/2/myself.
// Returns the user's display name on success.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (string, error) {
	var me Myself
	if err := a.client.Get(ctx, "/rest/api/2/myself", &me); err != nil {
		return "", fmt.Errorf("validating Jira connection: %w", err)
	}
	return me.DisplayName, nil
}

// GetIssue fetches a single issue by key. A 404 becomes a
// *source.NotFoundError naming the issue.
func (a *Adapter) GetIssue(ctx context.Context, key string) (*Issue, error) {
	path := fmt.Sprintf(
		"/rest/api/2/issue/%s?fields=%s",
		url.PathEscape(key), strings.Join(issueFields, ","),
	)

	var issue Issue
	if err := a.client.Get(ctx, path, &issue); err != nil {
		if source.StatusCode(err) == http.StatusNotFound {
			return nil, &source.NotFoundError{Entity: "issue", ID: key}
		}
		return nil, fmt.Errorf("fetching Jira issue %s: %w", key, err)
	}
	return &issue, nil
}

// GetDevPanel fetches the pull requests linked to an issue through the
// development panel. issueID is the numeric issue id, not the key.
func (a *Adapter) GetDevPanel(ctx context.Context, issueID string) (*DevPanel, error) {
	q := url.Values{}
	q.Set("issueId", issueID)
	q.Set("applicationType", devPanelApplication)
	q.Set("dataType", "pullrequest")

	var panel DevPanel
	path := "/rest/dev-status/1.0/issue/detail?" + q.Encode()
	if err := a.client.Get(ctx, path, &panel); err != nil {
		return nil, fmt.Errorf("fetching development panel for %s: %w", issueID, err)
	}
	return &panel, nil
}

// GetBoards lists the agile boards associated with a project.
func (a *Adapter) GetBoards(ctx context.Context, projectKey string) ([]Board, error) {
	q := url.Values{}
	q.Set("projectKeyOrId", projectKey)

	var page BoardPage
	if err := a.client.Get(ctx, "/rest/agile/1.0/board?"+q.Encode(), &page); err != nil {
		if source.StatusCode(err) == http.StatusNotFound {
			return nil, &source.NotFoundError{Entity: "project", ID: projectKey}
		}
		return nil, fmt.Errorf("fetching boards for %s: %w", projectKey, err)
	}
	return page.Values, nil
}

// GetActiveSprints lists the sprints in the active state on a board. The
// list is empty when nothing is running.
func (a *Adapter) GetActiveSprints(ctx context.Context, boardID int) ([]Sprint, error) {
	path := fmt.Sprintf("/rest/agile/1.0/board/%d/sprint?state=active", boardID)

	var page SprintPage
	if err := a.client.Get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("fetching active sprints for board %d: %w", boardID, err)
	}
	return page.Values, nil
}

// GetSprintIssues lists up to the configured limit of issues in a sprint.
func (a *Adapter) GetSprintIssues(ctx context.Context, sprintID int) ([]Issue, error) {
	q := url.Values{}
	q.Set("fields", strings.Join(issueFields, ","))
	q.Set("maxResults", fmt.Sprintf("%d", a.sprintIssueLimit))

	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue?%s", sprintID, q.Encode())

	var resp SprintIssuesResponse
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching issues for sprint %d: %w", sprintID, err)
	}
	return resp.Issues, nil
}

// BrowseURL returns the web link for an issue key, or "" when no base
// URL is configured.
func (a *Adapter) BrowseURL(key string) string {
	if a.baseURL == "" {
		return ""
	}
	return a.baseURL + "/browse/" + key
}

// ParseTime parses a Jira timestamp. Jira Server uses
// "2006-01-02T15:04:05.000-0700" while the agile API returns RFC 3339.
// The zero time is returned for empty or unrecognized input.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
