package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nhle/workstatus/internal/source"
)

// maxPerPage is the largest page GitHub serves for list endpoints.
const maxPerPage = 100

// Adapter exposes the read-only GitHub lookups used by the status queries.
type Adapter struct {
	client  *Client
	baseURL string
}

// NewAdapter creates a new GitHub adapter for the given API root.
func NewAdapter(baseURL string, tokens source.TokenSource) *Adapter {
	return &Adapter{
		client:  NewClient(baseURL, tokens),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Type returns the source type identifier for GitHub.
func (a *Adapter) Type() source.SourceType {
	return source.SourceTypeGitHub
}

// APIURL returns the API root this adapter talks to.
func (a *Adapter) APIURL() string {
	return a.baseURL
}

// ValidateConnection verifies credentials by calling GET /user.
// Returns the login on success.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	var me User
	if err := a.client.Get(ctx, "/user", &me); err != nil {
		return "", fmt.Errorf("validating GitHub connection: %w", err)
	}
	return me.Login, nil
}

// GetPullRequest fetches pull request metadata. repo is "owner/name".
func (a *Adapter) GetPullRequest(
	ctx context.Context,
	repo string,
	number int,
) (*PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d", repo, number)

	var pr PullRequest
	if err := a.client.Get(ctx, path, &pr); err != nil {
		if source.StatusCode(err) == http.StatusNotFound {
			return nil, &source.NotFoundError{
				Entity: "pull request",
				ID:     fmt.Sprintf("%s#%d", repo, number),
			}
		}
		return nil, fmt.Errorf("fetching pull request %s#%d: %w", repo, number, err)
	}
	return &pr, nil
}

// GetReviews lists the reviews submitted on a pull request, in the order
// GitHub returns them (oldest first).
func (a *Adapter) GetReviews(
	ctx context.Context,
	repo string,
	number int,
) ([]Review, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d/reviews?per_page=%d", repo, number, maxPerPage)

	var reviews []Review
	if err := a.client.Get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("fetching reviews for %s#%d: %w", repo, number, err)
	}
	return reviews, nil
}

// GetCheckRuns lists the check runs reported for a commit.
func (a *Adapter) GetCheckRuns(
	ctx context.Context,
	repo string,
	sha string,
) ([]CheckRun, error) {
	path := fmt.Sprintf("/repos/%s/commits/%s/check-runs?per_page=%d", repo, sha, maxPerPage)

	var list CheckRunList
	if err := a.client.Get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("fetching check runs for %s@%s: %w", repo, shortSHA(sha), err)
	}
	return list.CheckRuns, nil
}

// SearchPullRequests runs an issue search and returns at most limit hits.
// The query is passed through unchanged, so callers add "is:pr".
func (a *Adapter) SearchPullRequests(
	ctx context.Context,
	query string,
	limit int,
) ([]SearchItem, error) {
	if limit < 1 || limit > maxPerPage {
		limit = maxPerPage
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", fmt.Sprintf("%d", limit))

	var resp SearchResponse
	if err := a.client.Get(ctx, "/search/issues?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searching pull requests: %w", err)
	}

	items := resp.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
