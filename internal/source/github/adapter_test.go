package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workstatus/internal/source"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(srv.URL, source.StaticToken("ghp_test"))
}

func TestGetPullRequest(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, apiVersion, r.Header.Get("X-GitHub-Api-Version"))

		_, _ = w.Write([]byte(`{
			"number": 42,
			"title": "Fix totals",
			"state": "open",
			"draft": true,
			"mergeable": null,
			"mergeable_state": "unknown",
			"user": {"login": "carol"},
			"head": {"ref": "feature/PROJ-12", "sha": "abc123"},
			"additions": 10, "deletions": 2, "changed_files": 3
		}`))
	})

	pr, err := a.GetPullRequest(context.Background(), "acme/widgets", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, pr.Number)
	assert.True(t, pr.Draft)
	assert.Nil(t, pr.Mergeable)
	assert.Equal(t, "unknown", pr.MergeableState)
	assert.Equal(t, "abc123", pr.Head.SHA)
	assert.Equal(t, 3, pr.ChangedFiles)
}

func TestGetPullRequest_NotFound(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	_, err := a.GetPullRequest(context.Background(), "acme/widgets", 9)
	require.Error(t, err)
	assert.True(t, source.IsNotFound(err))
	assert.Equal(t, "pull request acme/widgets#9 not found", err.Error())
}

func TestGetReviews_Unauthorized(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := a.GetReviews(context.Background(), "acme/widgets", 42)
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))

	var te *source.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Bad credentials", te.Body)
}

func TestGetReviews(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42/reviews", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "user": {"login": "a"}, "state": "APPROVED", "submitted_at": "2024-01-01T00:00:00Z"},
			{"id": 2, "user": null, "state": "COMMENTED"}
		]`))
	})

	reviews, err := a.GetReviews(context.Background(), "acme/widgets", 42)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "a", reviews[0].User.Login)
	assert.Nil(t, reviews[1].User)
	assert.Empty(t, reviews[1].SubmittedAt)
}

func TestGetCheckRuns(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/commits/abc123/check-runs", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_count": 2, "check_runs": [
			{"id": 1, "name": "build", "status": "completed", "conclusion": "success"},
			{"id": 2, "name": "e2e", "status": "in_progress", "conclusion": null}
		]}`))
	})

	runs, err := a.GetCheckRuns(context.Background(), "acme/widgets", "abc123")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].Conclusion)
	assert.Equal(t, "success", *runs[0].Conclusion)
	assert.Nil(t, runs[1].Conclusion)
}

func TestSearchPullRequests(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, "checkout is:pr", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"total_count": 3, "items": [
			{"number": 1, "title": "a", "state": "open", "user": {"login": "x"},
			 "repository_url": "https://api.github.com/repos/acme/widgets"},
			{"number": 2, "title": "b", "state": "closed", "user": {"login": "y"},
			 "repository_url": "https://api.github.com/repos/acme/api"},
			{"number": 3, "title": "c", "state": "open", "user": {"login": "z"},
			 "repository_url": "https://api.github.com/repos/acme/api"}
		]}`))
	})

	items, err := a.SearchPullRequests(context.Background(), "checkout is:pr", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://api.github.com/repos/acme/api", items[1].RepositoryURL)
}

func TestClient_RetriesOnSecondaryRateLimit(t *testing.T) {
	var calls atomic.Int32
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"login": "carol"}`))
	})

	login, err := a.ValidateConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "carol", login)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_PlainForbiddenIsTransportError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Resource not accessible by integration"}`))
	})

	_, err := a.GetCheckRuns(context.Background(), "acme/widgets", "abc")
	assert.Equal(t, http.StatusForbidden, source.StatusCode(err))
	assert.False(t, source.IsAuthError(err))
}

func TestClient_MissingToken(t *testing.T) {
	a := NewAdapter("https://api.github.invalid", source.StaticToken(""))

	_, err := a.GetPullRequest(context.Background(), "acme/widgets", 1)
	assert.True(t, source.IsConfigError(err))
}
