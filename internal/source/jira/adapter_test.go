package jira

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workstatus/internal/source"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(srv.URL, source.StaticToken("pat-123"), 25)
}

func TestGetIssue(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PROJ-1", r.URL.Path)
		assert.Equal(t, "summary,status,assignee,priority", r.URL.Query().Get("fields"))
		assert.Equal(t, "Bearer pat-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "10001",
			"key": "PROJ-1",
			"fields": {
				"summary": "Login fails",
				"status": {"name": "In Progress"},
				"priority": {"name": "High"},
				"assignee": {"name": "jdoe", "displayName": "Jane Doe"}
			}
		}`))
	})

	issue, err := a.GetIssue(context.Background(), "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "10001", issue.ID)
	assert.Equal(t, "Login fails", issue.Fields.Summary)
	require.NotNil(t, issue.Fields.Status)
	assert.Equal(t, "In Progress", issue.Fields.Status.Name)
	require.NotNil(t, issue.Fields.Assignee)
	assert.Equal(t, "Jane Doe", issue.Fields.Assignee.DisplayName)
}

func TestGetIssue_NotFound(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"],"errors":{}}`))
	})

	_, err := a.GetIssue(context.Background(), "PROJ-404")
	require.Error(t, err)
	assert.True(t, source.IsNotFound(err))
	assert.Equal(t, "issue PROJ-404 not found", err.Error())
}

func TestGetIssue_Unauthorized(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := a.GetIssue(context.Background(), "PROJ-1")
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))
	assert.Equal(t, http.StatusUnauthorized, source.StatusCode(err))
}

func TestGetIssue_ServerErrorUsesJiraMessages(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorMessages":["database unavailable"]}`))
	})

	_, err := a.GetIssue(context.Background(), "PROJ-1")
	require.Error(t, err)

	var te *source.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, source.SourceTypeJira, te.Source)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "database unavailable", te.Body)
	assert.False(t, source.IsAuthError(err))
}

func TestGetIssue_MissingToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)
	a := NewAdapter(srv.URL, source.StaticToken(""), 0)

	_, err := a.GetIssue(context.Background(), "PROJ-1")
	assert.True(t, source.IsConfigError(err))
	assert.Zero(t, calls.Load())
}

func TestGetIssue_MissingBaseURL(t *testing.T) {
	a := NewAdapter("", source.StaticToken("pat"), 0)

	_, err := a.GetIssue(context.Background(), "PROJ-1")
	var cfgErr *source.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "jira.base_url", cfgErr.Key)
}

func TestClient_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"1","key":"PROJ-1","fields":{"summary":"ok"}}`))
	})

	issue, err := a.GetIssue(context.Background(), "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "ok", issue.Fields.Summary)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetDevPanel(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/dev-status/1.0/issue/detail", r.URL.Path)
		assert.Equal(t, "10001", r.URL.Query().Get("issueId"))
		assert.Equal(t, "GitHub", r.URL.Query().Get("applicationType"))
		assert.Equal(t, "pullrequest", r.URL.Query().Get("dataType"))

		_, _ = w.Write([]byte(`{
			"errors": [],
			"detail": [{
				"pullRequests": [
					{"id": "#42", "url": "https://github.com/acme/widgets/pull/42", "status": "OPEN"},
					{"id": "#43"}
				]
			}]
		}`))
	})

	panel, err := a.GetDevPanel(context.Background(), "10001")
	require.NoError(t, err)
	require.Len(t, panel.Detail, 1)
	prs := panel.Detail[0].PullRequests
	require.Len(t, prs, 2)
	require.NotNil(t, prs[0].URL)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42", *prs[0].URL)
	assert.Nil(t, prs[1].URL)
	assert.Nil(t, prs[1].Status)
}

func TestSprintLookups(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/agile/1.0/board":
			assert.Equal(t, "PROJ", r.URL.Query().Get("projectKeyOrId"))
			_, _ = w.Write([]byte(`{"values":[{"id":7,"name":"PROJ board","type":"scrum"}]}`))
		case "/rest/agile/1.0/board/7/sprint":
			assert.Equal(t, "active", r.URL.Query().Get("state"))
			_, _ = w.Write([]byte(`{"values":[{"id":31,"name":"Sprint 12","state":"active",` +
				`"goal":"Ship","endDate":"2024-03-12T00:00:00.000Z"}]}`))
		case "/rest/agile/1.0/sprint/31/issue":
			assert.Equal(t, "25", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(`{"issues":[{"key":"PROJ-1","fields":{"summary":"a"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	boards, err := a.GetBoards(ctx, "PROJ")
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, 7, boards[0].ID)

	sprints, err := a.GetActiveSprints(ctx, 7)
	require.NoError(t, err)
	require.Len(t, sprints, 1)
	assert.Equal(t, "Sprint 12", sprints[0].Name)
	require.NotNil(t, sprints[0].Goal)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), ParseTime(sprints[0].EndDate).UTC())

	issues, err := a.GetSprintIssues(ctx, 31)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "PROJ-1", issues[0].Key)
}

func TestGetBoards_UnknownProject(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := a.GetBoards(context.Background(), "NOPE")
	assert.True(t, source.IsNotFound(err))
}

func TestValidateConnection(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"jdoe","displayName":"Jane Doe","active":true}`))
	})

	name, err := a.ValidateConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

	assert.True(t, ParseTime("2024-03-12T09:30:00.000Z").Equal(want))
	assert.True(t, ParseTime("2024-03-12T11:30:00.000+0200").Equal(want))
	assert.True(t, ParseTime("2024-03-12T09:30:00Z").Equal(want))
	assert.True(t, ParseTime("").IsZero())
	assert.True(t, ParseTime("next tuesday").IsZero())
}

func TestBrowseURL(t *testing.T) {
	a := NewAdapter("https://jira.example.com/", source.StaticToken("x"), 0)
	assert.Equal(t, "https://jira.example.com/browse/PROJ-1", a.BrowseURL("PROJ-1"))

	unset := NewAdapter("", source.StaticToken("x"), 0)
	assert.Empty(t, unset.BrowseURL("PROJ-1"))
}
