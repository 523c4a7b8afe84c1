package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workstatus/internal/actions"
	"github.com/nhle/workstatus/internal/logging"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source"
)

type stubQuerier struct {
	err       error
	gotRepo   string
	gotNumber int
	gotQuery  string
}

func (s *stubQuerier) IssueStatus(_ context.Context, key string) (*model.Issue, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Issue{
		Key:       key,
		Summary:   "Login fails",
		Status:    "In Progress",
		LinkedPRs: []model.LinkedPR{{Repo: "acme/widgets", Number: 42, State: "open"}},
	}, nil
}

func (s *stubQuerier) SprintStatus(_ context.Context, _ string) (*model.Sprint, error) {
	if s.err != nil {
		return nil, s.err
	}
	none := model.NoActiveSprint()
	return &none, nil
}

func (s *stubQuerier) PRStatus(_ context.Context, repo string, number int) (*model.PRStatus, error) {
	s.gotRepo, s.gotNumber = repo, number
	if s.err != nil {
		return nil, s.err
	}
	return &model.PRStatus{Repo: repo, Number: number, MergeConflict: true}, nil
}

func (s *stubQuerier) SearchPRs(_ context.Context, query string) ([]model.SearchHit, error) {
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return []model.SearchHit{{Number: 1, Repo: "acme/widgets"}}, nil
}

func newTestRouter(q *stubQuerier) http.Handler {
	return NewRouter(q, actions.NewRegistry(q), logging.Discard(), time.Second)
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorItem {
	t.Helper()

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	rec := serve(t, newTestRouter(&stubQuerier{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIssueRoute(t *testing.T) {
	rec := serve(t, newTestRouter(&stubQuerier{}), http.MethodGet, "/issues/PROJ-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"key": "PROJ-1",
		"summary": "Login fails",
		"status": "In Progress",
		"assignee": null,
		"linkedPRs": [{"repo": "acme/widgets", "number": 42, "state": "open"}]
	}`, rec.Body.String())
}

func TestSprintRoute_NoActiveSprint(t *testing.T) {
	rec := serve(t, newTestRouter(&stubQuerier{}), http.MethodGet, "/projects/PROJ/sprint", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name": null, "message": "No active sprint", "issues": []}`, rec.Body.String())
}

func TestPullRequestRoute(t *testing.T) {
	q := &stubQuerier{}
	rec := serve(t, newTestRouter(q), http.MethodGet, "/repos/acme/widgets/pulls/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme/widgets", q.gotRepo)
	assert.Equal(t, 42, q.gotNumber)
}

func TestPullRequestRoute_BadNumber(t *testing.T) {
	rec := serve(t, newTestRouter(&stubQuerier{}), http.MethodGet, "/repos/acme/widgets/pulls/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeBadRequest, decodeError(t, rec).Code)
}

func TestSearchRoute(t *testing.T) {
	q := &stubQuerier{}
	rec := serve(t, newTestRouter(q), http.MethodGet, "/search?q=checkout+bug", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "checkout bug", q.gotQuery)
}

func TestActions(t *testing.T) {
	h := newTestRouter(&stubQuerier{})

	rec := serve(t, h, http.MethodGet, "/actions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Actions []actions.Tool `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Actions, 4)

	rec = serve(t, h, http.MethodPost, "/actions/get_pr_status",
		`{"url":"https://github.com/acme/widgets/pull/42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mergeConflict":true`)

	rec = serve(t, h, http.MethodPost, "/actions/merge_pull_request", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeForbidden, decodeError(t, rec).Code)

	rec = serve(t, h, http.MethodPost, "/actions/get_weather", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeUnknownAction, decodeError(t, rec).Code)
}

func TestErrorMapping(t *testing.T) {
	transport := &source.TransportError{
		Source: source.SourceTypeJira, Method: "GET", Path: "/rest/api/2/issue/X", StatusCode: 500, Body: "boom",
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", &source.NotFoundError{Entity: "issue", ID: "PROJ-9"}, http.StatusNotFound, CodeNotFound},
		{"config", &source.ConfigError{Key: "jira-token", Remediation: "run login"}, http.StatusInternalServerError, CodeConfiguration},
		{"auth", &source.AuthError{SourceType: source.SourceTypeJira, Message: "401", Transport: transport}, http.StatusBadGateway, CodeUpstreamAuth},
		{"transport", transport, http.StatusBadGateway, CodeUpstream},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
		{"other", assert.AnError, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newTestRouter(&stubQuerier{err: tt.err}), http.MethodGet, "/issues/PROJ-9", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			item := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, item.Code)
			if tt.wantCode == CodeInternal {
				assert.Equal(t, "internal error", item.Message)
			} else {
				assert.Equal(t, tt.err.Error(), item.Message)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, decodeError(t, rec).Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline time.Time
	h := TimeoutMiddleware(time.Minute)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
	}))

	serve(t, h, http.MethodGet, "/", "")
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
