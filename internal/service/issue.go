package service

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source/jira"
	"github.com/nhle/workstatus/internal/status"
)

// IssueStatus returns an issue with the pull requests linked to it.
//
// The linked pull requests come from the development panel, which is a
// best-effort lookup: if it fails the issue is returned with no links.
func (s *Service) IssueStatus(ctx context.Context, key string) (issue *model.Issue, err error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, invalid("issue key is required")
	}

	defer func(started time.Time) {
		s.record(ctx, "issue", key, started, err)
	}(time.Now())

	raw, err := s.tracker.GetIssue(ctx, key)
	if err = s.apply(ctx, OpFetchIssue, key, err); err != nil {
		return nil, err
	}

	panel, err := s.tracker.GetDevPanel(ctx, raw.ID)
	if err = s.apply(ctx, OpFetchLinkedPRPanel, raw.ID, err); err != nil {
		return nil, err
	}

	result := projectIssue(*raw)
	result.URL = s.tracker.BrowseURL(raw.Key)
	result.LinkedPRs = status.ResolveLinkedPRs(panelRefs(panel))
	return &result, nil
}

// projectIssue maps a tracker issue onto the response record.
func projectIssue(raw jira.Issue) model.Issue {
	issue := model.Issue{
		Key:       raw.Key,
		Summary:   raw.Fields.Summary,
		Status:    statusName(raw.Fields.Status),
		Assignee:  assigneeName(raw.Fields.Assignee),
		LinkedPRs: []model.LinkedPR{},
	}
	if raw.Fields.Priority != nil {
		issue.Priority = raw.Fields.Priority.Name
	}
	return issue
}

// panelRefs flattens every detail group of a development panel. A nil
// panel (degraded lookup) has no references.
func panelRefs(panel *jira.DevPanel) []status.PanelPullRequest {
	if panel == nil {
		return nil
	}

	var refs []status.PanelPullRequest
	for _, d := range panel.Detail {
		for _, pr := range d.PullRequests {
			refs = append(refs, status.PanelPullRequest{
				URL:    pr.URL,
				Status: pr.Status,
			})
		}
	}
	return refs
}

func statusName(st *jira.Status) string {
	if st == nil {
		return ""
	}
	return st.Name
}

// assigneeName returns nil for unassigned issues.
func assigneeName(u *jira.User) *string {
	if u == nil {
		return nil
	}
	name := u.DisplayName
	if name == "" {
		name = u.Name
	}
	if name == "" {
		return nil
	}
	return &name
}
