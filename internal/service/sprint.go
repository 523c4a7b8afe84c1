package service

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/source"
	"github.com/nhle/workstatus/internal/source/jira"
	"github.com/nhle/workstatus/internal/status"
)

// SprintStatus returns the active sprint of a project's first board.
//
// A project without any board is a NotFoundError. A board without an
// active sprint is a normal answer (model.NoActiveSprint).
func (s *Service) SprintStatus(ctx context.Context, projectKey string) (sprint *model.Sprint, err error) {
	projectKey = strings.ToUpper(strings.TrimSpace(projectKey))
	if projectKey == "" {
		return nil, invalid("project key is required")
	}

	defer func(started time.Time) {
		s.record(ctx, "sprint", projectKey, started, err)
	}(time.Now())

	boards, err := s.tracker.GetBoards(ctx, projectKey)
	if err = s.apply(ctx, OpFetchBoards, projectKey, err); err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, &source.NotFoundError{Entity: "board for project", ID: projectKey}
	}

	sprints, err := s.tracker.GetActiveSprints(ctx, boards[0].ID)
	if err = s.apply(ctx, OpFetchActiveSprints, projectKey, err); err != nil {
		return nil, err
	}
	if len(sprints) == 0 {
		none := model.NoActiveSprint()
		return &none, nil
	}
	active := sprints[0]

	issues, err := s.tracker.GetSprintIssues(ctx, active.ID)
	if err = s.apply(ctx, OpFetchSprintIssues, active.Name, err); err != nil {
		return nil, err
	}

	result := model.Sprint{
		Name:          &active.Name,
		Goal:          sprintGoal(active.Goal),
		DaysRemaining: status.DaysRemaining(sprintEnd(active), s.now()),
		Issues:        make([]model.SprintIssue, 0, len(issues)),
	}
	for _, raw := range issues {
		result.Issues = append(result.Issues, model.SprintIssue{
			Key:      raw.Key,
			Summary:  raw.Fields.Summary,
			Status:   statusName(raw.Fields.Status),
			Assignee: assigneeName(raw.Fields.Assignee),
		})
	}
	return &result, nil
}

// sprintEnd returns nil when the sprint has no usable end date.
func sprintEnd(sp jira.Sprint) *time.Time {
	end := jira.ParseTime(sp.EndDate)
	if end.IsZero() {
		return nil
	}
	return &end
}

func sprintGoal(goal *string) *string {
	if goal == nil || strings.TrimSpace(*goal) == "" {
		return nil
	}
	return goal
}
