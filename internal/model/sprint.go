package model

// SprintIssue is the compact per-issue row listed under a sprint.
type SprintIssue struct {
	Key      string  `json:"key"`
	Summary  string  `json:"summary"`
	Status   string  `json:"status"`
	Assignee *string `json:"assignee"`
}

// Sprint is the status record for a project's active sprint.
//
// Name is nil when the board has no active sprint; Message then explains
// why. DaysRemaining is nil when the sprint has no end date, which keeps
// "unknown" apart from "due today" (zero).
type Sprint struct {
	Name          *string       `json:"name"`
	Goal          *string       `json:"goal,omitempty"`
	Message       string        `json:"message,omitempty"`
	DaysRemaining *int          `json:"daysRemaining,omitempty"`
	Issues        []SprintIssue `json:"issues"`
}

// NoActiveSprint returns the terminal outcome for a board without an
// active sprint.
func NoActiveSprint() Sprint {
	return Sprint{
		Message: NoActiveSprintMessage,
		Issues:  []SprintIssue{},
	}
}
