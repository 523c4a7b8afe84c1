package jira

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the issue fields requested by this service.
type IssueFields struct {
	Summary  string    `json:"summary"`
	Status   *Status   `json:"status"`
	Priority *Priority `json:"priority"`
	Assignee *User     `json:"assignee"`
}

// Status represents the status of a Jira issue.
type Status struct {
	Name           string         `json:"name"`
	ID             string         `json:"id"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

// StatusCategory is the broad category a status belongs to.
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Priority represents the priority level of a Jira issue.
type Priority struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// User represents a Jira user.
type User struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// DevPanel is the response from GET /rest/dev-status/1.0/issue/detail.
type DevPanel struct {
	Errors []DevPanelError  `json:"errors"`
	Detail []DevPanelDetail `json:"detail"`
}

// DevPanelError is an error reported by one development tool integration.
type DevPanelError struct {
	Error string `json:"error"`
}

// DevPanelDetail groups the artifacts reported by one integration.
type DevPanelDetail struct {
	PullRequests []DevPanelPullRequest `json:"pullRequests"`
}

// DevPanelPullRequest is a pull request linked to an issue. Both URL and
// Status may be missing.
type DevPanelPullRequest struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URL    *string `json:"url"`
	Status *string `json:"status"`
}

// BoardPage is a paginated list of agile boards.
type BoardPage struct {
	MaxResults int     `json:"maxResults"`
	StartAt    int     `json:"startAt"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

// Board is a Jira agile board.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SprintPage is a paginated list of sprints on a board.
type SprintPage struct {
	MaxResults int      `json:"maxResults"`
	StartAt    int      `json:"startAt"`
	IsLast     bool     `json:"isLast"`
	Values     []Sprint `json:"values"`
}

// Sprint is a Jira agile sprint. Dates are absent for future sprints.
type Sprint struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Goal      *string `json:"goal"`
	StartDate string  `json:"startDate,omitempty"`
	EndDate   string  `json:"endDate,omitempty"`
}

// SprintIssuesResponse is the response from GET /rest/agile/1.0/sprint/{id}/issue.
type SprintIssuesResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
