package model

// LinkedPR is a pull request reference found on an issue's development
// panel. It carries no identity beyond the URL it was parsed from.
type LinkedPR struct {
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	State  string `json:"state"`
}

// Issue is the read-only projection of a tracker issue returned for an
// issue status query.
type Issue struct {
	Key       string     `json:"key"`
	Summary   string     `json:"summary"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority,omitempty"`
	Assignee  *string    `json:"assignee"`
	LinkedPRs []LinkedPR `json:"linkedPRs"`
	URL       string     `json:"url,omitempty"`
}
