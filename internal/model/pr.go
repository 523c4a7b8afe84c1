package model

import "time"

// Code review verdicts that place a reviewer in a ReviewSummary list.
// Other states (COMMENTED, DISMISSED) are carried through as text.
const (
	ReviewApproved         = "APPROVED"
	ReviewChangesRequested = "CHANGES_REQUESTED"
)

// Check run status and conclusion values.
const (
	CheckStatusCompleted   = "completed"
	CheckConclusionSuccess = "success"
)

// Review is a single code review event. A reviewer may submit many.
type Review struct {
	Reviewer    string
	State       string
	SubmittedAt time.Time
}

// ReviewVerdict is the latest review state for one reviewer.
type ReviewVerdict struct {
	Reviewer    string    `json:"reviewer"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ReviewSummary partitions reviewers by their latest verdict. Reviewers
// whose latest review is neither an approval nor a change request are
// in neither list.
type ReviewSummary struct {
	Approved         []string `json:"approved"`
	ChangesRequested []string `json:"changesRequested"`
}

// CheckRun is a single CI job result for a commit. Conclusion is empty
// until the run completes.
type CheckRun struct {
	Name       string
	Status     string
	Conclusion string
}

// CheckSummary rolls up the check runs of a commit.
//
// A run that is not completed but already carries a non-success
// conclusion is counted in both Failed and Pending, so Total may be less
// than Passed+Failed+Pending.
type CheckSummary struct {
	Total       int      `json:"total"`
	Passed      int      `json:"passed"`
	Failed      int      `json:"failed"`
	Pending     int      `json:"pending"`
	FailedNames []string `json:"failedNames"`
}

// PRStatus is the aggregated status record for one pull request.
type PRStatus struct {
	Repo           string        `json:"repo"`
	Number         int           `json:"number"`
	Title          string        `json:"title"`
	Author         string        `json:"author"`
	State          string        `json:"state"`
	Draft          bool          `json:"draft"`
	Mergeable      *bool         `json:"mergeable"`
	MergeableState string        `json:"mergeableState,omitempty"`
	MergeConflict  bool          `json:"mergeConflict"`
	Additions      int           `json:"additions"`
	Deletions      int           `json:"deletions"`
	ChangedFiles   int           `json:"changedFiles"`
	Reviews        ReviewSummary `json:"reviews"`
	Checks         CheckSummary  `json:"checks"`
	IssueKeys      []string      `json:"issueKeys,omitempty"`
	URL            string        `json:"url,omitempty"`
}

// SearchHit is one normalized pull request search result.
type SearchHit struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Repo   string `json:"repo"`
	State  string `json:"state"`
}
