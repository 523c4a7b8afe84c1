package github

// PullRequest is the response from GET /repos/{owner}/{repo}/pulls/{number}.
type PullRequest struct {
	Number         int    `json:"number"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	State          string `json:"state"` // open, closed
	Draft          bool   `json:"draft"`
	Merged         bool   `json:"merged"`
	Mergeable      *bool  `json:"mergeable"` // null while GitHub computes it
	MergeableState string `json:"mergeable_state"`
	HTMLURL        string `json:"html_url"`
	User           User   `json:"user"`
	Head           Ref    `json:"head"`
	Base           Ref    `json:"base"`
	Additions      int    `json:"additions"`
	Deletions      int    `json:"deletions"`
	ChangedFiles   int    `json:"changed_files"`
}

// Ref is a branch reference on a pull request.
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// User is a GitHub account.
type User struct {
	Login string `json:"login"`
}

// Review is an entry from GET /repos/{owner}/{repo}/pulls/{number}/reviews.
// SubmittedAt is absent for pending reviews.
type Review struct {
	ID          int64  `json:"id"`
	User        *User  `json:"user"`
	State       string `json:"state"` // APPROVED, CHANGES_REQUESTED, COMMENTED, DISMISSED, PENDING
	SubmittedAt string `json:"submitted_at"`
}

// CheckRunList is the response from GET /repos/{owner}/{repo}/commits/{ref}/check-runs.
type CheckRunList struct {
	TotalCount int        `json:"total_count"`
	CheckRuns  []CheckRun `json:"check_runs"`
}

// CheckRun is a single CI job result.
type CheckRun struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"` // queued, in_progress, completed, waiting, requested, pending
	Conclusion *string `json:"conclusion"`
}

// SearchResponse is the response from GET /search/issues.
type SearchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []SearchItem `json:"items"`
}

// SearchItem is one search hit. Pull requests are returned as issues.
type SearchItem struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	State         string `json:"state"`
	User          User   `json:"user"`
	RepositoryURL string `json:"repository_url"`
	HTMLURL       string `json:"html_url"`
}

// ErrorResponse is the standard GitHub error body.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
