package service

// Operation names one collaborator call made by a status query.
type Operation string

const (
	OpFetchIssue         Operation = "fetchIssue"
	OpFetchLinkedPRPanel Operation = "fetchLinkedPRPanel"
	OpFetchBoards        Operation = "fetchBoardsForProject"
	OpFetchActiveSprints Operation = "fetchActiveSprints"
	OpFetchSprintIssues  Operation = "fetchSprintIssues"
	OpFetchPullRequest   Operation = "fetchPullRequest"
	OpFetchReviews       Operation = "fetchReviews"
	OpFetchCheckRuns     Operation = "fetchCheckRuns"
	OpSearchPullRequests Operation = "searchPullRequests"
)

// Policy says what a failed operation does to the query it belongs to.
type Policy int

const (
	// PolicyHard aborts the query and returns the error unchanged.
	PolicyHard Policy = iota

	// PolicySoft logs and journals the failure, and the query continues
	// with an empty result for that operation.
	PolicySoft
)

func (p Policy) String() string {
	if p == PolicySoft {
		return "soft"
	}
	return "hard"
}

// policies is the single table of failure handling for every
// collaborator operation.
var policies = map[Operation]Policy{
	OpFetchIssue:         PolicyHard,
	OpFetchLinkedPRPanel: PolicySoft,
	OpFetchBoards:        PolicyHard,
	OpFetchActiveSprints: PolicyHard,
	OpFetchSprintIssues:  PolicyHard,
	OpFetchPullRequest:   PolicyHard,
	OpFetchReviews:       PolicyHard,
	OpFetchCheckRuns:     PolicyHard,
	OpSearchPullRequests: PolicyHard,
}

// PolicyFor returns the failure policy of op. Unlisted operations are hard.
func PolicyFor(op Operation) Policy {
	if p, ok := policies[op]; ok {
		return p
	}
	return PolicyHard
}
