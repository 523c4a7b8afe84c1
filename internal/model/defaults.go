package model

// Named fallbacks applied when upstream payloads leave a field out.
const (
	// UnknownPRState is the state of a linked pull request whose
	// development-panel entry carries no status.
	UnknownPRState = "unknown"

	// NoActiveSprintMessage is reported when a board has no active sprint.
	NoActiveSprintMessage = "No active sprint"

	// DefaultSearchLimit is the top-N cutoff for pull request search.
	DefaultSearchLimit = 10

	// DefaultSprintIssueLimit caps how many issues are read for a sprint.
	DefaultSprintIssueLimit = 100
)
