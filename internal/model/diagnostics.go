package model

import "time"

// Query outcomes recorded in the diagnostics journal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// QueryRecord is one journaled status query. Only the outcome is kept,
// never the response.
type QueryRecord struct {
	ID         string    `json:"id" db:"id"`
	Kind       string    `json:"kind" db:"kind"`
	Target     string    `json:"target" db:"target"`
	Outcome    string    `json:"outcome" db:"outcome"`
	Error      string    `json:"error,omitempty" db:"error"`
	DurationMs int64     `json:"durationMs" db:"duration_ms"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SoftFailureRecord is a best-effort lookup that failed and was degraded
// to an empty result.
type SoftFailureRecord struct {
	ID        string    `json:"id" db:"id"`
	Operation string    `json:"operation" db:"operation"`
	Target    string    `json:"target" db:"target"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
