package store

import (
	"context"
	"time"

	"github.com/nhle/workstatus/internal/model"
)

// Journal is the diagnostics log written by the status service. It
// records what was asked and how it went, never the answers.
type Journal interface {
	RecordQuery(ctx context.Context, rec model.QueryRecord) error
	RecordSoftFailure(ctx context.Context, rec model.SoftFailureRecord) error
	RecentQueries(ctx context.Context, limit int) ([]model.QueryRecord, error)
	RecentSoftFailures(ctx context.Context, limit int) ([]model.SoftFailureRecord, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
