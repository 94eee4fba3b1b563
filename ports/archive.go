package ports

import (
	"context"
	"time"

	"revkit/domain/core"
)

// RunRecord is one pipeline invocation for one indicator.
type RunRecord struct {
	ID         core.RunID `db:"id"`
	Indicator  string     `db:"indicator"`
	Release    string     `db:"release_label"`
	Datasets   int        `db:"datasets"`
	Periods    int        `db:"periods"`
	Status     string     `db:"status"`
	Error      string     `db:"error_message"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt time.Time  `db:"finished_at"`
}

// Run statuses.
const (
	RunSucceeded = "succeeded"
	RunPartial   = "partial" // some tables failed, siblings still written
	RunFailed    = "failed"
)

// RunArchive records pipeline runs for audit. Optional: a nil archive
// disables recording without touching the pipeline.
type RunArchive interface {
	Record(ctx context.Context, rec *RunRecord) error
	Recent(ctx context.Context, indicator string, limit int) ([]*RunRecord, error)
}
