package ports

import (
	"context"
	"time"

	"revkit/domain/sheetset"
)

// ReleaseInfo identifies the published snapshot a SheetSet came from.
type ReleaseInfo struct {
	Label     string // e.g. "Q1 2024"
	URL       string
	FetchedAt time.Time
}

// VintageSource yields the raw workbook sheets for one indicator's current
// release. Implementations own connectivity and archive-shape failures; the
// core only ever sees the SheetSet.
type VintageSource interface {
	Fetch(ctx context.Context) (*sheetset.SheetSet, ReleaseInfo, error)
}
