package ports

import (
	"context"

	"revkit/domain/triangle"
)

// BundleWriter persists one processed dataset: the revisions triangle, the
// derived revision series and their summary statistics, with the observation
// period as a visible human-readable column. Returns the path written.
type BundleWriter interface {
	Write(ctx context.Context, bundle *triangle.Bundle, stats []triangle.SeriesStats, name string) (string, error)
}
