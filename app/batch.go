package app

import (
	"context"
	"sync"

	"revkit/domain/core"
	"revkit/ports"

	"golang.org/x/sync/errgroup"
)

// SourceFactory builds the fetch collaborator for one indicator.
type SourceFactory func(Indicator) ports.VintageSource

// RunAll fans the pipeline out across indicators. Each indicator is
// independent (the core stages are pure functions over their inputs), so runs
// execute concurrently; one indicator failing never aborts the others.
func (p *Pipeline) RunAll(ctx context.Context, indicators []Indicator, sources SourceFactory) []*RunReport {
	reports := make([]*RunReport, len(indicators))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, ind := range indicators {
		i, ind := i, ind
		g.Go(func() error {
			report, err := p.Run(ctx, ind, sources(ind))
			if err != nil {
				if core.IsFetchError(err) {
					// The publisher being down is routine; the next run retries.
					p.logger.Warn("Indicator %s unavailable: %v", ind.Name, err)
				} else {
					p.logger.Error("Indicator %s failed: %v", ind.Name, err)
				}
				report = &RunReport{Indicator: ind.Name, Status: ports.RunFailed}
			}
			mu.Lock()
			reports[i] = report
			mu.Unlock()
			return nil
		})
	}

	// Goroutines only ever return nil; failures live in the reports.
	_ = g.Wait()
	return reports
}
