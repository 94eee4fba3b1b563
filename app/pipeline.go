package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"revkit/domain/core"
	"revkit/domain/sheetset"
	"revkit/domain/triangle"
	"revkit/internal"
	"revkit/ports"
)

// Pipeline runs the Load -> Clean -> Transform -> Save sequence for one
// indicator. The two core stages are pure; everything touching the outside
// world sits behind the injected ports.
type Pipeline struct {
	writer  ports.BundleWriter
	archive ports.RunArchive // nil disables run recording
	logger  *internal.Logger
}

func NewPipeline(writer ports.BundleWriter, archive ports.RunArchive, logger *internal.Logger) *Pipeline {
	return &Pipeline{writer: writer, archive: archive, logger: logger.With("Pipeline")}
}

// DatasetResult is the outcome for one matched sheet.
type DatasetResult struct {
	Name    string
	Path    string
	Periods int
	Err     error
}

// RunReport summarizes one pipeline invocation.
type RunReport struct {
	Indicator string
	Release   ports.ReleaseInfo
	Status    string
	Datasets  []DatasetResult
}

// Run fetches the indicator's current release and processes every matching
// sheet. A malformed table fails that dataset only; sibling tables still get
// written. Only a load-level failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, ind Indicator, src ports.VintageSource) (*RunReport, error) {
	started := time.Now().UTC()
	report := &RunReport{Indicator: ind.Name}

	p.logger.Info("Loading the data for %s...", ind.Name)
	set, release, err := src.Fetch(ctx)
	if err != nil {
		p.record(ctx, ind, report, started, 0, err)
		return nil, fmt.Errorf("load failed for %s: %w", ind.Name, err)
	}
	report.Release = release

	tables := set.Select(ind.FileFilters, ind.SheetFilters)
	if len(tables) == 0 {
		p.logger.Warn("No sheets matched filters for %s", ind.Name)
	}

	totalPeriods := 0
	for _, raw := range tables {
		result := p.processTable(ctx, ind, raw, datasetName(raw, tables))
		if result.Err != nil {
			p.logger.Error("Dataset %s failed: %v", result.Name, result.Err)
		} else {
			totalPeriods += result.Periods
		}
		report.Datasets = append(report.Datasets, result)
	}

	report.Status = runStatus(report.Datasets)
	p.record(ctx, ind, report, started, totalPeriods, nil)
	return report, nil
}

// processTable runs Clean -> Transform -> Save for one raw sheet.
func (p *Pipeline) processTable(ctx context.Context, ind Indicator, raw sheetset.RawTable, name string) DatasetResult {
	result := DatasetResult{Name: name}

	p.logger.Info("Cleaning the data from %s / %s...", raw.File, raw.Sheet)
	tri, err := triangle.Normalize(raw, ind.Layout)
	if err != nil {
		result.Err = err
		return result
	}

	p.logger.Info("Transforming the data...")
	bundle := triangle.Derive(tri, triangle.DefaultHorizons)
	bundle.Name = name
	stats := triangle.Summarize(bundle)

	p.logger.Info("Saving the data...")
	path, err := p.writer.Write(ctx, bundle, stats, name)
	if err != nil {
		result.Err = err
		return result
	}

	result.Path = path
	result.Periods = tri.Len()
	return result
}

func (p *Pipeline) record(ctx context.Context, ind Indicator, report *RunReport, started time.Time, periods int, loadErr error) {
	if p.archive == nil {
		return
	}

	rec := &ports.RunRecord{
		ID:         core.NewRunID(),
		Indicator:  ind.Name,
		Release:    report.Release.Label,
		Datasets:   len(report.Datasets),
		Periods:    periods,
		Status:     report.Status,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if loadErr != nil {
		rec.Status = ports.RunFailed
		rec.Error = loadErr.Error()
	}

	if err := p.archive.Record(ctx, rec); err != nil {
		// Recording is best-effort; the processed files are already on disk.
		p.logger.Warn("Failed to archive run for %s: %v", ind.Name, err)
	}
}

func runStatus(datasets []DatasetResult) string {
	failed := 0
	for _, d := range datasets {
		if d.Err != nil {
			failed++
		}
	}
	switch {
	case len(datasets) > 0 && failed == len(datasets):
		return ports.RunFailed
	case failed > 0:
		return ports.RunPartial
	default:
		return ports.RunSucceeded
	}
}

// datasetName derives the output file stem for a matched sheet. The sheet
// name is appended only when one workbook contributed several tables, so the
// common case keeps the original filename list naming.
func datasetName(raw sheetset.RawTable, all []sheetset.RawTable) string {
	stem := strings.TrimSuffix(raw.File, filepath.Ext(raw.File))
	sameFile := 0
	for _, t := range all {
		if t.File == raw.File {
			sameFile++
		}
	}
	if sameFile > 1 {
		return stem + " - " + raw.Sheet
	}
	return stem
}
