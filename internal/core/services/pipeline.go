package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// Pipeline runs the full crawl: validator gate, listing phase,
// detail phase, merge. The listing phase completes before any detail
// work begins; there is no overlap between the two.
type Pipeline struct {
	validator *Validator
	lister    *ListScraper
	detail    *DetailScraper
	merger    *Merger
	manifests driven.ManifestStore
	log       *zap.Logger
}

// NewPipeline wires the pipeline from its services.
func NewPipeline(
	validator *Validator,
	lister *ListScraper,
	detail *DetailScraper,
	merger *Merger,
	manifests driven.ManifestStore,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		validator: validator,
		lister:    lister,
		detail:    detail,
		merger:    merger,
		manifests: manifests,
		log:       log,
	}
}

// RunOptions parameterise one pipeline invocation.
type RunOptions struct {
	// ListURL is the statute listing page for the department.
	ListURL string

	// ManifestPath is where the listing phase writes its manifest.
	ManifestPath string

	// MaxPages caps the listing walk; 0 means unbounded.
	MaxPages int

	// Strategy schedules the detail phase. Zero value falls back to
	// sequential with no delay.
	Strategy domain.ExecStrategy
}

// RunSummary reports the outcome of a pipeline invocation.
type RunSummary struct {
	Entries   int
	Succeeded int
	Failed    int
	Skipped   int
}

// Run executes the pipeline. Gate failures (invalid listing URL,
// empty manifest, merge failure) return an error; per-item detail
// failures are counted in the summary and never abort the batch.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if err := p.validator.Validate(ctx, opts.ListURL); err != nil {
		return nil, err
	}

	writer, err := p.manifests.Open(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	listRes, err := p.lister.Scrape(ctx, opts.ListURL, opts.MaxPages, writer)
	if cerr := writer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	if listRes.Entries == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyManifest, opts.ManifestPath)
	}

	var entries []domain.ManifestEntry
	skipped, err := p.manifests.ForEach(opts.ManifestPath, func(e domain.ManifestEntry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Entries: len(entries), Skipped: skipped}
	results := ScheduleDetail(ctx, p.detail, entries, opts.Strategy)
	for _, r := range results {
		switch r.Outcome {
		case domain.ResultSuccess:
			summary.Succeeded++
		case domain.ResultSkip:
			summary.Skipped++
		case domain.ResultFail:
			summary.Failed++
		}
	}

	if err := p.merger.Merge(); err != nil {
		return summary, err
	}

	p.log.Info("pipeline complete",
		zap.Int("entries", summary.Entries),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}
