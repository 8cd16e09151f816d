package services

import (
	"context"
	"sync"
	"time"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// ScheduleDetail runs the detail phase over the manifest entries
// according to the execution strategy. Sequential mode (the default)
// pauses Delay between statutes to respect the portal's rate limits;
// the bounded pool caps in-flight scrapes instead. Per-statute shard
// files are keyed by statute name, so workers never share output
// state and need no locking.
func ScheduleDetail(ctx context.Context, scraper *DetailScraper, entries []domain.ManifestEntry, strategy domain.ExecStrategy) []domain.ItemResult {
	if strategy.Workers <= 1 {
		results := make([]domain.ItemResult, 0, len(entries))
		for i, entry := range entries {
			if ctx.Err() != nil {
				break
			}
			if i > 0 && strategy.Delay > 0 {
				select {
				case <-ctx.Done():
					return results
				case <-time.After(strategy.Delay):
				}
			}
			results = append(results, scraper.ScrapeOne(ctx, entry))
		}
		return results
	}

	jobs := make(chan domain.ManifestEntry)
	results := make([]domain.ItemResult, 0, len(entries))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < strategy.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				res := scraper.ScrapeOne(ctx, entry)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		jobs <- entry
	}
	close(jobs)
	wg.Wait()

	return results
}
