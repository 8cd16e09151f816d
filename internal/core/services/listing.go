package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/connectors/lawgokr"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// emptyPageGuard stops pagination after this many consecutive pages
// without a single parseable row, protecting against pager loops on
// malformed pages.
const emptyPageGuard = 2

// ListScraper paginates the statute listing and streams (detail URL,
// display name) rows into a manifest.
type ListScraper struct {
	fetcher driven.Fetcher
	log     *zap.Logger
}

// NewListScraper creates a list scraper.
func NewListScraper(fetcher driven.Fetcher, log *zap.Logger) *ListScraper {
	return &ListScraper{fetcher: fetcher, log: log}
}

// ListResult summarises a listing crawl.
type ListResult struct {
	// Entries is the number of manifest rows written.
	Entries int

	// Pages is the number of listing pages fetched.
	Pages int

	// SkippedRows counts malformed rows (missing URL or name).
	SkippedRows int
}

// Scrape walks the listing from page 1, writing one manifest row per
// statute as soon as it is parsed. maxPages of 0 means unbounded:
// pagination then stops at the pager-reported total, when a page
// yields zero new rows, or when the empty-page guard trips. Detail
// URLs are de-duplicated across pages.
func (s *ListScraper) Scrape(ctx context.Context, listURL string, maxPages int, out driven.ManifestWriter) (*ListResult, error) {
	res := &ListResult{}
	seen := make(map[string]struct{})
	totalPages := 0
	emptyStreak := 0

	for page := 1; ; page++ {
		if maxPages > 0 && page > maxPages {
			s.log.Info("page cap reached", zap.Int("max_pages", maxPages))
			break
		}
		if totalPages > 0 && page > totalPages {
			s.log.Info("end of listing", zap.Int("total_pages", totalPages))
			break
		}

		pageURL := lawgokr.PageURL(listURL, page)
		body, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			return res, fmt.Errorf("listing page %d: %w", page, err)
		}

		rows, total, err := lawgokr.ParseListPage(body)
		if err != nil {
			return res, fmt.Errorf("listing page %d: %w", page, err)
		}
		res.Pages++
		if totalPages == 0 {
			// Pager total from the first page; a missing pager parses
			// as 1 and ends the walk after this page.
			totalPages = total
			s.log.Info("detected listing size", zap.Int("total_pages", total))
		}

		if len(rows) == 0 {
			emptyStreak++
			s.log.Warn("listing page has no rows",
				zap.Int("page", page), zap.Int("empty_streak", emptyStreak))
			if emptyStreak >= emptyPageGuard {
				break
			}
			continue
		}
		emptyStreak = 0

		newRows := 0
		for _, row := range rows {
			name := lawgokr.SanitizeName(row.Name)
			url := lawgokr.BuildDetailURL(row.OnClick)
			if name == "" || url == "" {
				res.SkippedRows++
				s.log.Warn("skipping malformed listing row",
					zap.Int("page", page), zap.String("name", row.Name))
				continue
			}
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}

			if err := out.Append(domain.ManifestEntry{URL: url, Name: name}); err != nil {
				return res, fmt.Errorf("writing manifest: %w", err)
			}
			res.Entries++
			newRows++
			s.log.Debug("found statute", zap.String("name", name), zap.String("url", url))
		}

		if newRows == 0 {
			// Every row was a duplicate: the pager is looping.
			s.log.Warn("no new rows on page, stopping", zap.Int("page", page))
			break
		}
	}

	s.log.Info("listing complete",
		zap.Int("entries", res.Entries),
		zap.Int("pages", res.Pages),
		zap.Int("skipped_rows", res.SkippedRows))
	return res, nil
}
