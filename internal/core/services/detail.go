package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/connectors/lawgokr"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
	"github.com/roeum-labs/lawcrawl/internal/normalisers/lawhtml"
	"github.com/roeum-labs/lawcrawl/internal/postprocessors/chunker"
)

// DetailScraper fetches one statute detail page, parses it into a
// structured law, chunks the article bodies and writes the statute's
// two shard files. Failures are per-item: the caller logs the result
// and moves on to the next manifest entry.
type DetailScraper struct {
	fetcher  driven.Fetcher
	shards   driven.ShardStore
	splitter *chunker.Splitter
	log      *zap.Logger
	now      func() time.Time
}

// NewDetailScraper creates a detail scraper.
func NewDetailScraper(fetcher driven.Fetcher, shards driven.ShardStore, splitter *chunker.Splitter, log *zap.Logger) *DetailScraper {
	return &DetailScraper{
		fetcher:  fetcher,
		shards:   shards,
		splitter: splitter,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the fetch timestamp source. Shard output is
// otherwise byte-stable across runs, which tests rely on.
func (s *DetailScraper) WithClock(now func() time.Time) *DetailScraper {
	s.now = now
	return s
}

// ScrapeOne processes a single manifest entry end to end.
func (s *DetailScraper) ScrapeOne(ctx context.Context, entry domain.ManifestEntry) domain.ItemResult {
	name := lawgokr.SanitizeName(entry.Name)
	if name == "" || entry.URL == "" {
		s.log.Warn("skipping malformed manifest entry", zap.String("name", entry.Name))
		return domain.ItemResult{Entry: entry, Outcome: domain.ResultSkip}
	}

	log := s.log.With(zap.String("statute", name))
	log.Info("scraping detail page", zap.String("url", entry.URL))

	page, err := s.fetcher.Get(ctx, entry.URL)
	if err != nil {
		log.Error("detail fetch failed", zap.Error(err))
		return domain.ItemResult{Entry: entry, Outcome: domain.ResultFail, Err: err}
	}

	parsed, err := lawhtml.Parse(page, entry.URL, s.now().UTC())
	if err != nil {
		log.Error("detail parse failed", zap.Error(err))
		return domain.ItemResult{Entry: entry, Outcome: domain.ResultFail, Err: err}
	}
	for _, artNo := range parsed.Conflicts {
		log.Warn("duplicate article number, later occurrence kept", zap.Int("art_no", artNo))
	}

	docs, chunks := s.buildRecords(parsed.Law)
	if err := s.shards.WriteShards(name, docs, chunks); err != nil {
		log.Error("writing shards failed", zap.Error(err))
		return domain.ItemResult{Entry: entry, Outcome: domain.ResultFail, Err: err}
	}

	log.Info("statute scraped",
		zap.Int("articles", len(docs)), zap.Int("chunks", len(chunks)))
	return domain.ItemResult{Entry: entry, Outcome: domain.ResultSuccess}
}

// buildRecords flattens a law into its shard line records: one
// document line per article block and one chunk line per split piece.
// An article with an empty body still gets its document line; it just
// contributes no chunks.
func (s *DetailScraper) buildRecords(law domain.Law) ([]driven.DocumentRecord, []driven.ChunkRecord) {
	fetchedAt := law.FetchedAt.Format(time.RFC3339)

	docs := make([]driven.DocumentRecord, 0, len(law.Articles))
	var chunks []driven.ChunkRecord

	for _, art := range law.Articles {
		docs = append(docs, driven.DocumentRecord{
			SourceURL:   law.SourceURL,
			LsiSeq:      law.LsiSeq,
			TitleLine:   law.Title,
			Department:  law.Department,
			DocHash:     law.ContentHash,
			FetchedAt:   fetchedAt,
			ArtNo:       art.ArtNo,
			Heading:     art.Heading,
			Body:        art.Body,
			ArticleHash: art.ContentHash,
			Chapter:     art.Chapter,
		})

		for i, text := range s.splitter.Split(art.Body) {
			chunks = append(chunks, driven.ChunkRecord{
				LsiSeq:      law.LsiSeq,
				ArtNo:       art.ArtNo,
				ArticleHash: art.ContentHash,
				ChunkNo:     i,
				Text:        text,
				ContentHash: domain.HashText(text),
			})
		}
	}

	return docs, chunks
}
