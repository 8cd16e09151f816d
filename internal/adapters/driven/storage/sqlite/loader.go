package sqlite

import (
	"context"
	"fmt"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// LoadStats reports what a corpus load actually touched. Reloading an
// unchanged corpus leaves every counter except Laws at zero.
type LoadStats struct {
	// Laws is the number of distinct laws seen in the corpus.
	Laws int

	// Changed is how many of them were new or had a changed hash.
	Changed int

	// Queued is the number of embedding queue entries created.
	Queued int
}

// LoadCorpus ingests merged corpus files into the relational schema.
// Grouping is by source_url; document record order within a law is
// preserved as article position. Each law loads in its own
// transaction and the whole operation is idempotent: unchanged laws
// are hash-matched no-ops and chunk/queue inserts ignore conflicts.
func (s *Store) LoadCorpus(ctx context.Context, docs []driven.DocumentRecord, chunks []driven.ChunkRecord) (*LoadStats, error) {
	laws := groupLaws(docs)
	chunksBySeq := make(map[string][]domain.Chunk)
	for _, c := range chunks {
		chunksBySeq[c.LsiSeq] = append(chunksBySeq[c.LsiSeq], domain.Chunk{
			LsiSeq:      c.LsiSeq,
			ArtNo:       c.ArtNo,
			ArticleHash: c.ArticleHash,
			ChunkNo:     c.ChunkNo,
			Text:        c.Text,
			ContentHash: c.ContentHash,
		})
	}

	stats := &LoadStats{Laws: len(laws)}
	for _, law := range laws {
		changed, queued, err := s.loadLaw(ctx, law, chunksBySeq[law.LsiSeq])
		if err != nil {
			return stats, err
		}
		if changed {
			stats.Changed++
		}
		stats.Queued += queued
	}

	return stats, nil
}

// loadLaw runs one law's upsert, chunk inserts and queue inserts in a
// single transaction. An interrupted load therefore never strands a
// law row without its articles or chunks; the law lands whole or not
// at all. Chunk inserts run even for unchanged laws, with conflicts
// ignored, so a load cut short between laws completes on the next
// run.
func (s *Store) loadLaw(ctx context.Context, law domain.Law, chunks []domain.Chunk) (bool, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id, changed, err := upsertLaw(ctx, tx, law)
	if err != nil {
		return false, 0, err
	}
	queued, err := insertChunks(ctx, tx, id, chunks)
	if err != nil {
		return false, 0, err
	}
	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("committing transaction: %w", err)
	}
	return changed, queued, nil
}

// groupLaws folds document records (one per article) back into laws,
// keeping corpus order for both laws and articles.
func groupLaws(docs []driven.DocumentRecord) []domain.Law {
	index := make(map[string]int)
	var laws []domain.Law

	for _, d := range docs {
		i, ok := index[d.SourceURL]
		if !ok {
			i = len(laws)
			index[d.SourceURL] = i
			laws = append(laws, domain.Law{
				LsiSeq:      d.LsiSeq,
				SourceURL:   d.SourceURL,
				Title:       d.TitleLine,
				Department:  d.Department,
				ContentHash: d.DocHash,
				FetchedAt:   parseTime(d.FetchedAt),
			})
		}
		laws[i].Articles = append(laws[i].Articles, domain.Article{
			ArtNo:       d.ArtNo,
			Heading:     d.Heading,
			Body:        d.Body,
			ContentHash: d.ArticleHash,
			Chapter:     d.Chapter,
		})
	}

	return laws
}
