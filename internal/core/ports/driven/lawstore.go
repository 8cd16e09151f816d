package driven

import (
	"context"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// LawStore is the relational sink. Its uniqueness constraints
// (source_url, (law, art_no), (article, chunk_no)) are the
// authoritative dedup boundary; content hashes let the loader detect
// "nothing changed" without re-diffing full text.
type LawStore interface {
	// UpsertLaw stores a law with its articles. An identical content
	// hash is a no-op; a changed hash updates the row, cascades
	// deletion of the old articles and chunks, and returns the new
	// law id with changed=true.
	UpsertLaw(ctx context.Context, law domain.Law) (id int64, changed bool, err error)

	// InsertChunks stores chunks for a law and enqueues one embedding
	// queue entry per stored chunk. Conflicting (article, chunk_no)
	// rows and already-queued chunks are ignored, keeping re-ingestion
	// idempotent.
	InsertChunks(ctx context.Context, lawID int64, chunks []domain.Chunk) (queued int, err error)

	Close() error
}
