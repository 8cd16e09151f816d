package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// Merger produces the corpus-wide JSONL files from the per-statute
// shards. Merge failure is fatal to the run.
type Merger struct {
	shards driven.ShardStore
	log    *zap.Logger
}

// NewMerger creates a merger.
func NewMerger(shards driven.ShardStore, log *zap.Logger) *Merger {
	return &Merger{shards: shards, log: log}
}

// Merge regenerates all_documents.jsonl and all_chunks.jsonl.
func (m *Merger) Merge() error {
	m.log.Info("merging shards")
	if err := m.shards.Merge(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrShardMerge, err)
	}
	m.log.Info("merge complete")
	return nil
}
