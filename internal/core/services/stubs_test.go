package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// fetchFunc adapts a function to the fetcher port.
type fetchFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetchFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// memManifest collects manifest rows in memory.
type memManifest struct {
	entries []domain.ManifestEntry
	closed  bool
}

func (m *memManifest) Append(e domain.ManifestEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memManifest) Close() error {
	m.closed = true
	return nil
}

// memManifestStore keeps manifests keyed by path.
type memManifestStore struct {
	mu    sync.Mutex
	files map[string]*memManifest
}

func newMemManifestStore() *memManifestStore {
	return &memManifestStore{files: make(map[string]*memManifest)}
}

func (s *memManifestStore) Open(path string) (driven.ManifestWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &memManifest{}
	s.files[path] = m
	return m, nil
}

func (s *memManifestStore) ForEach(path string, fn func(domain.ManifestEntry) error) (int, error) {
	s.mu.Lock()
	m, ok := s.files[path]
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("no manifest at %s", path)
	}
	for _, e := range m.entries {
		if err := fn(e); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// shardWrite records one WriteShards call.
type shardWrite struct {
	docs   []driven.DocumentRecord
	chunks []driven.ChunkRecord
}

// memShards records shard writes and merges.
type memShards struct {
	mu        sync.Mutex
	writes    map[string]shardWrite
	merges    int
	failWrite error
	failMerge error
}

func newMemShards() *memShards {
	return &memShards{writes: make(map[string]shardWrite)}
}

func (s *memShards) WriteShards(name string, docs []driven.DocumentRecord, chunks []driven.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.writes[name] = shardWrite{docs: docs, chunks: chunks}
	return nil
}

func (s *memShards) Merge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMerge != nil {
		return s.failMerge
	}
	s.merges++
	return nil
}

func (s *memShards) write(name string) (shardWrite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.writes[name]
	return w, ok
}

func (s *memShards) mergeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merges
}
