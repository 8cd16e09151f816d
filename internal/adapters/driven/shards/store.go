package shards

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// Corpus file names produced by Merge.
const (
	AllDocumentsFile = "all_documents.jsonl"
	AllChunksFile    = "all_chunks.jsonl"

	documentSuffix = "_document.jsonl"
	chunkSuffix    = "_chunks.jsonl"
)

// Ensure Store implements the port.
var _ driven.ShardStore = (*Store)(nil)

// Store writes per-statute shards under shardDir and merged corpus
// files under corpusDir.
type Store struct {
	shardDir  string
	corpusDir string
}

// NewStore creates a shard store rooted at the given directories.
func NewStore(shardDir, corpusDir string) (*Store, error) {
	for _, dir := range []string{shardDir, corpusDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating shard directory: %w", err)
		}
	}
	return &Store{shardDir: shardDir, corpusDir: corpusDir}, nil
}

// ShardDir returns the per-statute shard directory.
func (s *Store) ShardDir() string { return s.shardDir }

// CorpusDir returns the merged corpus directory.
func (s *Store) CorpusDir() string { return s.corpusDir }

// WriteShards writes both shard files for one statute. Each file is
// written to a temp file and renamed into place, so a failed scrape
// never leaves a partial shard.
func (s *Store) WriteShards(name string, docs []driven.DocumentRecord, chunks []driven.ChunkRecord) error {
	docLines := make([]any, len(docs))
	for i, d := range docs {
		docLines[i] = d
	}
	if err := s.writeAtomic(name+documentSuffix, docLines); err != nil {
		return err
	}

	chunkLines := make([]any, len(chunks))
	for i, c := range chunks {
		chunkLines[i] = c
	}
	return s.writeAtomic(name+chunkSuffix, chunkLines)
}

func (s *Store) writeAtomic(filename string, lines []any) error {
	tmp, err := os.CreateTemp(s.shardDir, filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp shard: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, rec := range lines {
		line, merr := json.Marshal(rec)
		if merr != nil {
			tmp.Close()
			return fmt.Errorf("marshalling shard line: %w", merr)
		}
		if _, werr := w.Write(append(line, '\n')); werr != nil {
			tmp.Close()
			return fmt.Errorf("writing shard line: %w", werr)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing shard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing shard: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(s.shardDir, filename))
}

// Merge concatenates all document shards into all_documents.jsonl and
// all chunk shards into all_chunks.jsonl, in sorted filesystem order.
// Output files are regenerated from scratch, never appended, so the
// merge is idempotent.
func (s *Store) Merge() error {
	if err := s.mergeSuffix(documentSuffix, AllDocumentsFile); err != nil {
		return err
	}
	return s.mergeSuffix(chunkSuffix, AllChunksFile)
}

func (s *Store) mergeSuffix(suffix, outName string) error {
	entries, err := os.ReadDir(s.shardDir)
	if err != nil {
		return fmt.Errorf("reading shard directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	tmp, err := os.CreateTemp(s.corpusDir, outName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating corpus temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, name := range names {
		if err := appendFile(w, filepath.Join(s.shardDir, name)); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing corpus file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing corpus file: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(s.corpusDir, outName))
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening shard %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copying shard %s: %w", path, err)
	}
	return nil
}
