package driven

import "github.com/roeum-labs/lawcrawl/internal/core/domain"

// DocumentRecord is one line of a document shard: law-level metadata
// merged with one article's fields. ArtNo is null for non-numbered
// structural blocks.
//
// FetchedAt is the one wall-clock field, so re-scraping unchanged
// content is hash-stable rather than byte-stable: every hash field
// repeats exactly, fetched_at moves. Downstream consumers compare
// hashes, never bytes.
type DocumentRecord struct {
	SourceURL   string `json:"source_url"`
	LsiSeq      string `json:"lsi_seq"`
	TitleLine   string `json:"title_line"`
	Department  string `json:"department"`
	DocHash     string `json:"content_hash"`
	FetchedAt   string `json:"fetched_at"`
	ArtNo       *int   `json:"art_no"`
	Heading     string `json:"heading"`
	Body        string `json:"body"`
	ArticleHash string `json:"article_content_hash"`
	Chapter     string `json:"chapter,omitempty"`
}

// ChunkRecord is one line of a chunk shard. Identity is carried by
// the (lsi_seq, art_no, chunk_no) key, never by file position.
type ChunkRecord struct {
	LsiSeq      string `json:"lsi_seq"`
	ArtNo       *int   `json:"art_no"`
	ArticleHash string `json:"article_content_hash"`
	ChunkNo     int    `json:"chunk_no"`
	Text        string `json:"text"`
	ContentHash string `json:"content_hash"`
}

// ManifestWriter appends manifest rows as they are parsed, one JSON
// object per line, so listings with thousands of entries never sit
// fully in memory.
type ManifestWriter interface {
	Append(entry domain.ManifestEntry) error
	Close() error
}

// ManifestStore opens manifest files for writing and streams them
// back for the detail phase.
type ManifestStore interface {
	// Open creates (truncating) a manifest at path.
	Open(path string) (ManifestWriter, error)

	// ForEach streams the manifest at path, calling fn per well-formed
	// row. Malformed rows are skipped and counted.
	ForEach(path string, fn func(domain.ManifestEntry) error) (skipped int, err error)
}

// ShardStore persists per-statute shards and the merged corpus files.
type ShardStore interface {
	// WriteShards writes <name>_document.jsonl and <name>_chunks.jsonl
	// for one statute. The write is atomic per file: a failed scrape
	// leaves no partial shard behind.
	WriteShards(name string, docs []DocumentRecord, chunks []ChunkRecord) error

	// Merge concatenates every document shard into all_documents.jsonl
	// and every chunk shard into all_chunks.jsonl, truncating existing
	// corpus files first. Re-running it on unchanged shards reproduces
	// identical output.
	Merge() error
}
