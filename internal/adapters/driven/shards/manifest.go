package shards

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// maxLineBytes bounds a single manifest or shard line.
const maxLineBytes = 4 << 20

// Ensure the implementations satisfy the ports.
var (
	_ driven.ManifestWriter = (*ManifestWriter)(nil)
	_ driven.ManifestStore  = ManifestStore{}
)

// ManifestStore adapts the file functions to the driven port.
type ManifestStore struct{}

// Open creates (truncating) a manifest file at path.
func (ManifestStore) Open(path string) (driven.ManifestWriter, error) {
	return NewManifestWriter(path)
}

// ForEach streams the manifest at path.
func (ManifestStore) ForEach(path string, fn func(domain.ManifestEntry) error) (int, error) {
	return ForEachManifest(path, fn)
}

// ManifestWriter appends manifest rows to a JSONL file as they are
// parsed, so a crawl interrupted mid-listing still leaves every row
// seen so far on disk.
type ManifestWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewManifestWriter creates (truncating) the manifest file.
func NewManifestWriter(path string) (*ManifestWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating manifest: %w", err)
	}
	return &ManifestWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one manifest row and flushes it.
func (m *ManifestWriter) Append(entry domain.ManifestEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshalling manifest entry: %w", err)
	}
	if _, err := m.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing manifest entry: %w", err)
	}
	return m.w.Flush()
}

// Close flushes and closes the manifest file.
func (m *ManifestWriter) Close() error {
	if err := m.w.Flush(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}

// ForEachManifest streams the manifest, invoking fn for every
// well-formed row. Malformed rows are skipped and counted, not
// fatal. Stops early when fn returns an error.
func ForEachManifest(path string, fn func(domain.ManifestEntry) error) (skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64<<10), maxLineBytes)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry domain.ManifestEntry
		if uerr := json.Unmarshal(line, &entry); uerr != nil || entry.URL == "" || entry.Name == "" {
			skipped++
			continue
		}
		if ferr := fn(entry); ferr != nil {
			return skipped, ferr
		}
	}
	if serr := sc.Err(); serr != nil {
		return skipped, fmt.Errorf("reading manifest: %w", serr)
	}
	return skipped, nil
}
