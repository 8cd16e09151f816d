package shards

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// ReadDocuments loads a document shard or corpus file.
func ReadDocuments(path string) ([]driven.DocumentRecord, error) {
	var out []driven.DocumentRecord
	err := readLines(path, func(line []byte) error {
		var rec driven.DocumentRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decoding document record: %w", err)
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// ReadChunks loads a chunk shard or corpus file.
func ReadChunks(path string) ([]driven.ChunkRecord, error) {
	var out []driven.ChunkRecord
	err := readLines(path, func(line []byte) error {
		var rec driven.ChunkRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decoding chunk record: %w", err)
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func readLines(path string, fn func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64<<10), maxLineBytes)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(sc.Bytes()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
