// Package sqlite implements the relational sink on modernc.org/sqlite:
// an idempotent corpus loader and the embedding queue.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// Ensure Store implements the law store port.
var _ driven.LawStore = (*Store)(nil)

// Store is the SQLite-backed corpus database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and runs
// pending migrations. An empty path defaults to ./data/lawcorpus.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join("data", "lawcorpus.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL keeps the loader usable while the embedding worker polls.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending *.up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// querier is the subset of database/sql shared by *sql.DB and
// *sql.Tx, so the write helpers run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertLaw stores a law and its articles in one transaction. The
// content hash decides the cheap path: an unchanged hash with all
// articles present means nothing is touched; a changed hash updates
// the law row and rebuilds its articles (chunks and queue rows go
// with them via cascade).
func (s *Store) UpsertLaw(ctx context.Context, law domain.Law) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id, changed, err := upsertLaw(ctx, tx, law)
	if err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing transaction: %w", err)
	}
	return id, changed, nil
}

func upsertLaw(ctx context.Context, q querier, law domain.Law) (int64, bool, error) {
	var id int64
	var storedHash string
	err := q.QueryRowContext(ctx,
		"SELECT id, content_hash FROM laws WHERE source_url = ?", law.SourceURL).
		Scan(&id, &storedHash)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, ierr := q.ExecContext(ctx, `
			INSERT INTO laws (lsi_seq, source_url, title, department, content_hash, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, law.LsiSeq, law.SourceURL, law.Title, law.Department, law.ContentHash, law.FetchedAt.UTC())
		if ierr != nil {
			return 0, false, fmt.Errorf("inserting law: %w", ierr)
		}
		id, ierr = res.LastInsertId()
		if ierr != nil {
			return 0, false, ierr
		}
	case err != nil:
		return 0, false, fmt.Errorf("looking up law: %w", err)
	case storedHash == law.ContentHash:
		// A matching hash is only a no-op when the articles are all
		// there. A law row without them means an earlier load never
		// finished; rebuild so chunk linkage can succeed.
		var have int
		if cerr := q.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM law_articles WHERE law_id = ?", id).Scan(&have); cerr != nil {
			return 0, false, fmt.Errorf("counting articles: %w", cerr)
		}
		if have == len(law.Articles) {
			return id, false, nil
		}
		if _, derr := q.ExecContext(ctx, "DELETE FROM law_articles WHERE law_id = ?", id); derr != nil {
			return 0, false, fmt.Errorf("invalidating articles: %w", derr)
		}
	default:
		_, uerr := q.ExecContext(ctx, `
			UPDATE laws
			SET lsi_seq = ?, title = ?, department = ?, content_hash = ?,
			    fetched_at = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, law.LsiSeq, law.Title, law.Department, law.ContentHash, law.FetchedAt.UTC(), id)
		if uerr != nil {
			return 0, false, fmt.Errorf("updating law: %w", uerr)
		}
		// Changed content invalidates the old articles and, via
		// cascade, their chunks and queue entries.
		if _, derr := q.ExecContext(ctx, "DELETE FROM law_articles WHERE law_id = ?", id); derr != nil {
			return 0, false, fmt.Errorf("invalidating articles: %w", derr)
		}
	}

	for pos, art := range law.Articles {
		_, aerr := q.ExecContext(ctx, `
			INSERT INTO law_articles (law_id, position, art_no, heading, body, content_hash)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (law_id, position) DO NOTHING
		`, id, pos, nullInt(art.ArtNo), art.Heading, art.Body, art.ContentHash)
		if aerr != nil {
			return 0, false, fmt.Errorf("inserting article: %w", aerr)
		}
	}

	return id, true, nil
}

// InsertChunks stores chunks for a law and enqueues an embedding job
// per stored chunk, in one transaction. Conflicting rows are ignored,
// so reloading an unchanged corpus never duplicates chunks or queue
// entries.
func (s *Store) InsertChunks(ctx context.Context, lawID int64, chunks []domain.Chunk) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	queued, err := insertChunks(ctx, tx, lawID, chunks)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return queued, nil
}

func insertChunks(ctx context.Context, q querier, lawID int64, chunks []domain.Chunk) (int, error) {
	artByHash, err := articleIDsByHash(ctx, q, lawID)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, chunk := range chunks {
		articleIDs, ok := artByHash[chunk.ArticleHash]
		if !ok {
			return queued, fmt.Errorf("%w: article for chunk %d", domain.ErrNotFound, chunk.ChunkNo)
		}

		// Identical blocks share a content hash; the chunk belongs to
		// every article carrying it.
		for _, articleID := range articleIDs {
			if _, err := q.ExecContext(ctx, `
				INSERT INTO article_chunks (article_id, chunk_no, text, content_hash)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (article_id, chunk_no) DO NOTHING
			`, articleID, chunk.ChunkNo, chunk.Text, chunk.ContentHash); err != nil {
				return queued, fmt.Errorf("inserting chunk: %w", err)
			}

			var chunkID int64
			if err := q.QueryRowContext(ctx,
				"SELECT id FROM article_chunks WHERE article_id = ? AND chunk_no = ?",
				articleID, chunk.ChunkNo).Scan(&chunkID); err != nil {
				return queued, fmt.Errorf("looking up chunk: %w", err)
			}

			res, err := q.ExecContext(ctx, `
				INSERT INTO embedding_queue (id, chunk_id, status)
				VALUES (?, ?, ?)
				ON CONFLICT (chunk_id) DO NOTHING
			`, uuid.NewString(), chunkID, domain.QueueNew)
			if err != nil {
				return queued, fmt.Errorf("enqueueing chunk: %w", err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				queued++
			}
		}
	}

	return queued, nil
}

// articleIDsByHash maps a law's article content hashes to row ids,
// the linkage used by chunk records (art_no alone cannot address
// non-numbered blocks). A hash maps to every article carrying it, in
// position order, since identical blocks hash identically.
func articleIDsByHash(ctx context.Context, q querier, lawID int64) (map[string][]int64, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, content_hash FROM law_articles WHERE law_id = ? ORDER BY position", lawID)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]int64)
	for rows.Next() {
		var id int64
		var hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		out[hash] = append(out[hash], id)
	}
	return out, rows.Err()
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
