package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// Queue helpers used by the embedding worker. The crawl pipeline only
// ever enqueues (see InsertChunks); these exist so the worker side
// can claim and settle jobs against the same schema.

// ClaimQueued atomically moves up to limit NEW entries to PROCESSING
// and returns them, oldest first.
func (s *Store) ClaimQueued(ctx context.Context, limit int) ([]domain.QueueEntry, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := s.db.QueryContext(ctx, `
		UPDATE embedding_queue
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id IN (
			SELECT id FROM embedding_queue
			WHERE status = ?
			ORDER BY created_at
			LIMIT ?
		)
		RETURNING id, chunk_id, status, retry_count, COALESCE(last_error, ''), created_at, updated_at
	`, domain.QueueProcessing, domain.QueueNew, limit)
	if err != nil {
		return nil, fmt.Errorf("claiming queue entries: %w", err)
	}
	defer rows.Close()

	var out []domain.QueueEntry
	for rows.Next() {
		var e domain.QueueEntry
		if err := rows.Scan(&e.ID, &e.ChunkID, &e.Status, &e.RetryCount,
			&e.LastError, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkDone settles a claimed entry as successfully embedded.
func (s *Store) MarkDone(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.QueueDone, "")
}

// MarkFailed records a failure and bumps the retry counter.
func (s *Store) MarkFailed(ctx context.Context, id, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE embedding_queue
		SET status = ?, last_error = ?, retry_count = retry_count + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, domain.QueueFailed, reason, id)
	if err != nil {
		return fmt.Errorf("marking queue entry failed: %w", err)
	}
	return requireRow(res, id)
}

// Requeue moves a FAILED entry back to NEW for another attempt.
func (s *Store) Requeue(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.QueueNew, "")
}

// QueueDepth returns the number of entries per status.
func (s *Store) QueueDepth(ctx context.Context) (map[domain.QueueStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM embedding_queue GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("counting queue entries: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.QueueStatus]int)
	for rows.Next() {
		var status domain.QueueStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (s *Store) setStatus(ctx context.Context, id string, status domain.QueueStatus, lastError string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE embedding_queue
		SET status = ?, last_error = NULLIF(?, ''), updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, lastError, id)
	if err != nil {
		return fmt.Errorf("updating queue entry: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: queue entry %s", domain.ErrNotFound, id)
	}
	return nil
}
