package domain

import "time"

// QueueStatus is the lifecycle state of an embedding queue entry.
type QueueStatus string

// Embedding queue states. Entries start as NEW and are moved by the
// (external) embedding worker.
const (
	QueueNew        QueueStatus = "NEW"
	QueueProcessing QueueStatus = "PROCESSING"
	QueueDone       QueueStatus = "DONE"
	QueueFailed     QueueStatus = "FAILED"
)

// QueueEntry is one pending embedding job, referencing a stored chunk.
// The pipeline only ever creates entries; draining them is the
// embedding worker's job.
type QueueEntry struct {
	ID         string
	ChunkID    int64
	Status     QueueStatus
	RetryCount int
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
