package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunID identifies one pipeline invocation. It namespaces log files
// and lets failures be correlated to a specific run. The value is
// threaded explicitly through every component; there is no ambient
// global.
type RunID string

// NewRunID builds a timestamped run identifier with a short random
// suffix so that two runs started in the same second stay distinct.
func NewRunID(now time.Time) RunID {
	return RunID(fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.NewString()[:8]))
}

func (r RunID) String() string { return string(r) }

// ItemOutcome classifies the result of processing one manifest entry.
type ItemOutcome int

const (
	// ResultSuccess means both shards were written for the statute.
	ResultSuccess ItemOutcome = iota

	// ResultSkip means the entry was not processed (e.g. malformed).
	ResultSkip

	// ResultFail means fetch or parse failed; no shard was written.
	ResultFail
)

func (o ItemOutcome) String() string {
	switch o {
	case ResultSuccess:
		return "success"
	case ResultSkip:
		return "skip"
	case ResultFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ItemResult is the per-entry outcome of the detail phase. Item-level
// failures never abort the batch; they are collected and reported in
// the run summary.
type ItemResult struct {
	Entry   ManifestEntry
	Outcome ItemOutcome
	Err     error
}

// ExecStrategy selects how detail scrapes are scheduled.
type ExecStrategy struct {
	// Workers is the number of concurrent scrapes. 0 or 1 means
	// strictly sequential.
	Workers int

	// Delay is the pause between consecutive scrapes in sequential
	// mode, respecting the portal's rate limits. Ignored by the pool.
	Delay time.Duration
}

// Sequential is the default, polite execution strategy.
func Sequential(delay time.Duration) ExecStrategy {
	return ExecStrategy{Workers: 1, Delay: delay}
}

// BoundedPool trades politeness for throughput with n in-flight
// scrapes. Per-statute shard files are independent, so no locking is
// needed across workers.
func BoundedPool(n int) ExecStrategy {
	if n < 1 {
		n = 1
	}
	return ExecStrategy{Workers: n}
}
