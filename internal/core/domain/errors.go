package domain

import "errors"

// Domain errors represent pipeline failures.
// Gate errors abort the run; item errors are logged and skipped.
var (
	// ErrInvalidListURL indicates the listing URL did not resolve to a
	// statute listing page. Fatal: the run aborts before any writes.
	ErrInvalidListURL = errors.New("invalid listing url")

	// ErrFetch indicates a network or HTTP level retrieval failure.
	// Per-item: the affected statute is skipped, the run continues.
	ErrFetch = errors.New("fetch failed")

	// ErrParse indicates a page was fetched but its structure was not
	// recognised. Per-item: no partial shard is written.
	ErrParse = errors.New("parse failed")

	// ErrEmptyManifest indicates the manifest holds no entries. Fatal.
	ErrEmptyManifest = errors.New("empty manifest")

	// ErrShardMerge indicates corpus files could not be produced. Fatal.
	ErrShardMerge = errors.New("shard merge failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
