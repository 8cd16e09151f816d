package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeText collapses all whitespace runs to single spaces and
// trims the result. It is applied before hashing so that incidental
// formatting differences never change a content hash.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HashText returns the hex-encoded SHA-256 of the normalised text.
// This is the content hash used at document, article and chunk level;
// it is a pure function of the normalised content and is part of the
// pipeline's idempotence contract: unchanged source content always
// maps to the same hash, so re-ingestion is a no-op downstream.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(NormalizeText(s)))
	return hex.EncodeToString(sum[:])
}
