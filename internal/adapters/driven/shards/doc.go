// Package shards implements the JSON Lines file layer: the manifest
// produced by the list scraper, the per-statute document and chunk
// shards, and the merged corpus files.
package shards
