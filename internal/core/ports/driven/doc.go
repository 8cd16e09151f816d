// Package driven defines the outbound ports of the crawl pipeline:
// interfaces the core services depend on, implemented by adapters
// (HTTP client, JSONL shard files, SQLite sink).
package driven
