// Package services holds the crawl pipeline's use cases: the URL
// validator gate, the paginated list scraper, the detail scraper,
// the shard merger and the pipeline runner tying them together.
package services
