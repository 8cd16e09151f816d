// Package domain contains the core entities of the statute crawl
// pipeline: laws, their articles, retrieval chunks and the embedding
// queue rows derived from them. It has no dependencies on adapters.
package domain
