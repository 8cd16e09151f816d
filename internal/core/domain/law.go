package domain

import "time"

// Law represents one statute fetched from the portal.
// It is the canonical representation after parsing a detail page.
type Law struct {
	// LsiSeq is the portal-assigned sequence id of this revision.
	LsiSeq string

	// SourceURL is the canonical detail page URL. Unique per law.
	SourceURL string

	// Title is the statute title line.
	Title string

	// Department is the ministry in charge, taken from the subtitle line.
	Department string

	// ContentHash is the hash of the whitespace-normalised full text.
	// Re-fetching unchanged content yields the same hash.
	ContentHash string

	// FetchedAt is when the detail page was retrieved.
	FetchedAt time.Time

	// Articles are the statute's structural blocks in page order.
	Articles []Article
}

// Article is one structural block of a law. Numbered blocks carry the
// 조 number; preambles, annexes and other headers keep ArtNo nil.
type Article struct {
	// ArtNo is the article number, nil for non-numbered blocks.
	ArtNo *int

	// Heading is the article heading, e.g. "제1조(목적)".
	Heading string

	// Body is the cleaned article body text.
	Body string

	// ContentHash is the hash of the whitespace-normalised heading
	// and body; it addresses the article even when ArtNo is nil.
	ContentHash string

	// Chapter is the 장 heading in effect at this block, if any.
	Chapter string
}

// Chunk is a retrieval-sized slice of one article's body.
// Chunk numbering is zero-based and contiguous within the article,
// and splitting is deterministic: identical input yields the same
// chunk sequence.
type Chunk struct {
	// LsiSeq, ArtNo and ArticleHash link the chunk back to its
	// article; the hash addresses non-numbered blocks too.
	LsiSeq      string
	ArtNo       *int
	ArticleHash string

	// ChunkNo is the zero-based position within the article.
	ChunkNo int

	// Text is the chunk content.
	Text string

	// ContentHash is the hash of the whitespace-normalised text.
	ContentHash string
}

// ManifestEntry is one row of the list-scraper manifest: the detail
// page URL of a statute and its display name.
type ManifestEntry struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
