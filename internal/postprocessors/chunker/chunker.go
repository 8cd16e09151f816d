// Package chunker splits article bodies into retrieval-sized chunks.
// Splitting is sentence-boundary aware and deterministic: the same
// input always yields the same chunk sequence, and chunks are
// non-overlapping so the concatenation of a body's chunks
// reconstructs the body under whitespace normalisation.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the default maximum chunk length in runes,
// roughly 700-900 tokens of Korean legal text.
const DefaultMaxChars = 1200

// Splitter produces chunk texts from article bodies.
type Splitter struct {
	maxChars int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxChars sets the maximum chunk length in runes.
func WithMaxChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// New creates a splitter.
func New(opts ...Option) *Splitter {
	s := &Splitter{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split cuts a body into chunks of at most maxChars runes. Sentences
// are packed greedily; a sentence longer than the limit falls back to
// word-boundary packing, so a cut never lands inside a word. Chunk
// order follows text order; numbering is the caller's slice index.
// An empty body yields no chunks.
func (s *Splitter) Split(body string) []string {
	sents := splitSentences(body)
	if len(sents) == 0 {
		return nil
	}

	var chunks []string
	var cur []string
	curLen := 0

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, " "))
			cur = cur[:0]
			curLen = 0
		}
	}

	for _, sent := range sents {
		n := utf8.RuneCountInString(sent)
		if n > s.maxChars {
			flush()
			chunks = append(chunks, s.packWords(sent)...)
			continue
		}
		if curLen > 0 && curLen+1+n > s.maxChars {
			flush()
		}
		cur = append(cur, sent)
		curLen += n
		if len(cur) > 1 {
			curLen++ // joining space
		}
	}
	flush()

	return chunks
}

// packWords splits an overlong sentence on whitespace. A single word
// beyond the limit becomes its own oversize chunk rather than being
// cut mid-word.
func (s *Splitter) packWords(sent string) []string {
	words := strings.Fields(sent)

	var out []string
	var cur []string
	curLen := 0

	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if curLen > 0 && curLen+1+n > s.maxChars {
			out = append(out, strings.Join(cur, " "))
			cur = cur[:0]
			curLen = 0
		}
		cur = append(cur, w)
		if curLen > 0 {
			curLen++
		}
		curLen += n
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

// splitSentences breaks text into sentences without variable-length
// look-behind: Korean clause endings (다.) and latin terminators
// (. ! ?) end a sentence; newlines already present in the body are
// kept as boundaries too.
func splitSentences(text string) []string {
	var sents []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sents = append(sents, splitLine(line)...)
	}
	return sents
}

func splitLine(line string) []string {
	var out []string
	runes := []rune(line)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Sentence ends at the terminator when followed by a space or
		// end of line.
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		sent := strings.TrimSpace(string(runes[start : i+1]))
		if sent != "" {
			out = append(out, sent)
		}
		start = i + 1
	}
	if start < len(runes) {
		if sent := strings.TrimSpace(string(runes[start:])); sent != "" {
			out = append(out, sent)
		}
	}
	return out
}
