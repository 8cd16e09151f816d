// Package lawhtml parses statute detail pages into structured law
// documents: the title line, the responsible department and the
// ordered sequence of article blocks.
package lawhtml

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/roeum-labs/lawcrawl/internal/connectors/lawgokr"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// contentSelector matches the main statute body container across the
// portal's page variants.
const contentSelector = "#contentBody, #conScroll, .law-view-content"

var (
	chapterRe  = regexp.MustCompile(`^제\s*\d+\s*장`)
	digitsRe   = regexp.MustCompile(`\d+`)
	brTagRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	closePRe   = regexp.MustCompile(`(?i)</p>`)
	anyTagRe   = regexp.MustCompile(`<[^>]+>`)
	spacesRe   = regexp.MustCompile(`[ \t]+`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Result carries the parsed law and the article-number conflicts
// found on the page (duplicate numbers where the later block won).
type Result struct {
	Law       domain.Law
	Conflicts []int
}

// Clean normalises whitespace the way the portal pages need: NBSP to
// space, runs of spaces collapsed, at most one blank line in a row.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = newlinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Parse turns a detail page into a structured law. It fails with
// domain.ErrParse when the statute body container is missing; a page
// without it is not a statute detail page.
func Parse(page []byte, sourceURL string, fetchedAt time.Time) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("%w: statute body container not found", domain.ErrParse)
	}

	title := Clean(doc.Find("#conTop h2").First().Text())
	if title == "" {
		title = Clean(content.Find("h2").First().Text())
	}
	department := Clean(doc.Find("div.ct_sub").First().Text())

	law := domain.Law{
		LsiSeq:     lsiSeqFromURL(sourceURL, title),
		SourceURL:  sourceURL,
		Title:      title,
		Department: department,
		FetchedAt:  fetchedAt,
	}

	res := &Result{}
	byArtNo := map[int]int{} // article number -> index in law.Articles
	chapter := ""

	content.Find("div.pgroup").Each(func(_ int, block *goquery.Selection) {
		if gtit := Clean(block.Find("p.gtit").First().Text()); gtit != "" && chapterRe.MatchString(gtit) {
			chapter = gtit
			// A chapter-title block carries no article of its own.
			if block.Find("span.bl label").Length() == 0 {
				return
			}
		}

		heading := Clean(block.Find("span.bl label").First().Text())
		body := blockText(block)
		if heading == "" && body == "" {
			return
		}
		body = stripHeadingLine(body, heading)

		art := domain.Article{
			Heading: heading,
			Body:    body,
			Chapter: chapter,
		}
		art.ContentHash = domain.HashText(heading + "\n" + body)

		if no, ok := articleNumber(heading); ok {
			art.ArtNo = &no
			if prev, dup := byArtNo[no]; dup {
				// Later occurrence wins; keep the original position.
				law.Articles[prev] = art
				res.Conflicts = append(res.Conflicts, no)
				return
			}
			byArtNo[no] = len(law.Articles)
		}
		law.Articles = append(law.Articles, art)
	})

	var full strings.Builder
	full.WriteString(title)
	full.WriteString("\n")
	full.WriteString(department)
	for _, a := range law.Articles {
		full.WriteString("\n")
		full.WriteString(a.Heading)
		full.WriteString("\n")
		full.WriteString(a.Body)
	}
	law.ContentHash = domain.HashText(full.String())

	res.Law = law
	return res, nil
}

// articleNumber pulls the 조 number out of a heading like
// "제12조(정의)". Headings without digits before the parenthesis are
// non-numbered structural blocks.
func articleNumber(heading string) (int, bool) {
	head, _, _ := strings.Cut(heading, "(")
	m := digitsRe.FindString(head)
	if m == "" {
		return 0, false
	}
	var no int
	if _, err := fmt.Sscanf(m, "%d", &no); err != nil {
		return 0, false
	}
	return no, true
}

// blockText renders one pgroup block as plain text, turning <p> and
// <br> boundaries into newlines so paragraph structure survives tag
// stripping.
func blockText(sel *goquery.Selection) string {
	raw, err := goquery.OuterHtml(sel)
	if err != nil {
		return Clean(sel.Text())
	}
	raw = brTagRe.ReplaceAllString(raw, "\n")
	raw = closePRe.ReplaceAllString(raw, "\n")
	raw = anyTagRe.ReplaceAllString(raw, "")
	raw = html.UnescapeString(raw)

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if t := Clean(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// stripHeadingLine drops the heading from the front of the rendered
// block text so Body holds only the article body.
func stripHeadingLine(body, heading string) string {
	if heading == "" {
		return body
	}
	first, rest, found := strings.Cut(body, "\n")
	if strings.HasPrefix(first, heading) {
		first = strings.TrimSpace(strings.TrimPrefix(first, heading))
	}
	if !found {
		return first
	}
	if first == "" {
		return rest
	}
	return first + "\n" + rest
}

// lsiSeqFromURL extracts the revision sequence from the detail URL.
// When the URL carries neither lsiSeq nor lsId, a slug of the title
// keeps the document identifiable.
func lsiSeqFromURL(sourceURL, title string) string {
	if seq := lawgokr.LsiSeqFromURL(sourceURL); seq != "" {
		return seq
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, title)
}
