package lawgokr

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DetailBaseURL is the statute detail endpoint; lsiSeq (and
// optionally efYd) select the revision.
const DetailBaseURL = "https://www.law.go.kr/LSW/lsInfoP.do"

// listRowSelector matches the statute links in the listing table.
const listRowSelector = `#resultTableDiv a[onclick*='lsReturnSearch']`

var (
	returnSearchRe = regexp.MustCompile(`lsReturnSearch\((.*?)\)`)
	quotedArgRe    = regexp.MustCompile(`'([^']*)'`)
	efYdRe         = regexp.MustCompile(`^\d{8}$`)
	seqRe          = regexp.MustCompile(`^\d{5,}$`)
	pagerRe        = regexp.MustCompile(`\(\s*\d+\s*/\s*(\d+)\s*\)`)
	unsafeNameRe   = regexp.MustCompile(`[\\/*?:"<>|]`)
)

// ListRow is one raw row of a listing page before URL construction.
type ListRow struct {
	// Name is the statute display name (link text).
	Name string

	// OnClick is the raw lsReturnSearch(...) handler carrying the
	// revision keys.
	OnClick string
}

// ParseListPage extracts the statute rows and the pager total from a
// listing page. A missing pager yields totalPages == 1, matching the
// portal's single-page listings.
func ParseListPage(page []byte) (rows []ListRow, totalPages int, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, 0, fmt.Errorf("parsing listing page: %w", err)
	}

	doc.Find(listRowSelector).Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		rows = append(rows, ListRow{
			Name:    strings.TrimSpace(sel.Text()),
			OnClick: onclick,
		})
	})

	totalPages = 1
	if m := pagerRe.FindStringSubmatch(doc.Find("span.page").Text()); m != nil {
		if n, perr := strconv.Atoi(m[1]); perr == nil && n > 0 {
			totalPages = n
		}
	}

	return rows, totalPages, nil
}

// IsListingPage reports whether the page carries the structural
// markers of a statute listing. Used by the validator gate.
func IsListingPage(page []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return false
	}
	return doc.Find(listRowSelector).Length() > 0
}

// BuildDetailURL reconstructs the detail page URL from a row's
// lsReturnSearch handler. Among the quoted arguments, the 8-digit
// value is the enforcement date (efYd) and the last remaining long
// number is the revision sequence (lsiSeq). Returns "" when no
// sequence can be found.
func BuildDetailURL(onclick string) string {
	m := returnSearchRe.FindStringSubmatch(onclick)
	if m == nil {
		return ""
	}

	var efYd string
	var seqs []string
	for _, arg := range quotedArgRe.FindAllStringSubmatch(m[1], -1) {
		v := arg[1]
		if efYd == "" && efYdRe.MatchString(v) {
			efYd = v
			continue
		}
		if seqRe.MatchString(v) {
			seqs = append(seqs, v)
		}
	}
	if len(seqs) == 0 {
		return ""
	}

	u := DetailBaseURL + "?lsiSeq=" + seqs[len(seqs)-1]
	if efYd != "" {
		u += "&efYd=" + efYd
	}
	return u
}

// PageURL returns the listing URL for the given 1-based page number.
func PageURL(listURL string, page int) string {
	if page <= 1 {
		return listURL
	}
	u, err := url.Parse(listURL)
	if err != nil {
		return listURL
	}
	q := u.Query()
	q.Set("pageIndex", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// SanitizeName strips filesystem-hostile characters from a display
// name so it can key the statute's shard files.
func SanitizeName(name string) string {
	return strings.TrimSpace(unsafeNameRe.ReplaceAllString(name, ""))
}

// LsiSeqFromURL extracts the revision sequence from a detail URL,
// falling back to lsId. Returns "" when neither is present.
func LsiSeqFromURL(detailURL string) string {
	u, err := url.Parse(detailURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	for _, key := range []string{"lsiSeq", "lsId"} {
		if v := q.Get(key); v != "" {
			return v
		}
	}
	return ""
}
