package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listBase = "https://www.law.go.kr/LSW/lsAstSc.do?cptOfiCd=1741000&menuId=391"

const listPageOne = `<div id="resultTableDiv">
<a onclick="lsReturnSearch('011371','20240517','100001');">은행법</a>
<a onclick="lsReturnSearch('011372','20230101','100002');">보험업법</a>
</div><span class="page">(1 / 2)</span>`

// Page two repeats 보험업법; only 자본시장법 is new.
const listPageTwo = `<div id="resultTableDiv">
<a onclick="lsReturnSearch('011372','20230101','100002');">보험업법</a>
<a onclick="lsReturnSearch('011373','20220801','100003');">자본시장법</a>
</div><span class="page">(2 / 2)</span>`

func pagedFetcher(t *testing.T) fetchFunc {
	t.Helper()
	return func(ctx context.Context, url string) ([]byte, error) {
		if strings.Contains(url, "pageIndex=2") {
			return []byte(listPageTwo), nil
		}
		return []byte(listPageOne), nil
	}
}

func TestListScrape_WalksAllPages(t *testing.T) {
	s := NewListScraper(pagedFetcher(t), zap.NewNop())
	out := &memManifest{}

	res, err := s.Scrape(context.Background(), listBase, 0, out)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Entries)
	assert.Equal(t, 2, res.Pages)
	assert.Zero(t, res.SkippedRows)

	require.Len(t, out.entries, 3)
	assert.Equal(t, "은행법", out.entries[0].Name)
	assert.Equal(t, "보험업법", out.entries[1].Name)
	assert.Equal(t, "자본시장법", out.entries[2].Name)
	assert.Contains(t, out.entries[0].URL, "lsiSeq=100001")
}

func TestListScrape_MaxPagesCap(t *testing.T) {
	s := NewListScraper(pagedFetcher(t), zap.NewNop())
	out := &memManifest{}

	res, err := s.Scrape(context.Background(), listBase, 1, out)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, 1, res.Pages)
}

func TestListScrape_MissingPagerStopsAfterFirstPage(t *testing.T) {
	page := `<div id="resultTableDiv">
<a onclick="lsReturnSearch('011371','20240517','100001');">은행법</a>
</div>`
	s := NewListScraper(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(page), nil
	}), zap.NewNop())
	out := &memManifest{}

	res, err := s.Scrape(context.Background(), listBase, 0, out)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 1, res.Entries)
}

func TestListScrape_SkipsMalformedRows(t *testing.T) {
	page := `<div id="resultTableDiv">
<a onclick="lsReturnSearch('011371','20240517','100001');">은행법</a>
<a onclick="lsReturnSearch('bad');">고장난 행</a>
<a onclick="lsReturnSearch('011373','20220801','100003');"></a>
</div>`
	s := NewListScraper(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(page), nil
	}), zap.NewNop())
	out := &memManifest{}

	res, err := s.Scrape(context.Background(), listBase, 0, out)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, 2, res.SkippedRows)
}

func TestListScrape_FetchErrorIsFatal(t *testing.T) {
	s := NewListScraper(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, assert.AnError
	}), zap.NewNop())

	_, err := s.Scrape(context.Background(), listBase, 0, &memManifest{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestListScrape_DuplicateOnlyPageStops(t *testing.T) {
	// The pager claims 5 pages but every page repeats the same row.
	page := `<div id="resultTableDiv">
<a onclick="lsReturnSearch('011371','20240517','100001');">은행법</a>
</div><span class="page">(1 / 5)</span>`
	calls := 0
	s := NewListScraper(fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		calls++
		return []byte(page), nil
	}), zap.NewNop())
	out := &memManifest{}

	res, err := s.Scrape(context.Background(), listBase, 0, out)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, 2, calls, "should stop on the first page with no new rows")
}
