package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/postprocessors/chunker"
)

const detailFixture = `<div id="conTop"><h2>은행법</h2></div>
<div class="ct_sub">금융위원회(은행과)</div>
<div id="contentBody">
<div class="pgroup"><p><span class="bl"><label>제1조(목적)</label></span> 이 법은 은행의 건전한 운영을 도모함을 목적으로 한다.</p></div>
<div class="pgroup"><p><span class="bl"><label>제2조(정의)</label></span> 이 법에서 사용하는 용어의 뜻은 다음과 같다.</p></div>
<div class="pgroup"><p><span class="bl"><label>부칙</label></span></p></div>
</div>`

const detailURL = "https://www.law.go.kr/LSW/lsInfoP.do?lsiSeq=267581&efYd=20240517"

func newTestDetailScraper(fetch fetchFunc, store *memShards) *DetailScraper {
	s := NewDetailScraper(fetch, store, chunker.New(), zap.NewNop())
	return s.WithClock(func() time.Time {
		return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	})
}

func TestScrapeOne(t *testing.T) {
	store := newMemShards()
	s := newTestDetailScraper(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(detailFixture), nil
	}, store)

	res := s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: detailURL, Name: "은행법"})

	assert.Equal(t, domain.ResultSuccess, res.Outcome)
	w, ok := store.write("은행법")
	require.True(t, ok)

	// One document line per article block, including the empty 부칙.
	require.Len(t, w.docs, 3)
	for _, d := range w.docs {
		assert.Equal(t, detailURL, d.SourceURL)
		assert.Equal(t, "267581", d.LsiSeq)
		assert.Equal(t, "은행법", d.TitleLine)
		assert.Equal(t, "2026-08-24T12:00:00Z", d.FetchedAt)
		assert.NotEmpty(t, d.DocHash)
	}
	require.NotNil(t, w.docs[0].ArtNo)
	assert.Equal(t, 1, *w.docs[0].ArtNo)
	assert.Nil(t, w.docs[2].ArtNo)

	// Empty bodies contribute no chunks; each chunk links back to its
	// article by content hash.
	require.Len(t, w.chunks, 2)
	assert.Equal(t, w.docs[0].ArticleHash, w.chunks[0].ArticleHash)
	assert.Equal(t, w.docs[1].ArticleHash, w.chunks[1].ArticleHash)
	assert.Equal(t, 0, w.chunks[0].ChunkNo)
	assert.Equal(t, domain.HashText(w.chunks[0].Text), w.chunks[0].ContentHash)
}

func TestScrapeOne_FetchFailure(t *testing.T) {
	store := newMemShards()
	s := newTestDetailScraper(func(ctx context.Context, url string) ([]byte, error) {
		return nil, domain.ErrFetch
	}, store)

	res := s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: detailURL, Name: "은행법"})

	assert.Equal(t, domain.ResultFail, res.Outcome)
	assert.ErrorIs(t, res.Err, domain.ErrFetch)
	_, ok := store.write("은행법")
	assert.False(t, ok, "no shard should be written for a failed fetch")
}

func TestScrapeOne_ParseFailure(t *testing.T) {
	store := newMemShards()
	s := newTestDetailScraper(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`<html><body>점검 중</body></html>`), nil
	}, store)

	res := s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: detailURL, Name: "은행법"})

	assert.Equal(t, domain.ResultFail, res.Outcome)
	assert.ErrorIs(t, res.Err, domain.ErrParse)
}

func TestScrapeOne_MalformedEntrySkipped(t *testing.T) {
	store := newMemShards()
	s := newTestDetailScraper(func(ctx context.Context, url string) ([]byte, error) {
		t.Fatal("fetcher should not be called")
		return nil, nil
	}, store)

	res := s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: detailURL, Name: `\/:*?"<>|`})
	assert.Equal(t, domain.ResultSkip, res.Outcome)

	res = s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: "", Name: "은행법"})
	assert.Equal(t, domain.ResultSkip, res.Outcome)
}

func TestScrapeOne_WriteFailure(t *testing.T) {
	store := newMemShards()
	store.failWrite = assert.AnError
	s := newTestDetailScraper(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(detailFixture), nil
	}, store)

	res := s.ScrapeOne(context.Background(), domain.ManifestEntry{URL: detailURL, Name: "은행법"})

	assert.Equal(t, domain.ResultFail, res.Outcome)
	assert.ErrorIs(t, res.Err, assert.AnError)
}
