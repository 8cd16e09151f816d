package lawhtml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

const detailPage = `<!DOCTYPE html><html><body>
<div id="conTop"><h2>은행법</h2></div>
<div class="ct_sub">[시행 2024. 5. 17.] [법률 제19261호] 금융위원회(은행과)</div>
<div id="contentBody">
<div class="pgroup"><p class="gtit">제1장 총칙</p></div>
<div class="pgroup"><p><span class="bl"><label>제1조(목적)</label></span> 이 법은 은행의 건전한 운영을 도모함을 목적으로 한다.</p></div>
<div class="pgroup"><p><span class="bl"><label>제2조(정의)</label></span> 이 법에서 사용하는 용어의 뜻은 다음과 같다.<br>1. &quot;은행업&quot;이란 예금을 받아 대출하는 업을 말한다.</p></div>
<div class="pgroup"><p class="gtit">제2장 은행업의 인가</p></div>
<div class="pgroup"><p><span class="bl"><label>제8조(인가)</label></span> 은행업을 경영하려는 자는 금융위원회의 인가를 받아야 한다.</p></div>
<div class="pgroup"><p><span class="bl"><label>부칙</label></span> 이 법은 공포 후 6개월이 경과한 날부터 시행한다.</p></div>
</div></body></html>`

const sourceURL = "https://www.law.go.kr/LSW/lsInfoP.do?lsiSeq=267581&efYd=20240517"

func TestParse(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	res, err := Parse([]byte(detailPage), sourceURL, fetchedAt)
	require.NoError(t, err)

	law := res.Law
	assert.Equal(t, "은행법", law.Title)
	assert.Equal(t, "267581", law.LsiSeq)
	assert.Equal(t, sourceURL, law.SourceURL)
	assert.Contains(t, law.Department, "금융위원회")
	assert.Equal(t, fetchedAt, law.FetchedAt)
	assert.NotEmpty(t, law.ContentHash)
	assert.Empty(t, res.Conflicts)

	require.Len(t, law.Articles, 4)

	first := law.Articles[0]
	require.NotNil(t, first.ArtNo)
	assert.Equal(t, 1, *first.ArtNo)
	assert.Equal(t, "제1조(목적)", first.Heading)
	assert.Equal(t, "이 법은 은행의 건전한 운영을 도모함을 목적으로 한다.", first.Body)
	assert.Equal(t, "제1장 총칙", first.Chapter)

	second := law.Articles[1]
	require.NotNil(t, second.ArtNo)
	assert.Equal(t, 2, *second.ArtNo)
	assert.Contains(t, second.Body, "용어의 뜻은 다음과 같다.")
	assert.Contains(t, second.Body, `1. "은행업"이란`)
	assert.NotContains(t, second.Body, "제2조(정의)")

	eighth := law.Articles[2]
	require.NotNil(t, eighth.ArtNo)
	assert.Equal(t, 8, *eighth.ArtNo)
	assert.Equal(t, "제2장 은행업의 인가", eighth.Chapter)

	addendum := law.Articles[3]
	assert.Nil(t, addendum.ArtNo)
	assert.Equal(t, "부칙", addendum.Heading)
	assert.NotEmpty(t, addendum.Body)
}

func TestParse_ArticleHashesAreStable(t *testing.T) {
	a, err := Parse([]byte(detailPage), sourceURL, time.Now())
	require.NoError(t, err)
	b, err := Parse([]byte(detailPage), sourceURL, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.Equal(t, len(a.Law.Articles), len(b.Law.Articles))
	for i := range a.Law.Articles {
		assert.Equal(t, a.Law.Articles[i].ContentHash, b.Law.Articles[i].ContentHash)
	}
	assert.Equal(t, a.Law.ContentHash, b.Law.ContentHash)
}

func TestParse_DuplicateArticleNumber(t *testing.T) {
	page := `<div id="contentBody">
<div class="pgroup"><p><span class="bl"><label>제1조(목적)</label></span> 처음 본문.</p></div>
<div class="pgroup"><p><span class="bl"><label>제2조(정의)</label></span> 이전 정의 본문.</p></div>
<div class="pgroup"><p><span class="bl"><label>제3조(적용 범위)</label></span> 적용 범위 본문.</p></div>
<div class="pgroup"><p><span class="bl"><label>제2조(정의)</label></span> 나중 정의 본문.</p></div>
</div>`

	res, err := Parse([]byte(page), "https://www.law.go.kr/LSW/lsInfoP.do?lsiSeq=11111", time.Now())
	require.NoError(t, err)

	assert.Equal(t, []int{2}, res.Conflicts)
	require.Len(t, res.Law.Articles, 3)

	// Later occurrence wins but keeps the original position.
	require.NotNil(t, res.Law.Articles[1].ArtNo)
	assert.Equal(t, 2, *res.Law.Articles[1].ArtNo)
	assert.Equal(t, "나중 정의 본문.", res.Law.Articles[1].Body)
	require.NotNil(t, res.Law.Articles[2].ArtNo)
	assert.Equal(t, 3, *res.Law.Articles[2].ArtNo)
}

func TestParse_MissingContentContainer(t *testing.T) {
	_, err := Parse([]byte(`<html><body><p>시스템 점검 중입니다.</p></body></html>`), sourceURL, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestParse_TitleSlugFallback(t *testing.T) {
	page := `<div id="conTop"><h2>Banking Act 2024</h2></div>
<div id="contentBody">
<div class="pgroup"><p><span class="bl"><label>제1조(목적)</label></span> 본문.</p></div>
</div>`

	res, err := Parse([]byte(page), "https://example.com/laws/banking", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "BankingAct2024", res.Law.LsiSeq)
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "nbsp to space", in: "제1조\u00a0목적", want: "제1조 목적"},
		{name: "space runs collapsed", in: "가  나\t\t다", want: "가 나 다"},
		{name: "blank lines capped", in: "가\n\n\n\n나", want: "가\n\n나"},
		{name: "trimmed", in: "  본문  ", want: "본문"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
