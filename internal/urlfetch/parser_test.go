package urlfetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobBoardPage = `<!DOCTYPE html>
<html>
<head>
<title>백엔드 엔지니어 채용 | 하이어로그</title>
<script>window.__STATE__ = {"tracking": true};</script>
<style>.menu { color: red; }</style>
</head>
<body>
<nav><a href="/">홈</a><a href="/jobs">채용공고</a></nav>
<div class="menu">
<a href="/company">회사소개 페이지로 이동하기</a>
<a href="/service">서비스 안내 바로가기</a>
<a href="/blog">기술 블로그 읽으러 가기</a>
<a href="/career">전체 채용공고 목록 보기</a>
<a href="/faq">자주 묻는 질문 모음</a>
</div>
<div class="content">
<h2>자격요건</h2>
<ul>
<li>Java 기반 서버 개발 경험을 3년 이상 보유하신 분</li>
<li>대용량 트래픽 처리 경험이 있으신 분</li>
</ul>
<p>우리 팀은 대규모 커머스 플랫폼을 함께 만들어 갈 백엔드 엔지니어를 찾고 있습니다. 서비스 안정성과 좋은 개발 문화를 모두 중요하게 생각합니다.</p>
<h2>우대사항</h2>
<p>Kubernetes 운영 경험이 있으면 더욱 좋습니다.</p>
<button>지원하기</button>
</div>
</body>
</html>`

func TestParsePicksContentBlock(t *testing.T) {
	parsed, err := Parse(jobBoardPage)
	require.NoError(t, err)

	assert.Equal(t, "백엔드 엔지니어 채용 | 하이어로그", parsed.Title)

	assert.Contains(t, parsed.Body, "자격요건")
	assert.Contains(t, parsed.Body, "대용량 트래픽 처리 경험이 있으신 분")
	assert.Contains(t, parsed.Body, "우대사항")

	assert.NotContains(t, parsed.Body, "회사소개 페이지로 이동하기", "link menu must lose the scoring")
	assert.NotContains(t, parsed.Body, "tracking", "script content must be stripped")
	assert.NotContains(t, parsed.Body, "지원하기", "widget captions must be dropped")
}

func TestParseEmptyDocument(t *testing.T) {
	parsed, err := Parse("")
	require.NoError(t, err)

	assert.Empty(t, parsed.Title)
	assert.Empty(t, parsed.Body)
}

func TestParseFallsBackToBody(t *testing.T) {
	parsed, err := Parse(`<html><body><p>짧은 본문</p></body></html>`)
	require.NoError(t, err)

	assert.Contains(t, parsed.Body, "짧은 본문")
}

func TestBlockLinesBreaksAtBlockTags(t *testing.T) {
	parsed, err := Parse(`<html><body><div>
<p>첫째 줄은 충분히 긴 문장으로 작성해서 후보 블록이 되도록 합니다. 자격요건 관련 내용이 들어 있습니다.</p>
<p>둘째 줄도 <b>인라인</b> 태그를 품고 있습니다.</p>
</div></body></html>`)
	require.NoError(t, err)

	assert.Contains(t, parsed.Body, "둘째 줄도 인라인 태그를 품고 있습니다.")
}
