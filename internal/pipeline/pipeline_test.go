package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/ocr"
)

func testRegistry(t *testing.T) *keywords.Registry {
	t.Helper()

	dir := t.TempDir()

	files := map[string]string{
		"header_keywords.yml": `header_keywords:
  - 주요업무
  - 자격요건
  - 우대사항
  - 마감일
`,
		"section_keywords.yml": `responsibilities:
  - 주요업무
requirements:
  - 자격요건
preferred:
  - 우대사항
`,
		"jd_meta_keywords.yml": `meta_keywords:
  - 고용형태
`,
		"noise_keywords.yml": `exact:
  - 지원하기
`,
		"jd_vocab.yml": `vocab:
  - java
  - kotlin
  - kubernetes
`,
		"skill_vocab.yml": `backend:
  - java
  - kotlin
devops:
  - kubernetes
`,
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	reg, err := keywords.Load(dir)
	require.NoError(t, err)

	return reg
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code Code
	}{
		{"invalid json", `{not json`, CodeMsgParseJSON},
		{"missing requestId", `{"brandName":"b","positionName":"p","source":"TEXT"}`, CodeMsgParseMissing},
		{"missing brandName", `{"requestId":"r","positionName":"p","source":"TEXT"}`, CodeMsgParseMissing},
		{"missing positionName", `{"requestId":"r","brandName":"b","source":"TEXT"}`, CodeMsgParseMissing},
		{"invalid source", `{"requestId":"r","brandName":"b","positionName":"p","source":"PDF"}`, CodeMsgParseMissing},
		{"image without images", `{"requestId":"r","brandName":"b","positionName":"p","source":"IMAGE"}`, CodeMsgParseMissing},
		{"url without url", `{"requestId":"r","brandName":"b","positionName":"p","source":"URL"}`, CodeMsgParseMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, perr := ParseRequest([]byte(tt.raw))
			require.NotNil(t, perr)
			assert.Equal(t, tt.code, perr.Code)
			assert.Equal(t, CategoryPermanent, perr.Category())
		})
	}

	t.Run("text with empty payload is accepted", func(t *testing.T) {
		req, perr := ParseRequest([]byte(`{"requestId":"r","brandName":"b","positionName":"p","source":"TEXT"}`))
		require.Nil(t, perr)
		assert.Equal(t, SourceText, req.Source)
		assert.Empty(t, req.Text)
	})

	t.Run("url accepts sourceUrl alias", func(t *testing.T) {
		req, perr := ParseRequest([]byte(`{"requestId":"r","brandName":"b","positionName":"p","source":"URL","sourceUrl":"https://example.com/jd"}`))
		require.Nil(t, perr)
		assert.Equal(t, "https://example.com/jd", req.ResolvedURL())
	})
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		code     Code
		category Category
	}{
		{CodeMsgParseJSON, CategoryPermanent},
		{CodeMsgParseMissing, CategoryPermanent},
		{CodeOCRExtract, CategoryPermanent},
		{CodeImageDecode, CategoryPermanent},
		{CodeTextProcess, CategoryPermanent},
		{CodeURLFetch, CategoryRecoverable},
		{CodeURLParse, CategoryPermanent},
		{CodeKafkaPublish, CategoryRecoverable},
		{CodeStorageWrite, CategoryRecoverable},
		{CodeUnknown, CategoryUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, CategoryOf(tt.code), string(tt.code))
	}
}

func TestAsError(t *testing.T) {
	orig := NewError(CodeURLFetch, StagePreprocess, "boom", nil)
	assert.Same(t, orig, AsError(orig, StageUnknown))

	wrapped := AsError(assert.AnError, StagePreprocess)
	assert.Equal(t, CodeUnknown, wrapped.Code)
	assert.Equal(t, StagePreprocess, wrapped.Stage)
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestTextPipeline(t *testing.T) {
	p := NewTextPipeline(testRegistry(t), nil)

	text := strings.Join([]string{
		"채용 공고입니다. 함께할 분을 찾습니다.",
		"주요업무",
		"- 백엔드 API 서버 개발",
		"- 대용량 트래픽 처리",
		"자격요건",
		"- Java 또는 Kotlin 경험 3년 이상",
		"우대사항",
		"- Kubernetes 운영 경험",
		"마감일",
		"2026.01.19 ~ 2026.02.06",
	}, "\n")

	result, perr := p.Process(text)
	require.Nil(t, perr)

	assert.Equal(t, []string{"채용 공고입니다. 함께할 분을 찾습니다."}, result.CanonicalMap["intro"])
	assert.Equal(t, []string{"백엔드 API 서버 개발", "대용량 트래픽 처리"}, result.CanonicalMap["responsibilities"])
	assert.Equal(t, []string{"Java 또는 Kotlin 경험 3년 이상"}, result.CanonicalMap["requirements"])
	assert.Equal(t, []string{"Kubernetes 운영 경험"}, result.CanonicalMap["preferred"])

	assert.NotContains(t, result.CanonicalMap, "others", "deadline section must be filtered out")

	assert.Equal(t, meta.PeriodFixed, result.Meta.RecruitmentPeriod.PeriodType)
	assert.Equal(t, "2026.01.19", result.Meta.RecruitmentPeriod.OpenDate)
	assert.Equal(t, "2026.02.06", result.Meta.RecruitmentPeriod.CloseDate)

	assert.Equal(t, []string{"java", "kotlin", "kubernetes"}, result.Meta.Skills)
}

func TestTextPipelineEmptyInput(t *testing.T) {
	p := NewTextPipeline(testRegistry(t), nil)

	result, perr := p.Process("")
	require.Nil(t, perr)

	assert.Empty(t, result.CanonicalMap)
	assert.Equal(t, meta.PeriodUnknown, result.Meta.RecruitmentPeriod.PeriodType)
	assert.Empty(t, result.Meta.Skills)
}

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.html, s.err
}

func TestURLPipeline(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>백엔드 엔지니어 채용</title></head>
<body>
<div class="content">
<h2>자격요건</h2>
<p>Java 기반의 서버 애플리케이션을 설계하고 운영해 본 경험이 3년 이상 있으신 분을 찾고 있습니다.</p>
<h2>우대사항</h2>
<p>Kubernetes 환경에서 서비스를 운영해 본 경험이 있으면 좋습니다.</p>
<button>지원하기</button>
</div>
</body>
</html>`

	p := NewURLPipeline(testRegistry(t), &stubFetcher{html: page}, nil)

	result, perr := p.Process(context.Background(), "https://example.com/jd")
	require.Nil(t, perr)

	require.Contains(t, result.CanonicalMap, "requirements")
	assert.Contains(t, result.CanonicalMap["requirements"][0], "Java 기반의 서버 애플리케이션")

	require.Contains(t, result.CanonicalMap, "preferred")

	assert.Equal(t, []string{"java", "kubernetes"}, result.Meta.Skills)
}

func TestURLPipelineFetchError(t *testing.T) {
	p := NewURLPipeline(testRegistry(t), &stubFetcher{err: assert.AnError}, nil)

	_, perr := p.Process(context.Background(), "https://example.com/jd")
	require.NotNil(t, perr)

	assert.Equal(t, CodeURLFetch, perr.Code)
	assert.Equal(t, CategoryRecoverable, perr.Category())
}

type fakeEngine struct {
	page *ocr.PageResult
	err  error
}

func (f *fakeEngine) Recognize(_ context.Context, _ []byte) (*ocr.PageResult, error) {
	return f.page, f.err
}

func writeFakeImage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "jd.png")
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0o600))

	return path
}

func ocrPage(confidence float64) *ocr.PageResult {
	box := func(y, h float64) [][2]float64 {
		return [][2]float64{{0, y}, {300, y}, {300, y + h}, {0, y + h}}
	}

	return &ocr.PageResult{
		Confidence: confidence,
		Lines: []ocr.RawLine{
			{Text: "주요업무", Confidence: 92, Box: box(0, 40), Height: 40},
			{Text: "백엔드 API 개발", Confidence: 88, Box: box(50, 20), Height: 20},
			{Text: "자격요건", Confidence: 92, Box: box(100, 40), Height: 40},
			{Text: "경력 3년 이상이신 분", Confidence: 85, Box: box(150, 20), Height: 20},
		},
	}
}

func TestImagePipeline(t *testing.T) {
	reg := testRegistry(t)

	t.Run("retry confidence still succeeds", func(t *testing.T) {
		p := NewImagePipeline(reg, &fakeEngine{page: ocrPage(70)}, nil)

		result, perr := p.Process(context.Background(), []string{writeFakeImage(t)})
		require.Nil(t, perr)

		require.NotNil(t, result.OCR)
		assert.Equal(t, ocr.StatusRetry, result.OCR.Status)
		assert.InDelta(t, 70, result.OCR.Confidence, 0.001)

		assert.Equal(t, []string{"백엔드 API 개발"}, result.CanonicalMap["responsibilities"])
		assert.Equal(t, []string{"경력 3년 이상이신 분"}, result.CanonicalMap["requirements"])
	})

	t.Run("fail confidence aborts", func(t *testing.T) {
		p := NewImagePipeline(reg, &fakeEngine{page: ocrPage(50)}, nil)

		_, perr := p.Process(context.Background(), []string{writeFakeImage(t)})
		require.NotNil(t, perr)
		assert.Equal(t, CodeOCRExtract, perr.Code)
	})

	t.Run("unreadable image path", func(t *testing.T) {
		p := NewImagePipeline(reg, &fakeEngine{page: ocrPage(90)}, nil)

		_, perr := p.Process(context.Background(), []string{filepath.Join(t.TempDir(), "missing.png")})
		require.NotNil(t, perr)
		assert.Equal(t, CodeImageDecode, perr.Code)
	})

	t.Run("engine error", func(t *testing.T) {
		p := NewImagePipeline(reg, &fakeEngine{err: assert.AnError}, nil)

		_, perr := p.Process(context.Background(), []string{writeFakeImage(t)})
		require.NotNil(t, perr)
		assert.Equal(t, CodeOCRExtract, perr.Code)
	})
}
