package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneTagger(t *testing.T) {
	tagger := NewZoneTagger(testRegistry(t).Sections)

	t.Run("priority order on compound header", func(t *testing.T) {
		out := tagger.Tag([]Section{
			{Header: "주요업무및자격요건", SemanticZone: ZoneOthers},
		})

		assert.Equal(t, ZoneResponsibilities, out[0].SemanticZone)
	})

	t.Run("intro is never retagged", func(t *testing.T) {
		out := tagger.Tag([]Section{
			{SemanticZone: ZoneIntro, Lines: []string{"회사 소개"}},
		})

		assert.Equal(t, ZoneIntro, out[0].SemanticZone)
	})

	t.Run("unmatched header stays others", func(t *testing.T) {
		out := tagger.Tag([]Section{
			{Header: "특이사항", SemanticZone: ZoneOthers},
		})

		assert.Equal(t, ZoneOthers, out[0].SemanticZone)
	})

	t.Run("spaced keyword matches de-spaced header", func(t *testing.T) {
		out := tagger.Tag([]Section{
			{Header: "채용절차", SemanticZone: ZoneOthers},
		})

		assert.Equal(t, ZoneProcess, out[0].SemanticZone)
	})
}

func TestFilterSections(t *testing.T) {
	out := FilterSections([]Section{
		{Header: "주요업무", SemanticZone: ZoneResponsibilities, Lines: []string{"개발"}},
		{Header: "마감일", SemanticZone: ZoneOthers, Lines: []string{"상시채용"}},
		{Header: "유의사항", SemanticZone: ZoneOthers, Lines: []string{"허위 기재 시 불이익"}},
		{Header: "지원유의사항안내", SemanticZone: ZoneOthers, Lines: []string{"compound header survives"}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "주요업무", out[0].Header)
	assert.Equal(t, "지원유의사항안내", out[1].Header)
}

func TestBuildCanonicalMap(t *testing.T) {
	t.Run("prose then list items per section", func(t *testing.T) {
		canonical := BuildCanonicalMap([]Section{
			{SemanticZone: ZoneIntro, Lines: []string{"소개"}},
			{
				Header:       "주요업무",
				SemanticZone: ZoneResponsibilities,
				Lines:        []string{"팀을 소개합니다"},
				Lists:        [][]string{{"개발", "운영"}},
			},
		})

		assert.Equal(t, []string{"소개"}, canonical[ZoneIntro])
		assert.Equal(t, []string{"팀을 소개합니다", "개발", "운영"}, canonical[ZoneResponsibilities])
	})

	t.Run("same zone accumulates in document order", func(t *testing.T) {
		canonical := BuildCanonicalMap([]Section{
			{Header: "자격요건", SemanticZone: ZoneRequirements, Lines: []string{"경력 3년"}},
			{Header: "지원자격", SemanticZone: ZoneRequirements, Lines: []string{"학력 무관"}},
		})

		assert.Equal(t, []string{"경력 3년", "학력 무관"}, canonical[ZoneRequirements])
	})

	t.Run("empty sections never create keys", func(t *testing.T) {
		canonical := BuildCanonicalMap([]Section{
			{Header: "주요업무", SemanticZone: ZoneResponsibilities},
		})

		assert.Empty(t, canonical)
	})
}

func TestFullStructuralFlow(t *testing.T) {
	reg := testRegistry(t)
	detector := NewHeaderDetector(reg.Headers)
	validator := NewPostValidator(reg.Headers, nil)
	tagger := NewZoneTagger(reg.Sections)

	lines := []string{
		"주요업무",
		"• 백엔드 API 개발",
		"• 데이터 파이프라인 운영",
		"자격요건",
		"• Java/Kotlin 3년 이상",
		"• AWS 운영 경험",
		"우대사항",
		"• Kafka 운영 경험",
		"마감일",
		"상시채용",
	}

	sections := BuildSections(lines, detector)
	sections = FromRawSections(validator.Validate(ToRawSections(sections)))
	sections = FilterSections(tagger.Tag(sections))
	canonical := BuildCanonicalMap(sections)

	require.Len(t, canonical, 3)
	assert.Equal(t, []string{"백엔드 API 개발", "데이터 파이프라인 운영"}, canonical[ZoneResponsibilities])
	assert.Equal(t, []string{"Java/Kotlin 3년 이상", "AWS 운영 경험"}, canonical[ZoneRequirements])
	assert.Equal(t, []string{"Kafka 운영 경험"}, canonical[ZonePreferred])
}
