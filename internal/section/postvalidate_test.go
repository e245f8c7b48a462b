package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidatorIntroAbsorption(t *testing.T) {
	v := NewPostValidator(testRegistry(t).Headers, nil)

	t.Run("leading non-keyword headers fold into intro", func(t *testing.T) {
		out := v.Validate([]RawSection{
			{Key: "커넥트웨이브·서울금천구·신입경력0년", Lines: []string{"포지션 소개"}},
			{Key: "자격요건", Lines: []string{"경력 3년"}},
		})

		require.Len(t, out, 2)
		assert.Equal(t, IntroKey, out[0].Key)
		assert.Equal(t, []string{"커넥트웨이브·서울금천구·신입경력0년", "포지션 소개"}, out[0].Lines)
		assert.Equal(t, "자격요건", out[1].Key)
	})

	t.Run("existing intro lines come first", func(t *testing.T) {
		out := v.Validate([]RawSection{
			{Key: IntroKey, Lines: []string{"회사 소개 문단"}},
			{Key: "백엔드엔지니어", Lines: []string{"포지션 설명"}},
			{Key: "주요업무", Lines: []string{"개발"}},
		})

		require.Len(t, out, 2)
		assert.Equal(t, []string{"회사 소개 문단", "백엔드엔지니어", "포지션 설명"}, out[0].Lines)
	})

	t.Run("keyword header stops absorption", func(t *testing.T) {
		out := v.Validate([]RawSection{
			{Key: "주요업무", Lines: []string{"개발"}},
			{Key: "아무헤더", Lines: []string{"본문"}},
		})

		require.Len(t, out, 2)
		assert.Equal(t, "주요업무", out[0].Key)
		assert.Equal(t, "아무헤더", out[1].Key)
	})
}

func TestPostValidatorEmptyHeaderMerge(t *testing.T) {
	v := NewPostValidator(testRegistry(t).Headers, nil)

	out := v.Validate([]RawSection{
		{Key: "채용절차", Lines: nil},
		{Key: "지원자격", Lines: nil},
		{Key: "우대사항", Lines: []string{"서류전형 - 면접 - 최종합격"}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "채용절차", out[0].Key)
	assert.Equal(t, []string{"지원자격", "우대사항", "서류전형 - 면접 - 최종합격"}, out[0].Lines)
}

func TestPostValidatorFooterStrip(t *testing.T) {
	v := NewPostValidator(testRegistry(t).Headers, nil)

	t.Run("trailing short run removed", func(t *testing.T) {
		out := v.Validate([]RawSection{
			{Key: "복리후생", Lines: []string{
				"유연근무제와 재택근무 제도를 함께 운영합니다",
				"커피·스낵바",
				"적극채용중",
			}},
		})

		require.Len(t, out, 1)
		assert.Equal(t, []string{"유연근무제와 재택근무 제도를 함께 운영합니다"}, out[0].Lines)
	})

	t.Run("single short line is kept", func(t *testing.T) {
		out := v.Validate([]RawSection{
			{Key: "마감일", Lines: []string{"상시채용"}},
		})

		require.Len(t, out, 1)
		assert.Equal(t, []string{"상시채용"}, out[0].Lines)
	})
}

func TestRawSectionConversions(t *testing.T) {
	sections := []Section{
		{SemanticZone: ZoneIntro, Lines: []string{"소개"}},
		{Header: "주요업무", SemanticZone: ZoneOthers, Lines: []string{"설명"}, Lists: [][]string{{"개발", "운영"}}},
	}

	raw := ToRawSections(sections)
	require.Len(t, raw, 2)
	assert.Equal(t, IntroKey, raw[0].Key)
	assert.Equal(t, []string{"설명", "개발", "운영"}, raw[1].Lines)

	restored := FromRawSections(raw)
	require.Len(t, restored, 2)
	assert.True(t, restored[0].IsIntro())
	assert.Equal(t, ZoneOthers, restored[1].SemanticZone)
	assert.Equal(t, "주요업무", restored[1].Header)
}
