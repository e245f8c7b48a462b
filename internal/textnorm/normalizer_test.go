package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "unifies line endings",
			input:    "a\r\nb\rc\nd",
			expected: "a\nb\nc\nd",
		},
		{
			name:     "strips BOM and zero width characters",
			input:    "\uFEFF지원\u200B하기",
			expected: "지원하기",
		},
		{
			name:     "strips control characters",
			input:    "백엔드\x00 개발\x1F자",
			expected: "백엔드 개발자",
		},
		{
			name:     "tabs become single spaces",
			input:    "주요업무\t정리",
			expected: "주요업무 정리",
		},
		{
			name:     "spaces hangul to ascii boundary",
			input:    "백엔드API개발",
			expected: "백엔드 API 개발",
		},
		{
			name:     "spaces hangul to digit boundary",
			input:    "경력3년이상",
			expected: "경력 3 년이상",
		},
		{
			name:     "collapses space runs",
			input:    "주요   업무",
			expected: "주요 업무",
		},
		{
			name:     "nfkc folds fullwidth ascii",
			input:    "ＡＰＩ",
			expected: "API",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeBullet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dot bullet", "· 백엔드 API 개발", "• 백엔드 API 개발"},
		{"dash bullet", "- 백엔드 API 개발", "• 백엔드 API 개발"},
		{"asterisk bullet", "* 백엔드 API 개발", "• 백엔드 API 개발"},
		{"numbered dot", "1. 서류전형", "• 서류전형"},
		{"numbered paren", "2) 과제전형", "• 과제전형"},
		{"parenthesised number", "(3) 면접", "• 면접"},
		{"korean letter bullet", "가. 지원서 작성", "• 지원서 작성"},
		{"indent preserved", "  - 중첩 항목", "  • 중첩 항목"},
		{"standard bullet unchanged", "• 그대로 유지", "• 그대로 유지"},
		{"date range is not a bullet", "2026.01.19 ~ 2026.02.06", "2026.01.19 ~ 2026.02.06"},
		{"plain prose unchanged", "백엔드 개발자를 찾습니다", "백엔드 개발자를 찾습니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBullet(tt.input))
		})
	}
}

func TestProcess(t *testing.T) {
	n := New(nil)

	t.Run("splits and drops empty lines", func(t *testing.T) {
		lines := n.Process("주요업무\n\n\n• 백엔드 API 개발\n")

		assert.Equal(t, []string{"주요업무", "• 백엔드 API 개발"}, lines)
	})

	t.Run("drops damaged lines", func(t *testing.T) {
		lines := n.Process("주요업무\n---\n=-=-=-=-=-=\n자격요건")

		assert.Equal(t, []string{"주요업무", "자격요건"}, lines)
	})

	t.Run("empty input yields no lines", func(t *testing.T) {
		assert.Empty(t, n.Process(""))
	})

	t.Run("idempotent over its own output", func(t *testing.T) {
		input := "주요업무\n- 백엔드API개발\n·데이터 파이프라인 운영\n\n자격요건\n1. Java/Kotlin 경험"

		first := n.Process(input)
		require.NotEmpty(t, first)

		second := n.Process(strings.Join(first, "\n"))
		assert.Equal(t, first, second)
	})
}

func TestIsBullet(t *testing.T) {
	assert.True(t, IsBullet("• 항목"))
	assert.True(t, IsBullet("  • 들여쓴 항목"))
	assert.False(t, IsBullet("주요업무"))
}

func TestBulletText(t *testing.T) {
	assert.Equal(t, "백엔드 API 개발", BulletText("• 백엔드 API 개발"))
	assert.Equal(t, "들여쓴 항목", BulletText("  • 들여쓴 항목"))
}
