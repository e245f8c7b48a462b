package urlfetch

import (
	"regexp"
	"strings"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

const (
	// A run of this many consecutive short lines is treated as menu debris.
	menuFragmentRun    = 5
	menuFragmentMaxLen = 10

	shortLineKeepLen = 2
)

// uiNoiseExact lists widget captions removed on exact case-insensitive match.
var uiNoiseExact = buildNoiseSet([]string{
	"닫기", "열기", "펼치기", "접기",
	"공유", "공유하기", "저장", "저장하기",
	"지원하기", "바로지원", "간편지원", "즉시지원",
	"스크랩", "스크랩하기", "찜하기", "찜",
	"목록", "목록으로", "뒤로", "뒤로가기",
	"로그인", "회원가입", "마이페이지",
	"검색", "검색하기", "초기화", "필터",
	"더보기", "더 보기", "자세히", "자세히보기",
	"이전", "다음", "처음", "끝",
	"확인", "취소",
	"복사", "링크복사", "URL복사",
	"신고", "신고하기", "문의", "문의하기",
	"좋아요", "추천", "조회수", "조회",

	"Close", "Open", "Expand", "Collapse",
	"Share", "Save", "Apply", "Apply Now",
	"Bookmark", "Like", "Follow",
	"Back", "Next", "Previous", "First", "Last",
	"Login", "Sign In", "Sign Up", "Register",
	"Search", "Filter", "Reset", "Clear",
	"More", "View More", "Read More", "See More",
	"OK", "Cancel", "Confirm",
	"Copy", "Copy Link", "Report",
})

func buildNoiseSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))

	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}

	return set
}

// uiNoisePatterns remove counters, badges, and posting metadata that sit
// inside the body block on most job boards.
var uiNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+일\s*전$`),
	regexp.MustCompile(`^\d+시간\s*전$`),
	regexp.MustCompile(`^\d+분\s*전$`),
	regexp.MustCompile(`^조회\s*\d+`),
	regexp.MustCompile(`(?i)^D-\d+$`),
	regexp.MustCompile(`(?i)^마감\s*D-\d+`),
	regexp.MustCompile(`^\d+명\s*지원`),
	regexp.MustCompile(`^지원자\s*\d+명`),
	regexp.MustCompile(`^평점\s*[\d.]+`),
	regexp.MustCompile(`^★+`),
	regexp.MustCompile(`^⭐+`),
	regexp.MustCompile(`^©`),
	regexp.MustCompile(`(?i)^Copyright`),
	regexp.MustCompile(`(?i)^All rights reserved`),
	regexp.MustCompile(`^등록일\s*:?\s*\d{4}`),
	regexp.MustCompile(`^수정일\s*:?\s*\d{4}`),
	regexp.MustCompile(`(?i)^Posted\s*:?\s*\d`),
	regexp.MustCompile(`(?i)^Updated\s*:?\s*\d`),
	regexp.MustCompile(`^마감일\s*:?\s*\d{4}`),
}

var (
	tabCarriageRe = regexp.MustCompile(`[\t\r]+`)
	doubleSpaceRe = regexp.MustCompile(` {2,}`)
	symbolRunRe   = regexp.MustCompile(`[·•\-]{3,}`)
	equalsRunRe   = regexp.MustCompile(`={3,}`)
	dashRunRe     = regexp.MustCompile(`-{3,}`)
)

// CleanLines turns parsed body text into clean deduplicated lines. Web pages
// repeat header and footer text and scatter UI captions through the body, so
// this pass is stricter than plain text normalization. headers protects
// section-header lines inside menu-fragment runs; it may be nil.
func CleanLines(text string, headers *keywords.HeaderSet) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})

	var cleaned []string

	for _, raw := range strings.Split(text, "\n") {
		line := normalizeWhitespace(raw)
		if line == "" {
			continue
		}

		if _, ok := uiNoiseExact[strings.ToLower(line)]; ok {
			continue
		}

		if matchesNoisePattern(line) {
			continue
		}

		if isTooShort(line) {
			continue
		}

		key := strings.ReplaceAll(strings.ToLower(line), " ", "")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		line = cleanSpecialChars(line)
		if line == "" {
			continue
		}

		cleaned = append(cleaned, line)
	}

	return removeMenuFragments(cleaned, headers)
}

func normalizeWhitespace(line string) string {
	line = tabCarriageRe.ReplaceAllString(line, " ")
	line = doubleSpaceRe.ReplaceAllString(line, " ")

	return strings.TrimSpace(line)
}

func matchesNoisePattern(line string) bool {
	for _, p := range uiNoisePatterns {
		if p.MatchString(line) {
			return true
		}
	}

	return false
}

// isTooShort drops meaningless fragments while keeping numeric shorthand
// such as "3년" that may carry experience requirements.
func isTooShort(line string) bool {
	if len([]rune(line)) > shortLineKeepLen {
		return false
	}

	return !containsDigit(line)
}

func cleanSpecialChars(line string) string {
	line = symbolRunRe.ReplaceAllString(line, "•")
	line = equalsRunRe.ReplaceAllString(line, "")
	line = dashRunRe.ReplaceAllString(line, "")

	return strings.TrimSpace(line)
}

// removeMenuFragments drops runs of menuFragmentRun or more consecutive
// short lines. Header-keyword lines inside such a run are kept; real JD
// headers are short too.
func removeMenuFragments(lines []string, headers *keywords.HeaderSet) []string {
	if len(lines) < menuFragmentRun {
		return lines
	}

	var result, buffer []string

	flush := func() {
		if len(buffer) >= menuFragmentRun {
			if headers != nil {
				for _, line := range buffer {
					if _, ok := headers.MatchLongest(line); ok {
						result = append(result, line)
					}
				}
			}
		} else {
			result = append(result, buffer...)
		}

		buffer = buffer[:0]
	}

	for _, line := range lines {
		if len([]rune(line)) <= menuFragmentMaxLen {
			buffer = append(buffer, line)
			continue
		}

		flush()

		result = append(result, line)
	}

	flush()

	return result
}
