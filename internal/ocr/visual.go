package ocr

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

// Visual header scoring constants.
const (
	strongHeightRatio  = 1.5
	mediumHeightRatio  = 1.3
	headerTokenMax     = 6
	rightmostExclusion = 0.65 // lines starting past 65% of page width are metadata

	headerMaxLength         = 40
	headerMaxLengthExtended = 60
	headerMaxTokens         = 6
	headerMaxTokensExtended = 10
	longKeywordMinLength    = 6

	visualScoreThreshold = 4
	headerGlyphHeight    = 45
)

var dateTimeLineRe = regexp.MustCompile(`\d{2,4}[./-]\d{1,2}|\d{1,2}:\d{2}|D-\d+|\d+일 전`)

// DetectVisualHeaders assigns a HeaderScore to every line from relative
// glyph size and position. The score feeds IsHeaderLine; nothing is dropped
// here.
func DetectVisualHeaders(lines []Line) []Line {
	medianHeight := medianOf(lines, func(l Line) float64 { return l.Height })
	medianBoxH := medianOf(lines, func(l Line) float64 { return l.BBox.H })
	pageWidth := 0.0

	for _, l := range lines {
		if r := l.BBox.X + l.BBox.W; r > pageWidth {
			pageWidth = r
		}
	}

	for i := range lines {
		lines[i].HeaderScore = visualScore(lines[i], medianHeight, medianBoxH, pageWidth)
	}

	return lines
}

func visualScore(line Line, medianHeight, medianBoxH, pageWidth float64) int {
	// Right-column fragments and date/time lines are metadata, never headers.
	if pageWidth > 0 && line.BBox.X > pageWidth*rightmostExclusion {
		return 0
	}

	if dateTimeLineRe.MatchString(line.Text) {
		return 0
	}

	score := 0

	if medianHeight > 0 {
		switch {
		case line.Height >= medianHeight*strongHeightRatio:
			score += 3
		case line.Height >= medianHeight*mediumHeightRatio:
			score += 2
		}
	}

	if line.TokenCount <= headerTokenMax {
		score++
	}

	if medianBoxH > 0 && line.BBox.H >= medianBoxH*mediumHeightRatio {
		score++
	}

	return score
}

func medianOf(lines []Line, f func(Line) float64) float64 {
	if len(lines) == 0 {
		return 0
	}

	values := make([]float64, 0, len(lines))
	for _, l := range lines {
		values = append(values, f(l))
	}

	sort.Float64s(values)

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}

	return values[mid]
}

// HeaderJudge decides whether an OCR line is a section header, combining
// keyword matching with the visual score.
type HeaderJudge struct {
	headers *keywords.HeaderSet
}

// NewHeaderJudge returns a judge using the configured header keywords.
func NewHeaderJudge(headers *keywords.HeaderSet) *HeaderJudge {
	return &HeaderJudge{headers: headers}
}

// IsHeaderLine is the conservative header decision for OCR lines. Keyword
// presence relaxes the length/token limits when the matched keyword is long
// enough (sentence-style headers); without a keyword only strong visual
// signals qualify.
func (j *HeaderJudge) IsHeaderLine(line Line) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}

	if strings.HasPrefix(text, "·") || strings.HasPrefix(text, "-") ||
		strings.HasPrefix(text, "•") || strings.HasPrefix(text, "*") {
		return false
	}

	if r := []rune(text)[0]; unicode.IsDigit(r) {
		return false
	}

	lower := strings.ToLower(text)

	if matched, ok := j.headers.MatchLongest(text); ok {
		longKeyword := len([]rune(strings.ReplaceAll(matched, " ", ""))) >= longKeywordMinLength

		maxLength, maxTokens := headerMaxLength, headerMaxTokens
		if longKeyword {
			maxLength, maxTokens = headerMaxLengthExtended, headerMaxTokensExtended
		}

		if len([]rune(text)) > maxLength || line.TokenCount > maxTokens {
			return false
		}

		if !longKeyword && looksLikeSentence(lower) {
			return false
		}

		return true
	}

	if len([]rune(text)) > headerMaxLength || line.TokenCount > headerMaxTokens {
		return false
	}

	if looksLikeSentence(lower) {
		return false
	}

	return line.HeaderScore >= visualScoreThreshold ||
		line.Height >= headerGlyphHeight ||
		strings.HasSuffix(text, ":")
}

// Explanatory sentence markers. Headers never read like prose.
var sentenceMarkers = []string{
	"합니다", "됩니다", "있습니다",
	"하는 ", "하며", "및 ",
	"으로 ", "에서 ", "하여 ",
}

func looksLikeSentence(text string) bool {
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "다") {
		return true
	}

	for _, marker := range sentenceMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}

	return false
}
