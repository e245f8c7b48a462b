package section

import (
	"strings"
	"unicode"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/textnorm"
)

// Lexical header length limits.
const (
	headerMaxLength       = 80
	shortHeaderMinLength  = 2
	shortHeaderMaxLength  = 15
	nextLineBodyMinLength = 20
)

// HeaderDetector decides whether a line is a section header by layout
// signals and keyword matching. Used by the TEXT and URL sources; OCR has
// its own visual detector.
type HeaderDetector struct {
	headers *keywords.HeaderSet
}

// NewHeaderDetector returns a detector using the configured header keywords.
func NewHeaderDetector(headers *keywords.HeaderSet) *HeaderDetector {
	return &HeaderDetector{headers: headers}
}

// IsHeader reports whether line is a section header. next is the following
// line, empty when line is the last one.
func (d *HeaderDetector) IsHeader(line, next string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}

	if textnorm.IsBullet(stripped) {
		return false
	}

	// Keyword presence is the strongest signal.
	if _, ok := d.headers.MatchLongest(stripped); ok {
		return true
	}

	// [...] and <...> enclosure marks a title regardless of content.
	if isBracketEnclosed(stripped) {
		return true
	}

	runes := []rune(stripped)
	if len(runes) > headerMaxLength {
		return false
	}

	// Parenthesised text reads as an aside, not a title.
	if strings.ContainsAny(stripped, "()") {
		return false
	}

	nextStripped := strings.TrimSpace(next)

	if textnorm.IsBullet(nextStripped) {
		return len(runes) >= shortHeaderMinLength && len(runes) <= shortHeaderMaxLength
	}

	if strings.HasSuffix(stripped, ":") {
		return true
	}

	// Short standalone line followed by body-length prose.
	if nextStripped != "" &&
		len(runes) >= shortHeaderMinLength && len(runes) <= shortHeaderMaxLength &&
		len([]rune(nextStripped)) >= nextLineBodyMinLength &&
		startsWithTitleRune(runes[0]) {
		return true
	}

	return false
}

func isBracketEnclosed(s string) bool {
	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"))
}

func startsWithTitleRune(r rune) bool {
	return unicode.IsUpper(r) || (r >= '가' && r <= '힣')
}
