// Package textnorm turns one raw JD text blob into the line document every
// downstream stage consumes. Character-level normalisation only: no semantic
// interpretation, no line merging, deterministic and idempotent.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

// Pre-compiled patterns. All of these run on every line of every document.
var (
	// C0/C1 control characters except \n (handled by newline unification).
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	zeroWidthRe  = regexp.MustCompile(`[\x{200B}\x{200C}\x{200D}]`)
	multiSpaceRe = regexp.MustCompile(`[ ]{2,}`)
	newlineRe    = regexp.MustCompile("\r\n|\r")

	// Boundaries between Hangul and ASCII letters/digits, both directions.
	// OCR output and web copies frequently drop the space there.
	hangulASCIIRe = regexp.MustCompile(`([가-힣])([A-Za-z])`)
	asciiHangulRe = regexp.MustCompile(`([A-Za-z])([가-힣])`)
	hangulDigitRe = regexp.MustCompile(`([가-힣])([0-9])`)
	digitHangulRe = regexp.MustCompile(`([0-9])([가-힣])`)

	// Bullet prefixes normalised to "• ". Indent is preserved.
	symbolBulletRe   = regexp.MustCompile(`^(\s*)[•·\-–—*]\s*`)
	numberedBulletRe = regexp.MustCompile(`^(\s*)(?:\(\d{1,2}\)|\d{1,2}[.)])\s+`)
	circledBulletRe  = regexp.MustCompile(`^(\s*)[①-⑩]\s*`)
	koreanBulletRe   = regexp.MustCompile(`^(\s*)[가나다라마바사아자차카타파하]\.\s+`)
)

const (
	// Bullet is the standard list prefix after bullet normalisation.
	Bullet = "• "

	damageMinLen       = 5
	damageSymbolRatio  = 0.6
	damageShortLineLen = 3
)

// Normalizer is the core line-document builder shared by all three sources.
type Normalizer struct {
	noise *keywords.NoiseSet
}

// New returns a Normalizer using the given noise keyword buckets.
func New(noise *keywords.NoiseSet) *Normalizer {
	return &Normalizer{noise: noise}
}

// Process converts one raw text blob into ordered non-empty lines.
// Running Process over a rejoining of its own output is a no-op.
func (n *Normalizer) Process(raw string) []string {
	text := NormalizeText(raw)

	var lines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if n.noise != nil && n.noise.IsNoise(line) {
			continue
		}

		line = NormalizeBullet(line)
		if isDamaged(line) {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

// NormalizeText performs the character-level pass: NFKC, newline unification,
// BOM/zero-width/control stripping, tab conversion, Hangul boundary spacing,
// and space collapsing. It never merges, splits, trims, or reorders lines.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFKC.String(text)
	text = newlineRe.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "\uFEFF", "")
	text = zeroWidthRe.ReplaceAllString(text, "")
	text = controlCharsRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\t", " ")

	text = hangulASCIIRe.ReplaceAllString(text, "$1 $2")
	text = asciiHangulRe.ReplaceAllString(text, "$1 $2")
	text = hangulDigitRe.ReplaceAllString(text, "$1 $2")
	text = digitHangulRe.ReplaceAllString(text, "$1 $2")

	return multiSpaceRe.ReplaceAllString(text, " ")
}

// NormalizeBullet rewrites any recognised bullet prefix to the standard "• "
// prefix, preserving leading indent. Non-bullet lines pass through unchanged.
func NormalizeBullet(line string) string {
	for _, re := range []*regexp.Regexp{symbolBulletRe, circledBulletRe, numberedBulletRe, koreanBulletRe} {
		if re.MatchString(line) {
			return re.ReplaceAllString(line, "${1}"+Bullet)
		}
	}

	return line
}

// IsBullet reports whether line starts with the standard bullet prefix,
// ignoring leading indent.
func IsBullet(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), Bullet) ||
		strings.TrimLeft(line, " ") == strings.TrimSpace(Bullet)
}

// BulletText returns the line content after the standard bullet prefix.
func BulletText(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	trimmed = strings.TrimPrefix(trimmed, Bullet)
	trimmed = strings.TrimPrefix(trimmed, strings.TrimSpace(Bullet))

	return strings.TrimSpace(trimmed)
}

// isDamaged drops obviously broken lines: very short lines with no
// alphanumeric or Hangul content, and longer lines that are mostly symbols.
func isDamaged(line string) bool {
	runes := []rune(line)

	meaningful := 0
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			meaningful++
		}
	}

	if len(runes) <= damageShortLineLen && meaningful == 0 {
		return true
	}

	if len(runes) >= damageMinLen {
		symbolRatio := 1 - float64(meaningful)/float64(len(runes))
		if symbolRatio >= damageSymbolRatio {
			return true
		}
	}

	return false
}
