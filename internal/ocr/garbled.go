package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

// Garbled-Hangul thresholds. Short lines need a near-total Hangul ratio
// with no particle to be declared garbled; long lines with plenty of Hangul
// are protected outright.
const (
	garbledShortMaxLen    = 12
	garbledMidMaxLen      = 30
	garbledShortRatio     = 0.9
	garbledMidRatio       = 0.8
	garbledLongRatio      = 0.9
	garbledLongSafeHangul = 50
	garbledUpperRatio     = 0.7
	garbledSpecialRatio   = 0.3
)

// koreanParticleRe matches particles, endings, and connective forms whose
// presence indicates real Korean rather than OCR debris.
var koreanParticleRe = regexp.MustCompile(
	`(은|는|이|가|을|를|의|에|에서|로|으로|와|과|도|만|` +
		`부터|까지|마다|조차|밖에|` +
		`하다|되다|있다|없다|이다|하고|이며|입니다|합니다|` +
		`된|할|한|등|및|적)`)

// Structural damage patterns: Hangul-Caps interleavings, starred-out
// characters, and fragmented Jamo runs.
var garbledPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[가-힣][A-Z][가-힣][A-Z][가-힣]`),
	regexp.MustCompile(`[가-힣]{1,2}[*]+[가-힣]`),
	regexp.MustCompile(`[ㄱ-ㅎㅏ-ㅣ]{2,}`),
}

// GarbledDetector flags OCR-damaged Korean lines. Lines carrying any header
// or meta keyword are always protected.
type GarbledDetector struct {
	registry *keywords.Registry
}

// NewGarbledDetector returns a detector protecting the registry's header
// and meta keywords.
func NewGarbledDetector(registry *keywords.Registry) *GarbledDetector {
	return &GarbledDetector{registry: registry}
}

// IsGarbled reports whether text is OCR-damaged Korean noise.
func (d *GarbledDetector) IsGarbled(text string) bool {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < 2 {
		return true
	}

	if d.registry != nil {
		if d.registry.Headers.Contains(text) || d.registry.MetaContains(text) {
			return false
		}
	}

	for _, p := range garbledPatterns {
		if p.MatchString(text) {
			return true
		}
	}

	runes := []rune(text)
	total := len(runes)

	hangul := 0
	upper := 0
	special := 0

	for _, r := range runes {
		switch {
		case r >= '가' && r <= '힣':
			hangul++
		case unicode.IsUpper(r):
			upper++
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) &&
			!strings.ContainsRune(":-,.()/▶", r) {
			special++
		}
	}

	if hangul == 0 {
		return false
	}

	ratio := float64(hangul) / float64(total)
	hasParticle := koreanParticleRe.MatchString(text)

	switch {
	case total <= garbledShortMaxLen:
		if ratio > garbledShortRatio && !hasParticle {
			return true
		}

		if ratio >= garbledUpperRatio && upper == 1 {
			return true
		}

	case total <= garbledMidMaxLen:
		if ratio > garbledMidRatio && !hasParticle {
			return true
		}

		if float64(special)/float64(total) > garbledSpecialRatio {
			return true
		}

	default:
		if hangul >= garbledLongSafeHangul {
			return false
		}

		if ratio > garbledLongRatio && !hasParticle {
			return true
		}
	}

	return false
}
