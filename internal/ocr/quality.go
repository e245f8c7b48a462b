package ocr

import (
	"strings"
	"unicode"
)

// Quality gate defaults.
const (
	minLineConfidence = 45.0
	maxGarbageRatio   = 0.6

	garbageAlnumRatio   = 0.4
	garbageSpecialRatio = 0.5
)

// FilterLowQuality removes lines the engine itself is unlikely to have read
// correctly: empty text, sub-threshold confidence, or a garbage-token
// majority. No text is modified here. Dropped lines are returned for
// observability.
func FilterLowQuality(lines []Line) (passed, dropped []Line) {
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			dropped = append(dropped, line)
			continue
		}

		if line.Confidence < minLineConfidence {
			dropped = append(dropped, line)
			continue
		}

		tokens := strings.Fields(text)

		garbage := 0
		for _, token := range tokens {
			if looksGarbageToken(token) {
				garbage++
			}
		}

		if float64(garbage)/float64(len(tokens)) > maxGarbageRatio {
			dropped = append(dropped, line)
			continue
		}

		passed = append(passed, line)
	}

	return passed, dropped
}

// looksGarbageToken is deliberately conservative: technical tokens like
// k8s, gRPC, and Node.js must survive.
func looksGarbageToken(token string) bool {
	runes := []rune(token)
	length := len(runes)

	if length <= 1 {
		return true
	}

	alnum := 0
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}

	if float64(alnum)/float64(length) < garbageAlnumRatio {
		return true
	}

	if float64(length-alnum) > float64(length)*garbageSpecialRatio {
		return true
	}

	return false
}
