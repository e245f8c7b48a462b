package keywords

import "strings"

// Coverage is the minimum share of a normalised line a header keyword must
// cover for a containment match to count. Protects against lines like
// "커넥트웨이브·서울금천구·신입 경력0년" matching "경력".
const coverageThreshold = 0.4

// noiseLengthWindow bounds substring noise matches: a navigation pattern only
// kills a line when the line is at most this many runes longer than the
// pattern.
const noiseLengthWindow = 30

// Contains reports whether text (already lower-cased) contains any header
// keyword as a substring.
func (h *HeaderSet) Contains(text string) bool {
	lower := strings.ToLower(text)

	for _, kw := range h.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// MatchLongest returns the header keyword matched by text, preferring the
// longest space-stripped keyword when several match. Matching checks both the
// lower-cased text and its space-stripped form, so "채용 절차" matches lines
// written as "채용절차".
func (h *HeaderSet) MatchLongest(text string) (string, bool) {
	lower := strings.ToLower(text)
	noSpace := strings.ReplaceAll(lower, " ", "")

	var (
		matched    string
		matchedLen int
	)

	for _, kw := range h.keywords {
		kwNoSpace := strings.ReplaceAll(kw, " ", "")
		if strings.Contains(lower, kw) || strings.Contains(noSpace, kwNoSpace) {
			if n := len([]rune(kwNoSpace)); n > matchedLen {
				matched = kw
				matchedLen = n
			}
		}
	}

	return matched, matched != ""
}

// CoverageMatch reports whether line matches a header keyword either exactly
// (lower-cased) or by whitespace-stripped containment where the keyword
// covers at least 40% of the stripped line.
func (h *HeaderSet) CoverageMatch(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return false
	}

	if _, ok := h.index[lower]; ok {
		return true
	}

	noSpace := strings.ReplaceAll(lower, " ", "")
	lineLen := len([]rune(noSpace))
	if lineLen == 0 {
		return false
	}

	for _, kw := range h.keywords {
		kwNoSpace := strings.ReplaceAll(kw, " ", "")
		if !strings.Contains(noSpace, kwNoSpace) {
			continue
		}

		if float64(len([]rune(kwNoSpace)))/float64(lineLen) >= coverageThreshold {
			return true
		}
	}

	return false
}

// Keywords returns the loaded header keywords, lower-cased.
func (h *HeaderSet) Keywords() []string {
	return h.keywords
}

// IsNoise reports whether a whole line is UI/system noise. Exact matches kill
// the line outright; prefix and suffix matches anchor at the line ends;
// navigation patterns are substring matches accepted only when the line is
// not much longer than the pattern.
func (n *NoiseSet) IsNoise(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return false
	}

	if _, ok := n.Exact[lower]; ok {
		return true
	}

	for _, p := range n.Prefix {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}

	for _, s := range n.Suffix {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}

	lineLen := len([]rune(lower))

	for _, nav := range n.Navigation {
		if !strings.Contains(lower, nav) {
			continue
		}

		if lineLen-len([]rune(nav)) <= noiseLengthWindow {
			return true
		}
	}

	return false
}

// MetaContains reports whether text contains any JD meta keyword
// (전형절차, 고용형태, 근무지 and friends).
func (r *Registry) MetaContains(text string) bool {
	lower := strings.ToLower(text)

	for kw := range r.Meta {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// InVocab reports whether token (case-insensitive) is protected technical
// vocabulary that OCR token repair must never rewrite.
func (r *Registry) InVocab(token string) bool {
	_, ok := r.JDVocab[strings.ToLower(token)]
	return ok
}
