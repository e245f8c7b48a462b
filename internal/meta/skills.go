package meta

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

// SkillMatcher scans JD lines for known technology names. Patterns are
// compiled once at construction; matching is case-insensitive.
type SkillMatcher struct {
	patterns []skillPattern
}

type skillPattern struct {
	re        *regexp.Regexp
	canonical string
	category  string
}

// NewSkillMatcher builds a matcher from the skill vocabulary and its alias
// map. Plain names get word-boundary patterns; names containing separators
// like "." or "+" (node.js, c++) get explicit non-word framing because \b
// does not hold next to those characters.
func NewSkillMatcher(vocab *keywords.SkillVocab) *SkillMatcher {
	m := &SkillMatcher{}
	if vocab == nil {
		return m
	}

	canonicalCategory := make(map[string]string)

	for category, skills := range vocab.Categories {
		for _, skill := range skills {
			canonical := strings.ToLower(skill)
			canonicalCategory[canonical] = category
			m.patterns = append(m.patterns, skillPattern{
				re:        compileSkillPattern(canonical),
				canonical: canonical,
				category:  category,
			})
		}
	}

	for alias, canonical := range vocab.Aliases {
		canonical = strings.ToLower(canonical)
		category, ok := canonicalCategory[canonical]
		if !ok {
			continue
		}

		m.patterns = append(m.patterns, skillPattern{
			re:        compileSkillPattern(strings.ToLower(alias)),
			canonical: canonical,
			category:  category,
		})
	}

	return m
}

// compileSkillPattern returns the case-insensitive pattern matching name as
// a standalone token.
func compileSkillPattern(name string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(name)

	if strings.ContainsAny(name, ".+#/") {
		return regexp.MustCompile(`(?i)(^|[^0-9A-Za-z_])` + escaped + `([^0-9A-Za-z_]|$)`)
	}

	return regexp.MustCompile(`(?i)\b` + escaped + `\b`)
}

// Extract collects every canonical skill found across lines, sorted
// ascending with duplicates removed.
func (m *SkillMatcher) Extract(lines []string) []string {
	found := make(map[string]struct{})

	for _, line := range lines {
		for _, p := range m.patterns {
			if _, seen := found[p.canonical]; seen {
				continue
			}

			if p.re.MatchString(line) {
				found[p.canonical] = struct{}{}
			}
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}

	sort.Strings(skills)

	return skills
}
