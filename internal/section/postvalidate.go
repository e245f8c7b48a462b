package section

import (
	"log/slog"
	"strings"

	"github.com/hirelog-io/preprocess/internal/keywords"
)

// IntroKey is the sentinel header key for the header-less intro block in
// the raw section view.
const IntroKey = "__intro__"

// Post-validation constants.
const (
	footerMaxLineLength  = 15
	footerMinConsecutive = 2
	coverageThreshold    = 0.4
)

// RawSection is one entry of the ordered {headerKey, lines} view the
// post-validator operates on. All three sources converge here.
type RawSection struct {
	Key   string
	Lines []string
}

// PostValidator repairs structural header-detection mistakes common to all
// three sources: spurious leading headers, header-only runs, and trailing
// platform badges.
type PostValidator struct {
	headers *keywords.HeaderSet
	logger  *slog.Logger
}

// NewPostValidator returns a PostValidator using the configured header
// keywords. logger may be nil.
func NewPostValidator(headers *keywords.HeaderSet, logger *slog.Logger) *PostValidator {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostValidator{headers: headers, logger: logger}
}

// Validate applies the three repair rules in order: intro absorption,
// empty-header merge, footer strip.
func (v *PostValidator) Validate(sections []RawSection) []RawSection {
	sections = v.absorbNonKeywordIntro(sections)
	sections = v.mergeEmptyHeaders(sections)
	sections = v.stripFooterNoise(sections)

	return sections
}

// absorbNonKeywordIntro walks from the document start and folds every
// section whose key fails the keyword coverage gate into the intro bucket,
// key included. Company names and position titles promoted to headers by
// visual signals land here. Stops at the first keyword-matching header.
func (v *PostValidator) absorbNonKeywordIntro(sections []RawSection) []RawSection {
	if len(sections) == 0 {
		return sections
	}

	var introLines []string

	firstKeywordIdx := len(sections)

	for i, sec := range sections {
		if sec.Key == IntroKey {
			introLines = append(introLines, sec.Lines...)
			continue
		}

		if v.matchesKeyword(sec.Key) {
			firstKeywordIdx = i
			break
		}

		v.logger.Debug("post-validate: absorbing non-keyword header into intro",
			slog.String("header", sec.Key))

		introLines = append(introLines, sec.Key)
		introLines = append(introLines, sec.Lines...)
		firstKeywordIdx = i + 1
	}

	var result []RawSection

	if len(introLines) > 0 {
		result = append(result, RawSection{Key: IntroKey, Lines: introLines})
	}

	result = append(result, sections[firstKeywordIdx:]...)

	return result
}

// mergeEmptyHeaders folds subsequent header keys into a content-less header
// as content lines until a content-bearing header is reached; that header's
// key and lines close the merge.
func (v *PostValidator) mergeEmptyHeaders(sections []RawSection) []RawSection {
	var result []RawSection

	i := 0
	for i < len(sections) {
		sec := sections[i]

		if sec.Key == IntroKey || len(sec.Lines) > 0 {
			result = append(result, sec)
			i++

			continue
		}

		var merged []string

		j := i + 1
		for j < len(sections) {
			next := sections[j]
			merged = append(merged, next.Key)
			merged = append(merged, next.Lines...)
			j++

			if len(next.Lines) > 0 {
				break
			}
		}

		v.logger.Debug("post-validate: merged headers into empty header",
			slog.String("header", sec.Key),
			slog.Int("absorbed", j-i-1))

		result = append(result, RawSection{Key: sec.Key, Lines: merged})
		i = j
	}

	return result
}

// stripFooterNoise removes a trailing run of short lines from the last
// section. Platform badges and tag chips ("적극채용중", "커피·스낵바") end
// up there; a run shorter than two lines is left alone.
func (v *PostValidator) stripFooterNoise(sections []RawSection) []RawSection {
	if len(sections) == 0 {
		return sections
	}

	last := &sections[len(sections)-1]
	if len(last.Lines) == 0 {
		return sections
	}

	cutoff := len(last.Lines)

	for i := len(last.Lines) - 1; i >= 0; i-- {
		if len([]rune(strings.TrimSpace(last.Lines[i]))) > footerMaxLineLength {
			break
		}

		cutoff = i
	}

	if removed := len(last.Lines) - cutoff; removed >= footerMinConsecutive {
		v.logger.Debug("post-validate: stripped footer noise",
			slog.String("header", last.Key),
			slog.Int("lines", removed))

		last.Lines = last.Lines[:cutoff]
	}

	return sections
}

// matchesKeyword is the authoritative header gate: the key, normalised and
// de-bracketed, must overlap a header keyword with coverage >= 40%.
func (v *PostValidator) matchesKeyword(key string) bool {
	normalized := normalizeForMatch(key)
	if normalized == "" {
		return false
	}

	normLen := len([]rune(normalized))

	for _, kw := range v.headers.Keywords() {
		kwNorm := strings.ReplaceAll(kw, " ", "")
		if !strings.Contains(normalized, kwNorm) && !strings.Contains(kwNorm, normalized) {
			continue
		}

		if float64(len([]rune(kwNorm)))/float64(normLen) >= coverageThreshold {
			return true
		}
	}

	return false
}

func normalizeForMatch(text string) string {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "")

	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '<', '>', '【', '】':
			return -1
		default:
			return r
		}
	}, s)
}

// ToRawSections flattens Section objects into the ordered raw view, lists
// unrolled into lines.
func ToRawSections(sections []Section) []RawSection {
	raw := make([]RawSection, 0, len(sections))

	for _, sec := range sections {
		key := sec.Header
		if key == "" {
			key = IntroKey
		}

		lines := make([]string, 0, len(sec.Lines))
		lines = append(lines, sec.Lines...)

		for _, list := range sec.Lists {
			lines = append(lines, list...)
		}

		raw = append(raw, RawSection{Key: key, Lines: lines})
	}

	return raw
}

// FromRawSections restores Section objects from the validated raw view.
// The intro key maps back to a header-less intro section; everything else
// starts over as ZoneOthers for the semantic tagger.
func FromRawSections(raw []RawSection) []Section {
	sections := make([]Section, 0, len(raw))

	for _, rs := range raw {
		if rs.Key == IntroKey {
			sections = append(sections, Section{
				Lines:        rs.Lines,
				SemanticZone: ZoneIntro,
			})

			continue
		}

		sections = append(sections, Section{
			Header:       rs.Key,
			Lines:        rs.Lines,
			SemanticZone: ZoneOthers,
		})
	}

	return sections
}
