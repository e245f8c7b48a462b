// Package section turns the normalised line document into the canonical
// zone map: header detection, section building, list grouping, structural
// post-validation, semantic zone tagging, and section filtering.
//
// Layout only. Nothing here interprets meaning beyond keyword lookups; a
// missed section is always preferable to a wrong one.
package section

import "strings"

// Semantic zone tags. Closed set; the canonical map is keyed by these.
const (
	ZoneIntro                = "intro"
	ZoneCompany              = "company"
	ZoneResponsibilities     = "responsibilities"
	ZoneRequirements         = "requirements"
	ZonePreferred            = "preferred"
	ZoneExperience           = "experience"
	ZoneSkills               = "skills"
	ZoneEmploymentType       = "employment_type"
	ZoneLocation             = "location"
	ZoneBenefits             = "benefits"
	ZoneApplicationQuestions = "application_questions"
	ZoneProcess              = "process"
	ZoneOthers               = "others"
)

// zonePriority is the fixed tagging order. First group to match a header
// wins, so responsibilities beats requirements on compound headers.
var zonePriority = []string{
	ZoneResponsibilities,
	ZonePreferred,
	ZoneRequirements,
	ZoneExperience,
	ZoneCompany,
	ZoneBenefits,
	ZoneApplicationQuestions,
	ZoneProcess,
	ZoneSkills,
	ZoneEmploymentType,
	ZoneLocation,
}

// Section is one logical block of a JD: an optional header, prose lines,
// and bullet lists grouped from consecutive bullet lines.
type Section struct {
	// Header is the canonical header key (lower-cased, spaces removed),
	// empty for the intro section.
	Header string

	// Lines holds prose lines in document order.
	Lines []string

	// Lists holds bullet groups; each group is one run of consecutive
	// bullet lines with the bullet prefix stripped.
	Lists [][]string

	// SemanticZone is the zone tag, ZoneIntro for the intro section and
	// ZoneOthers until the tagger assigns something better.
	SemanticZone string
}

// IsIntro reports whether the section is the header-less intro block.
func (s *Section) IsIntro() bool {
	return s.Header == "" && s.SemanticZone == ZoneIntro
}

// NormalizeHeaderKey produces the canonical header key: trimmed,
// lower-cased, all whitespace removed.
func NormalizeHeaderKey(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "")
}
