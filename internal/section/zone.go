package section

import "strings"

// ZoneTagger assigns semantic zones to sections by header keyword lookup.
// Weak hints only: a section that matches nothing stays ZoneOthers, and a
// section already tagged (intro included) is never retagged.
type ZoneTagger struct {
	// groups maps zone tag to its space-stripped, lower-cased keywords,
	// in priority order.
	groups map[string][]string
}

// NewZoneTagger builds a tagger from the section keyword groups.
func NewZoneTagger(sections map[string][]string) *ZoneTagger {
	groups := make(map[string][]string, len(sections))

	for zone, kws := range sections {
		stripped := make([]string, 0, len(kws))
		for _, kw := range kws {
			stripped = append(stripped, strings.ReplaceAll(strings.ToLower(kw), " ", ""))
		}

		groups[zone] = stripped
	}

	return &ZoneTagger{groups: groups}
}

// Tag assigns zones in place and returns the sections.
func (t *ZoneTagger) Tag(sections []Section) []Section {
	for i := range sections {
		if sections[i].SemanticZone != ZoneOthers {
			continue
		}

		sections[i].SemanticZone = t.detect(sections[i].Header)
	}

	return sections
}

// detect matches the canonical header key against each zone's keywords in
// the fixed priority order.
func (t *ZoneTagger) detect(header string) string {
	if header == "" {
		return ZoneOthers
	}

	h := strings.ReplaceAll(strings.ToLower(header), " ", "")

	for _, zone := range zonePriority {
		for _, kw := range t.groups[zone] {
			if kw != "" && strings.Contains(h, kw) {
				return zone
			}
		}
	}

	return ZoneOthers
}

// sectionBlacklist lists administrative headers whose sections never reach
// the canonical map. Matching is exact on the normalised header, so compound
// headers are kept.
var sectionBlacklist = map[string]struct{}{
	"유의사항":       {},
	"마감일":        {},
	"참고사항":       {},
	"안내사항":       {},
	"기타사항":       {},
	"notice":     {},
	"disclaimer": {},
}

// FilterSections removes blacklisted sections.
func FilterSections(sections []Section) []Section {
	result := make([]Section, 0, len(sections))

	for _, sec := range sections {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sec.Header)), " ", "")
		if _, drop := sectionBlacklist[key]; drop {
			continue
		}

		result = append(result, sec)
	}

	return result
}

// BuildCanonicalMap flattens sections into the zone-keyed canonical map.
// Document order is preserved within a zone: prose lines first, then list
// items, per section. Zones never map to empty lists.
func BuildCanonicalMap(sections []Section) map[string][]string {
	canonical := make(map[string][]string)

	for _, sec := range sections {
		zone := sec.SemanticZone
		if zone == "" {
			zone = ZoneOthers
		}

		var lines []string
		lines = append(lines, sec.Lines...)

		for _, list := range sec.Lists {
			lines = append(lines, list...)
		}

		if len(lines) == 0 {
			continue
		}

		canonical[zone] = append(canonical[zone], lines...)
	}

	return canonical
}
