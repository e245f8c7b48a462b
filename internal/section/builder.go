package section

import (
	"strings"

	"github.com/hirelog-io/preprocess/internal/textnorm"
)

// BuildSections splits the line document into layout sections. The document
// opens with a header-less intro section; every detected header closes the
// current section (emitted only when it has content) and opens a new one
// keyed by the canonical header.
func BuildSections(lines []string, detector *HeaderDetector) []Section {
	var sections []Section

	current := Section{SemanticZone: ZoneIntro}

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if detector.IsHeader(stripped, next) {
			if len(current.Lines) > 0 || len(current.Lists) > 0 {
				sections = append(sections, current)
			}

			current = Section{
				Header:       NormalizeHeaderKey(stripped),
				SemanticZone: ZoneOthers,
			}

			continue
		}

		if stripped != "" {
			current.Lines = append(current.Lines, stripped)
		}
	}

	if len(current.Lines) > 0 || len(current.Lists) > 0 {
		sections = append(sections, current)
	}

	for i := range sections {
		sections[i] = GroupLists(sections[i])
	}

	return sections
}

// GroupLists collapses consecutive bullet lines inside a section into list
// groups, leaving prose lines in place. A section may interleave several
// lists with prose.
func GroupLists(s Section) Section {
	var (
		prose   []string
		current []string
		lists   [][]string
	)

	for _, line := range s.Lines {
		if textnorm.IsBullet(line) {
			current = append(current, textnorm.BulletText(line))
			continue
		}

		if len(current) > 0 {
			lists = append(lists, current)
			current = nil
		}

		prose = append(prose, line)
	}

	if len(current) > 0 {
		lists = append(lists, current)
	}

	s.Lines = prose
	s.Lists = lists

	return s
}
