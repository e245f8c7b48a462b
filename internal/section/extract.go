package section

import "strings"

// ExtractRawSections groups lines into the raw {headerKey, lines} view
// using the lexical header detector. Lines before the first header form the
// intro bucket; an empty intro is omitted. Used by the URL source, whose
// cleaned lines go straight to post-validation without the Section builder.
func ExtractRawSections(lines []string, detector *HeaderDetector) []RawSection {
	var sections []RawSection

	intro := RawSection{Key: IntroKey}
	current := -1

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if detector.IsHeader(stripped, next) {
			sections = append(sections, RawSection{Key: NormalizeHeaderKey(stripBrackets(stripped))})
			current = len(sections) - 1

			continue
		}

		if current < 0 {
			intro.Lines = append(intro.Lines, stripped)
			continue
		}

		sections[current].Lines = append(sections[current].Lines, stripped)
	}

	if len(intro.Lines) > 0 {
		sections = append([]RawSection{intro}, sections...)
	}

	return sections
}

func stripBrackets(s string) string {
	if (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">")) {
		trimmed := s[1 : len(s)-1]
		return strings.TrimSpace(trimmed)
	}

	return s
}
