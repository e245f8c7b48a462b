// Package meta extracts document-level metadata from JD lines: the
// recruitment period and the technology skill set.
package meta

import (
	"regexp"
	"strings"
)

// PeriodType classifies how a posting's recruitment window is specified.
type PeriodType string

// Valid period types.
const (
	PeriodFixed   PeriodType = "FIXED"   // explicit date range
	PeriodAlways  PeriodType = "ALWAYS"  // 상시채용
	PeriodOpen    PeriodType = "OPEN"    // 수시채용 / 채용시 마감
	PeriodUnknown PeriodType = "UNKNOWN" // no period information found
)

// IsValid returns true if the period type is one of the defined values.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodFixed, PeriodAlways, PeriodOpen, PeriodUnknown:
		return true
	default:
		return false
	}
}

// RecruitmentPeriod is the extracted recruitment window. OpenDate and
// CloseDate are raw date strings (e.g. "2026.01.19") and are only set for
// PeriodFixed. RawTexts records the lines the decision was based on.
type RecruitmentPeriod struct {
	PeriodType PeriodType
	OpenDate   string
	CloseDate  string
	RawTexts   []string
}

var (
	// HH:MM substrings are removed before date matching so "17:00" does not
	// leak into a date.
	timeRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)

	dateRangeRe = regexp.MustCompile(
		`(\d{2,4}[./-]\d{1,2}[./-]\d{1,2})\s*~\s*(\d{2,4}[./-]\d{1,2}[./-]\d{1,2})`)
)

// Status keyword lists, scanned in order per line so a line containing both
// resolves to ALWAYS.
var (
	alwaysTerms = []string{"상시채용", "상시"}
	openTerms   = []string{"수시채용", "수시", "채용시", "조기 마감"}
)

// ExtractRecruitmentPeriod decides the recruitment window for a document.
// Priority: explicit date range (FIXED) over ALWAYS over OPEN over UNKNOWN.
func ExtractRecruitmentPeriod(lines []string) RecruitmentPeriod {
	for _, line := range lines {
		clean := timeRe.ReplaceAllString(line, "")

		if m := dateRangeRe.FindStringSubmatch(clean); m != nil {
			return RecruitmentPeriod{
				PeriodType: PeriodFixed,
				OpenDate:   m[1],
				CloseDate:  m[2],
				RawTexts:   []string{line},
			}
		}
	}

	for _, line := range lines {
		if containsAny(line, alwaysTerms) {
			return RecruitmentPeriod{PeriodType: PeriodAlways, RawTexts: []string{line}}
		}

		if containsAny(line, openTerms) {
			return RecruitmentPeriod{PeriodType: PeriodOpen, RawTexts: []string{line}}
		}
	}

	return RecruitmentPeriod{PeriodType: PeriodUnknown}
}

func containsAny(line string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(line, t) {
			return true
		}
	}

	return false
}
