package meta

// DocumentMeta is the document-level metadata attached to every successful
// preprocessing result.
type DocumentMeta struct {
	RecruitmentPeriod RecruitmentPeriod
	Skills            []string
}

// Extractor bundles the period and skill extractors so pipelines run one
// call over the normalised lines.
type Extractor struct {
	skills *SkillMatcher
}

// NewExtractor returns an Extractor using the given skill matcher.
func NewExtractor(skills *SkillMatcher) *Extractor {
	return &Extractor{skills: skills}
}

// Extract runs both extractors over the document lines.
func (e *Extractor) Extract(lines []string) DocumentMeta {
	doc := DocumentMeta{
		RecruitmentPeriod: ExtractRecruitmentPeriod(lines),
		Skills:            []string{},
	}

	if e.skills != nil {
		doc.Skills = e.skills.Extract(lines)
	}

	return doc
}
