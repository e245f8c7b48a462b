package pipeline

import (
	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/ocr"
	"github.com/hirelog-io/preprocess/internal/section"
)

// Result is what a source pipeline hands back to the worker runtime.
type Result struct {
	CanonicalMap map[string][]string
	Meta         meta.DocumentMeta

	// OCR is set for IMAGE requests only.
	OCR *OCRSummary
}

// OCRSummary carries recognition quality alongside the canonical result so
// downstream consumers can weight low-confidence extractions.
type OCRSummary struct {
	Status     ocr.Status
	Confidence float64
	RawText    string
}

// canonicalizer is the shared tail of all three pipelines: post-validate raw
// sections, tag semantic zones, drop blacklisted sections, and flatten into
// the canonical map.
type canonicalizer struct {
	validator *section.PostValidator
	tagger    *section.ZoneTagger
}

func (c *canonicalizer) run(raw []section.RawSection) map[string][]string {
	raw = c.validator.Validate(raw)

	sections := section.FromRawSections(raw)
	sections = c.tagger.Tag(sections)
	sections = section.FilterSections(sections)

	return section.BuildCanonicalMap(sections)
}
