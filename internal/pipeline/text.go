package pipeline

import (
	"log/slog"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/section"
	"github.com/hirelog-io/preprocess/internal/textnorm"
)

// TextPipeline turns raw JD text into the canonical section map. It owns the
// full structural flow; the other pipelines reuse its canonical tail.
type TextPipeline struct {
	normalizer *textnorm.Normalizer
	detector   *section.HeaderDetector
	meta       *meta.Extractor
	canonical  canonicalizer
}

// NewTextPipeline builds the TEXT flow over one keyword registry.
func NewTextPipeline(reg *keywords.Registry, logger *slog.Logger) *TextPipeline {
	return &TextPipeline{
		normalizer: textnorm.New(reg.Noise),
		detector:   section.NewHeaderDetector(reg.Headers),
		meta:       meta.NewExtractor(meta.NewSkillMatcher(reg.Skills)),
		canonical: canonicalizer{
			validator: section.NewPostValidator(reg.Headers, logger),
			tagger:    section.NewZoneTagger(reg.Sections),
		},
	}
}

// Process normalizes, structures, and canonicalizes text. Empty input is not
// an error: the result has an empty map, an UNKNOWN period, and no skills.
func (p *TextPipeline) Process(text string) (*Result, *Error) {
	lines := p.normalizer.Process(text)

	docMeta := p.meta.Extract(lines)

	sections := section.BuildSections(lines, p.detector)

	return &Result{
		CanonicalMap: p.canonical.run(section.ToRawSections(sections)),
		Meta:         docMeta,
	}, nil
}
