package pipeline

import (
	"context"
	"log/slog"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/section"
	"github.com/hirelog-io/preprocess/internal/urlfetch"
)

// PageFetcher retrieves the HTML of one job posting page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// URLPipeline fetches a posting page, extracts its body, and runs the shared
// structural flow over the cleaned lines.
type URLPipeline struct {
	fetcher   PageFetcher
	headers   *keywords.HeaderSet
	detector  *section.HeaderDetector
	meta      *meta.Extractor
	canonical canonicalizer
	logger    *slog.Logger
}

// NewURLPipeline builds the URL flow. fetcher is injected so tests can avoid
// the network.
func NewURLPipeline(reg *keywords.Registry, fetcher PageFetcher, logger *slog.Logger) *URLPipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &URLPipeline{
		fetcher:  fetcher,
		headers:  reg.Headers,
		detector: section.NewHeaderDetector(reg.Headers),
		meta:     meta.NewExtractor(meta.NewSkillMatcher(reg.Skills)),
		canonical: canonicalizer{
			validator: section.NewPostValidator(reg.Headers, logger),
			tagger:    section.NewZoneTagger(reg.Sections),
		},
		logger: logger,
	}
}

// Process runs fetch, parse, clean, and canonicalization for one URL. Fetch
// failures are recoverable (the site may be down); parse failures are not.
func (p *URLPipeline) Process(ctx context.Context, url string) (*Result, *Error) {
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, NewError(CodeURLFetch, StagePreprocess, "fetch failed for "+url, err)
	}

	parsed, err := urlfetch.Parse(html)
	if err != nil {
		return nil, NewError(CodeURLParse, StagePreprocess, "HTML parse failed for "+url, err)
	}

	if parsed.Body == "" {
		p.logger.Warn("no body text extracted", "url", url)
	}

	lines := urlfetch.CleanLines(parsed.Body, p.headers)

	docMeta := p.meta.Extract(lines)

	raw := section.ExtractRawSections(lines, p.detector)

	return &Result{
		CanonicalMap: p.canonical.run(raw),
		Meta:         docMeta,
	}, nil
}
