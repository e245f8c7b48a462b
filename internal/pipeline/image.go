package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/ocr"
	"github.com/hirelog-io/preprocess/internal/section"
	"github.com/hirelog-io/preprocess/internal/textnorm"
)

// ImagePipeline recognizes JD images and structures the recognized lines.
// Unlike TEXT, structure comes from the OCR layer itself (visual headers),
// so the line-splitting core is never re-run here.
type ImagePipeline struct {
	engine    ocr.Engine
	post      *ocr.PostProcessor
	judge     *ocr.HeaderJudge
	meta      *meta.Extractor
	canonical canonicalizer
	logger    *slog.Logger
}

// NewImagePipeline builds the IMAGE flow over an OCR engine binding.
func NewImagePipeline(reg *keywords.Registry, engine ocr.Engine, logger *slog.Logger) *ImagePipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &ImagePipeline{
		engine: engine,
		post:   ocr.NewPostProcessor(reg),
		judge:  ocr.NewHeaderJudge(reg.Headers),
		meta:   meta.NewExtractor(meta.NewSkillMatcher(reg.Skills)),
		canonical: canonicalizer{
			validator: section.NewPostValidator(reg.Headers, logger),
			tagger:    section.NewZoneTagger(reg.Sections),
		},
		logger: logger,
	}
}

// Process recognizes every page, merges and cleans the lines, and builds the
// canonical map. Recognition proceeds even at RETRY confidence; only FAIL
// aborts the request.
func (p *ImagePipeline) Process(ctx context.Context, images []string) (*Result, *Error) {
	var (
		lines         []ocr.Line
		confidenceSum float64
	)

	for _, path := range images {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewError(CodeImageDecode, StagePreprocess,
				fmt.Sprintf("read image %s", path), err)
		}

		page, err := p.engine.Recognize(ctx, data)
		if err != nil {
			return nil, NewError(CodeOCRExtract, StagePreprocess,
				fmt.Sprintf("recognize image %s", path), err)
		}

		pageLines := ocr.BuildLines(page.Lines)
		pageLines = ocr.DetectVisualHeaders(pageLines)

		for i := range pageLines {
			pageLines[i].Text = textnorm.NormalizeText(pageLines[i].Text)
		}

		passed, dropped := ocr.FilterLowQuality(pageLines)
		if len(dropped) > 0 {
			p.logger.Debug("dropped low-quality lines", "image", path, "count", len(dropped))
		}

		lines = append(lines, p.post.Process(passed)...)
		confidenceSum += page.Confidence
	}

	confidence := 0.0
	if len(images) > 0 {
		confidence = confidenceSum / float64(len(images))
	}

	status := ocr.ClassifyConfidence(confidence)
	if status == ocr.StatusFail {
		return nil, NewError(CodeOCRExtract, StagePreprocess,
			fmt.Sprintf("recognition confidence too low: %.1f", confidence), nil)
	}

	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}

	docMeta := p.meta.Extract(texts)

	raw := ocr.ExtractSections(lines, p.judge)

	return &Result{
		CanonicalMap: p.canonical.run(raw),
		Meta:         docMeta,
		OCR: &OCRSummary{
			Status:     status,
			Confidence: confidence,
			RawText:    strings.Join(texts, "\n"),
		},
	}, nil
}
