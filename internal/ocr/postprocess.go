package ocr

import (
	"strings"

	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/section"
)

// koreanSentenceMinHangul is the Hangul character count above which a line
// is treated as a natural-language sentence and protected from token
// rewriting.
const koreanSentenceMinHangul = 3

// PostProcessor cleans quality-gated OCR lines while preserving JD meaning:
// noise lines out, garbled Hangul out, technical tokens repaired, natural
// Korean untouched.
type PostProcessor struct {
	registry *keywords.Registry
	garbled  *GarbledDetector
	repairer *TokenRepairer
}

// NewPostProcessor wires the post-processing passes over one registry.
func NewPostProcessor(registry *keywords.Registry) *PostProcessor {
	return &PostProcessor{
		registry: registry,
		garbled:  NewGarbledDetector(registry),
		repairer: NewTokenRepairer(registry.JDVocab),
	}
}

// Process applies, per line and in order: noise filtering (meta lines are
// exempt), header keyword protection, garbled-Hangul removal, meta keyword
// protection, Korean sentence protection, and token repair. A line whose
// tokens all drop is kept in its original form.
func (p *PostProcessor) Process(lines []Line) []Line {
	var processed []Line

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		// Meta lines are exempt from the UI-noise buckets entirely.
		if !p.registry.MetaContains(text) && p.registry.Noise.IsNoise(text) {
			continue
		}

		if p.registry.Headers.Contains(text) {
			processed = append(processed, line)
			continue
		}

		if p.garbled.IsGarbled(text) {
			continue
		}

		if p.registry.MetaContains(text) {
			processed = append(processed, line)
			continue
		}

		if isKoreanSentence(text) {
			processed = append(processed, line)
			continue
		}

		var repaired []string

		for _, token := range strings.Fields(text) {
			if normalized, keep := p.repairer.Normalize(token); keep {
				repaired = append(repaired, normalized)
			}
		}

		if len(repaired) == 0 {
			processed = append(processed, line)
			continue
		}

		line.Text = strings.Join(repaired, " ")
		line.TokenCount = len(repaired)
		processed = append(processed, line)
	}

	return processed
}

// isKoreanSentence treats any line with enough Hangul as natural language.
// Splitting such lines into tokens destroys meaning.
func isKoreanSentence(text string) bool {
	hangul := 0

	for _, r := range text {
		if r >= '가' && r <= '힣' {
			hangul++
			if hangul >= koreanSentenceMinHangul {
				return true
			}
		}
	}

	return false
}

// ExtractSections groups post-processed OCR lines into the raw section view
// using the OCR header judge. Lines before the first header form the intro
// bucket; an empty intro is omitted.
func ExtractSections(lines []Line, judge *HeaderJudge) []section.RawSection {
	var sections []section.RawSection

	intro := section.RawSection{Key: section.IntroKey}
	current := -1

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		if judge.IsHeaderLine(line) {
			sections = append(sections, section.RawSection{Key: section.NormalizeHeaderKey(text)})
			current = len(sections) - 1

			continue
		}

		if current < 0 {
			intro.Lines = append(intro.Lines, text)
			continue
		}

		sections[current].Lines = append(sections[current].Lines, text)
	}

	if len(intro.Lines) > 0 {
		sections = append([]section.RawSection{intro}, sections...)
	}

	return sections
}
