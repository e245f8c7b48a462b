// Package keywords loads the static keyword and vocabulary files that drive
// header detection, semantic zone tagging, noise filtering, and skill
// extraction.
//
// All registries are loaded once at startup and are immutable afterwards;
// they are safe for concurrent reads from every worker.
package keywords

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File names expected inside the keyword config directory.
const (
	sectionKeywordsFile = "section_keywords.yml"
	headerKeywordsFile  = "header_keywords.yml"
	metaKeywordsFile    = "jd_meta_keywords.yml"
	noiseKeywordsFile   = "noise_keywords.yml"
	jdVocabFile         = "jd_vocab.yml"
	skillVocabFile      = "skill_vocab.yml"
	skillAliasFile      = "skill_alias.yml"
)

// Sentinel errors for registry loading.
var (
	ErrMissingConfigDir   = errors.New("keyword config directory does not exist")
	ErrInvalidSectionFile = errors.New("section_keywords.yml must map section groups to keyword lists")
	ErrInvalidHeaderFile  = errors.New("header_keywords.yml must contain a header_keywords list")
)

// Registry holds every keyword and vocabulary set used by the pipelines.
// Built once by Load; treated as immutable afterwards.
type Registry struct {
	// Headers are the configured section-header keywords, lower-cased.
	Headers *HeaderSet

	// Sections maps a semantic zone name to its lower-cased keyword list.
	// The groups are the zone names themselves (responsibilities,
	// requirements, preferred, ...).
	Sections map[string][]string

	// Meta is the JD meta keyword set (전형절차, 고용형태, ...), lower-cased.
	Meta map[string]struct{}

	// Noise holds the UI/system noise buckets for line-level filtering.
	Noise *NoiseSet

	// JDVocab is the protected technical vocabulary for OCR token repair.
	JDVocab map[string]struct{}

	// Skills holds the categorised skill vocabulary and alias mapping.
	Skills *SkillVocab
}

// HeaderSet is the set of header keywords with lookup helpers.
type HeaderSet struct {
	keywords []string // lower-cased, trimmed
	index    map[string]struct{}
}

// NoiseSet holds the four noise keyword buckets.
type NoiseSet struct {
	Exact      map[string]struct{}
	Prefix     []string
	Suffix     []string
	Navigation []string
}

// SkillVocab holds the canonical skill vocabulary grouped by category plus
// the alias → canonical mapping.
type SkillVocab struct {
	// Categories maps a category name (language, backend_framework, ...) to
	// its canonical skill names.
	Categories map[string][]string

	// Aliases maps a lower-cased alias to its canonical name.
	Aliases map[string]string
}

// Load reads every keyword file from dir and builds the registry.
//
// Missing optional files (meta keywords, vocab, aliases) degrade to empty
// sets; the header and section keyword files are required because header
// detection and zone tagging cannot work without them.
func Load(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfigDir, dir)
	}

	headers, err := loadHeaderKeywords(filepath.Join(dir, headerKeywordsFile))
	if err != nil {
		return nil, err
	}

	sections, err := loadSectionKeywords(filepath.Join(dir, sectionKeywordsFile))
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		Headers:  headers,
		Sections: sections,
		Meta:     loadFlatSet(filepath.Join(dir, metaKeywordsFile), "meta_keywords"),
		Noise:    loadNoiseKeywords(filepath.Join(dir, noiseKeywordsFile)),
		JDVocab:  loadFlatSet(filepath.Join(dir, jdVocabFile), "vocab"),
		Skills:   loadSkillVocab(dir),
	}

	return reg, nil
}

func loadHeaderKeywords(path string) (*HeaderSet, error) {
	var raw struct {
		HeaderKeywords []string `yaml:"header_keywords"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header keywords: %w", err)
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeaderFile, err)
	}

	if len(raw.HeaderKeywords) == 0 {
		return nil, ErrInvalidHeaderFile
	}

	set := &HeaderSet{index: make(map[string]struct{}, len(raw.HeaderKeywords))}

	for _, kw := range raw.HeaderKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}

		if _, dup := set.index[kw]; dup {
			continue
		}

		set.index[kw] = struct{}{}
		set.keywords = append(set.keywords, kw)
	}

	return set, nil
}

func loadSectionKeywords(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read section keywords: %w", err)
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSectionFile, err)
	}

	if len(raw) == 0 {
		return nil, ErrInvalidSectionFile
	}

	sections := make(map[string][]string, len(raw))

	for group, kws := range raw {
		lowered := make([]string, 0, len(kws))
		for _, kw := range kws {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				lowered = append(lowered, kw)
			}
		}

		sections[group] = lowered
	}

	return sections, nil
}

// loadFlatSet reads a YAML file whose root maps key to a string list and
// returns the lower-cased set. A missing or malformed file yields an empty
// set: these files are optional policy data.
func loadFlatSet(path, key string) map[string]struct{} {
	set := make(map[string]struct{})

	data, err := os.ReadFile(path)
	if err != nil {
		return set
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return set
	}

	for _, kw := range raw[key] {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			set[kw] = struct{}{}
		}
	}

	return set
}

func loadNoiseKeywords(path string) *NoiseSet {
	noise := &NoiseSet{Exact: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		return noise
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return noise
	}

	for _, kw := range raw["exact"] {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			noise.Exact[kw] = struct{}{}
		}
	}

	noise.Prefix = lowerAll(raw["prefix"])
	noise.Suffix = lowerAll(raw["suffix"])
	noise.Navigation = lowerAll(raw["navigation"])

	return noise
}

func loadSkillVocab(dir string) *SkillVocab {
	vocab := &SkillVocab{
		Categories: make(map[string][]string),
		Aliases:    make(map[string]string),
	}

	if data, err := os.ReadFile(filepath.Join(dir, skillVocabFile)); err == nil {
		raw := make(map[string][]string)
		if err := yaml.Unmarshal(data, &raw); err == nil {
			for category, skills := range raw {
				cleaned := make([]string, 0, len(skills))
				for _, s := range skills {
					s = strings.TrimSpace(s)
					if s != "" {
						cleaned = append(cleaned, s)
					}
				}

				vocab.Categories[category] = cleaned
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, skillAliasFile)); err == nil {
		raw := make(map[string][]string)
		if err := yaml.Unmarshal(data, &raw); err == nil {
			for canonical, aliases := range raw {
				canonical = strings.TrimSpace(canonical)
				for _, alias := range aliases {
					alias = strings.ToLower(strings.TrimSpace(alias))
					if alias != "" && canonical != "" {
						vocab.Aliases[alias] = canonical
					}
				}
			}
		}
	}

	return vocab
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))

	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}
