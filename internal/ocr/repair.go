package ocr

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Token repair acceptance thresholds. A candidate must both score high and
// clearly beat the runner-up; anything less keeps the original token.
const (
	repairMaxDistance = 2
	repairMinScore    = 88.0
	repairMinLead     = 6.0
)

// confusables maps characters the engine habitually misreads onto their
// likely intended letters before the dictionary lookup.
var confusables = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'5': 's',
	'8': 'b',
	'|': 'l',
	'!': 'l',
	'$': 's',
}

// TokenRepairer fixes OCR-broken technical tokens against the protected
// vocabulary. Korean text never reaches it; the post-processor guards
// sentences upstream.
type TokenRepairer struct {
	vocab    []string
	vocabSet map[string]struct{}
}

// NewTokenRepairer builds a repairer over the protected vocabulary set.
func NewTokenRepairer(vocab map[string]struct{}) *TokenRepairer {
	words := make([]string, 0, len(vocab))
	for w := range vocab {
		words = append(words, w)
	}

	return &TokenRepairer{vocab: words, vocabSet: vocab}
}

// Normalize returns the repaired form of token and whether to keep it.
// Known vocabulary passes through untouched; repairable tokens are replaced
// by their dictionary match; unrepairable garbage is dropped; everything
// else survives as-is.
func (r *TokenRepairer) Normalize(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	lower := strings.ToLower(token)
	if _, ok := r.vocabSet[lower]; ok {
		return token, true
	}

	if repaired, ok := r.repair(lower); ok {
		return repaired, true
	}

	if looksGarbageToken(token) {
		return "", false
	}

	return token, true
}

// repair runs the confusable pre-pass and the closest-edit lookup.
func (r *TokenRepairer) repair(lower string) (string, bool) {
	mapped := strings.Map(func(c rune) rune {
		if repl, ok := confusables[c]; ok {
			return repl
		}

		return c
	}, lower)

	if _, ok := r.vocabSet[mapped]; ok {
		return mapped, true
	}

	var (
		best       string
		bestScore  float64
		secondBest float64
	)

	tokenLen := len([]rune(mapped))

	for _, word := range r.vocab {
		wordLen := len([]rune(word))
		if diff := wordLen - tokenLen; diff > repairMaxDistance || diff < -repairMaxDistance {
			continue
		}

		dist := levenshtein.ComputeDistance(mapped, word)
		if dist > repairMaxDistance {
			continue
		}

		// Normalised indel-style similarity, 0-100.
		score := 100 * (1 - float64(dist)/float64(tokenLen+wordLen))

		switch {
		case score > bestScore:
			secondBest = bestScore
			bestScore = score
			best = word
		case score > secondBest:
			secondBest = score
		}
	}

	if best != "" && bestScore >= repairMinScore && bestScore-secondBest >= repairMinLead {
		return best, true
	}

	return "", false
}
