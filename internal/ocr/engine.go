// Package ocr handles the IMAGE source: line structuring of OCR engine
// output, visual header scoring, quality gating, garbled-Hangul filtering,
// token repair, and header-based section extraction.
//
// The OCR engine itself is external; this package consumes its results
// through the Engine interface.
package ocr

import "context"

// RawLine is one recognised text line as the engine reports it.
type RawLine struct {
	Text       string
	Confidence float64
	// Box is the recognition polygon, one [x, y] pair per corner.
	Box [][2]float64
	// Height is the glyph height in pixels.
	Height float64
}

// PageResult is the engine output for one image.
type PageResult struct {
	Lines []RawLine
	// Confidence is the page-averaged recognition confidence, 0-100.
	Confidence float64
}

// Engine recognises text in one image. Implementations must be safe for
// concurrent use; the URL and TEXT workers never call it.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (*PageResult, error)
}

// Status classifies page-averaged OCR confidence.
type Status string

// Confidence statuses.
const (
	StatusGood  Status = "GOOD"  // confidence >= 85
	StatusRetry Status = "RETRY" // confidence >= 60
	StatusFail  Status = "FAIL"  // everything below
)

// Confidence classification thresholds.
const (
	goodThreshold  = 85
	retryThreshold = 60
)

// ClassifyConfidence maps page-averaged confidence to a status.
func ClassifyConfidence(confidence float64) Status {
	switch {
	case confidence >= goodThreshold:
		return StatusGood
	case confidence >= retryThreshold:
		return StatusRetry
	default:
		return StatusFail
	}
}
