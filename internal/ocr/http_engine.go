package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// recognizeTimeout bounds one engine round trip. Large multi-column images
// can take a while on CPU-only serving.
const recognizeTimeout = 120 * time.Second

// HTTPEngine talks to an OCR serving sidecar. The sidecar accepts raw image
// bytes and answers with per-line text, confidence, and geometry.
type HTTPEngine struct {
	endpoint string
	client   *http.Client
}

// NewHTTPEngine binds the engine to a serving endpoint.
func NewHTTPEngine(endpoint string) *HTTPEngine {
	return &HTTPEngine{
		endpoint: endpoint,
		client:   &http.Client{Timeout: recognizeTimeout},
	}
}

// recognizeResponse is the sidecar wire format.
type recognizeResponse struct {
	Confidence float64 `json:"confidence"`
	Lines      []struct {
		Text       string       `json:"text"`
		Confidence float64      `json:"confidence"`
		Box        [][2]float64 `json:"box"`
		Height     float64      `json:"height"`
	} `json:"lines"`
}

// Recognize sends one image to the sidecar and maps the response to a
// PageResult.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte) (*PageResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build recognize request: %w", err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognize request: engine returned %d", resp.StatusCode)
	}

	var body recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode recognize response: %w", err)
	}

	page := &PageResult{Confidence: body.Confidence}
	for _, l := range body.Lines {
		page.Lines = append(page.Lines, RawLine{
			Text:       l.Text,
			Confidence: l.Confidence,
			Box:        l.Box,
			Height:     l.Height,
		})
	}

	return page, nil
}
