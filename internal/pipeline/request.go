package pipeline

import (
	"encoding/json"
	"fmt"
)

// Source is the origin of a JD request payload.
type Source string

const (
	SourceText  Source = "TEXT"
	SourceImage Source = "IMAGE"
	SourceURL   Source = "URL"
)

// IsValid reports whether s is one of the supported sources.
func (s Source) IsValid() bool {
	switch s {
	case SourceText, SourceImage, SourceURL:
		return true
	default:
		return false
	}
}

// RawRequest is the inbound message contract. Exactly one payload field is
// meaningful per Source; optional event metadata rides along untouched.
type RawRequest struct {
	RequestID    string `json:"requestId"`
	BrandName    string `json:"brandName"`
	PositionName string `json:"positionName"`
	Source       Source `json:"source"`

	Text      string   `json:"text,omitempty"`
	Images    []string `json:"images,omitempty"`
	URL       string   `json:"url,omitempty"`
	SourceURL string   `json:"sourceUrl,omitempty"`

	EventID    string `json:"eventId,omitempty"`
	OccurredAt int64  `json:"occurredAt,omitempty"`
	Version    string `json:"version,omitempty"`
}

// ResolvedURL prefers sourceUrl over the legacy url field.
func (r *RawRequest) ResolvedURL() string {
	if r.SourceURL != "" {
		return r.SourceURL
	}

	return r.URL
}

// ParseRequest validates one inbound message value. Invalid JSON maps to
// MSG_PARSE_001, contract violations to MSG_PARSE_002. Empty TEXT payloads
// are accepted; the text pipeline turns them into an empty result.
func ParseRequest(value []byte) (*RawRequest, *Error) {
	var req RawRequest

	if err := json.Unmarshal(value, &req); err != nil {
		return nil, NewError(CodeMsgParseJSON, StageMessageParse, "message is not valid JSON", err)
	}

	missing := func(field string) *Error {
		return NewError(CodeMsgParseMissing, StageMessageParse, "required field missing: "+field, nil)
	}

	switch {
	case req.RequestID == "":
		return nil, missing("requestId")
	case req.BrandName == "":
		return nil, missing("brandName")
	case req.PositionName == "":
		return nil, missing("positionName")
	}

	if !req.Source.IsValid() {
		return nil, NewError(CodeMsgParseMissing, StageMessageParse,
			fmt.Sprintf("invalid source: %q", req.Source), nil)
	}

	switch req.Source {
	case SourceImage:
		if len(req.Images) == 0 {
			return nil, missing("images")
		}
	case SourceURL:
		if req.ResolvedURL() == "" {
			return nil, missing("sourceUrl")
		}
	}

	return &req, nil
}
