// Package pipeline runs the per-source preprocessing flows and defines the
// single domain error every flow reports through. The worker runtime only
// ever sees a *Error; it never needs to inspect source-specific failures.
package pipeline

import (
	"errors"
	"fmt"
)

// Code classifies a processing failure. Naming follows {domain}_{sequence}.
type Code string

const (
	CodeMsgParseJSON    Code = "MSG_PARSE_001"
	CodeMsgParseMissing Code = "MSG_PARSE_002"

	CodeOCRExtract  Code = "PIPELINE_OCR_001"
	CodeImageDecode Code = "PIPELINE_OCR_002"

	CodeTextProcess Code = "PIPELINE_TEXT_001"

	CodeURLFetch Code = "PIPELINE_URL_001"
	CodeURLParse Code = "PIPELINE_URL_002"

	CodeKafkaPublish Code = "INFRA_KAFKA_001"
	CodeStorageWrite Code = "INFRA_STORAGE_001"

	CodeUnknown Code = "UNKNOWN_001"
)

// Category is the retry-policy hint attached to fail events. The preprocessor
// itself never retries; the hint is for the consumer on the other side.
type Category string

const (
	CategoryRecoverable Category = "RECOVERABLE"
	CategoryPermanent   Category = "PERMANENT"
	CategoryUnknown     Category = "UNKNOWN"
)

// CategoryOf maps a code onto its category. Data problems are permanent,
// network and infra problems are recoverable.
func CategoryOf(code Code) Category {
	switch code {
	case CodeURLFetch, CodeKafkaPublish, CodeStorageWrite:
		return CategoryRecoverable
	case CodeMsgParseJSON, CodeMsgParseMissing,
		CodeOCRExtract, CodeImageDecode,
		CodeTextProcess, CodeURLParse:
		return CategoryPermanent
	default:
		return CategoryUnknown
	}
}

// Stage names reported on fail events.
const (
	StageMessageParse  = "MESSAGE_PARSE"
	StagePreprocess    = "PREPROCESS"
	StagePublishResult = "PUBLISH_RESULT"
	StageUnknown       = "UNKNOWN"
)

// Error is the single domain error of the preprocessing workers. Every
// failure crossing the pipeline boundary is one of these.
type Error struct {
	Code    Code
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Category returns the retry hint for this error's code.
func (e *Error) Category() Category { return CategoryOf(e.Code) }

// NewError builds a pipeline error. cause may be nil.
func NewError(code Code, stage, message string, cause error) *Error {
	return &Error{Code: code, Stage: stage, Message: message, Err: cause}
}

// AsError returns err as a *Error, wrapping foreign errors as UNKNOWN_001 at
// the given stage.
func AsError(err error, stage string) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	return &Error{Code: CodeUnknown, Stage: stage, Message: err.Error(), Err: err}
}
