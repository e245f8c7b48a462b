package worker

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hirelog-io/preprocess/internal/meta"
	"github.com/hirelog-io/preprocess/internal/pipeline"
)

const (
	eventTypeCompleted = "JD_PREPROCESS_COMPLETED"
	eventTypeFailed    = "JD_PREPROCESS_FAILED"
	eventVersion       = "v1"
)

// dateLayouts are the inbound date shapes accepted when serialising the
// recruitment window.
var dateLayouts = []string{"2006.1.2", "2006-1-2", "2006/1/2"}

// SuccessEvent is the outbound result message, camelCase per the consumer
// contract.
type SuccessEvent struct {
	EventID    string `json:"eventId"`
	RequestID  string `json:"requestId"`
	EventType  string `json:"eventType"`
	Version    string `json:"version"`
	OccurredAt int64  `json:"occurredAt"`

	BrandName    string `json:"brandName"`
	PositionName string `json:"positionName"`

	Source    string `json:"source"`
	SourceURL string `json:"sourceUrl,omitempty"`

	CanonicalMap map[string][]string `json:"canonicalMap"`

	RecruitmentPeriodType string `json:"recruitmentPeriodType,omitempty"`
	OpenedDate            string `json:"openedDate,omitempty"`
	ClosedDate            string `json:"closedDate,omitempty"`

	Skills []string `json:"skills"`
}

// NewSuccessEvent builds the result event for one processed request.
func NewSuccessEvent(req *pipeline.RawRequest, result *pipeline.Result, logger *slog.Logger) SuccessEvent {
	ev := SuccessEvent{
		EventID:      uuid.NewString(),
		RequestID:    req.RequestID,
		EventType:    eventTypeCompleted,
		Version:      eventVersion,
		OccurredAt:   time.Now().UnixMilli(),
		BrandName:    req.BrandName,
		PositionName: req.PositionName,
		Source:       string(req.Source),
		CanonicalMap: result.CanonicalMap,
		Skills:       result.Meta.Skills,
	}

	if req.Source == pipeline.SourceURL {
		ev.SourceURL = req.ResolvedURL()
	}

	if ev.CanonicalMap == nil {
		ev.CanonicalMap = map[string][]string{}
	}

	if ev.Skills == nil {
		ev.Skills = []string{}
	}

	period := result.Meta.RecruitmentPeriod
	ev.RecruitmentPeriodType = string(period.PeriodType)

	if period.PeriodType == meta.PeriodFixed {
		ev.OpenedDate = normalizeDate(period.OpenDate, req.RequestID, logger)
		ev.ClosedDate = normalizeDate(period.CloseDate, req.RequestID, logger)
	}

	return ev
}

// normalizeDate converts an extracted date to ISO-8601. Unparseable dates
// are logged and dropped rather than failing the whole event.
func normalizeDate(raw, requestID string, logger *slog.Logger) string {
	if raw == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if logger != nil {
		logger.Warn("unparseable recruitment date dropped", "requestId", requestID, "date", raw)
	}

	return ""
}

// KafkaMetadata locates the original inbound message for reprocessing.
type KafkaMetadata struct {
	OriginalTopic     string `json:"originalTopic,omitempty"`
	OriginalPartition int    `json:"originalPartition"`
	OriginalOffset    int64  `json:"originalOffset"`
}

// FailEvent is the outbound failure message. It never carries the original
// payload.
type FailEvent struct {
	EventID    string `json:"eventId"`
	RequestID  string `json:"requestId"`
	EventType  string `json:"eventType"`
	Version    string `json:"version"`
	OccurredAt int64  `json:"occurredAt"`

	Source        string `json:"source"`
	ErrorCode     string `json:"errorCode"`
	ErrorMessage  string `json:"errorMessage"`
	ErrorCategory string `json:"errorCategory"`
	PipelineStage string `json:"pipelineStage"`

	WorkerHost           string `json:"workerHost"`
	ProcessingDurationMs int64  `json:"processingDurationMs"`

	KafkaMetadata KafkaMetadata `json:"kafkaMetadata"`
}

// ProcessContext is threaded through one message's handling so failures at
// any stage can be reported with full context.
type ProcessContext struct {
	Message   Message
	RequestID string
	Source    string
	Stage     string
	Start     time.Time
}

// NewFailEvent builds the failure event for one pipeline error.
func NewFailEvent(perr *pipeline.Error, pctx *ProcessContext) FailEvent {
	now := time.Now()

	stage := perr.Stage
	if stage == "" {
		stage = pctx.Stage
	}

	return FailEvent{
		EventID:              uuid.NewString(),
		RequestID:            pctx.RequestID,
		EventType:            eventTypeFailed,
		Version:              eventVersion,
		OccurredAt:           now.UnixMilli(),
		Source:               pctx.Source,
		ErrorCode:            string(perr.Code),
		ErrorMessage:         perr.Message,
		ErrorCategory:        string(perr.Category()),
		PipelineStage:        stage,
		WorkerHost:           hostname(),
		ProcessingDurationMs: now.Sub(pctx.Start).Milliseconds(),
		KafkaMetadata: KafkaMetadata{
			OriginalTopic:     pctx.Message.Topic,
			OriginalPartition: pctx.Message.Partition,
			OriginalOffset:    pctx.Message.Offset,
		},
	}
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return host
}
