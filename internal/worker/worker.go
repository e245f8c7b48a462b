package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hirelog-io/preprocess/internal/pipeline"
)

// fetchRetryWait throttles the poll loop after a transient fetch error.
const fetchRetryWait = time.Second

// Processor runs one parsed request through a source pipeline.
type Processor interface {
	Process(ctx context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error)
}

// ProcessFunc adapts a function to Processor.
type ProcessFunc func(ctx context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error)

func (f ProcessFunc) Process(ctx context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error) {
	return f(ctx, req)
}

// Worker is one source runtime: a blocking poll loop that processes one
// message at a time. Failures become fail events, fail-publish failures
// become backup writes, and the offset always advances.
type Worker struct {
	name        string
	source      string
	consumer    Consumer
	producer    Producer
	processor   Processor
	resultTopic string
	failTopic   string
	backup      *BackupWriter
	logger      *slog.Logger
}

// New builds a worker. The producer and backup writer are shared across
// workers; the consumer is owned by this worker and closed when Run returns.
func New(
	name, source string,
	consumer Consumer,
	producer Producer,
	processor Processor,
	resultTopic, failTopic string,
	backup *BackupWriter,
	logger *slog.Logger,
) *Worker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		name:        name,
		source:      source,
		consumer:    consumer,
		producer:    producer,
		processor:   processor,
		resultTopic: resultTopic,
		failTopic:   failTopic,
		backup:      backup,
		logger:      logger,
	}
}

// Run polls until ctx is cancelled, then closes the consumer. It never
// returns a processing error; those are absorbed per message.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", "worker", w.name)

	for {
		msg, err := w.consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			w.logger.Error("fetch failed", "worker", w.name, "error", err)
			time.Sleep(fetchRetryWait)

			continue
		}

		w.handle(ctx, msg)
	}

	w.logger.Info("worker stopped", "worker", w.name)

	return w.consumer.Close()
}

// handle processes one message end to end. Nothing in here may prevent the
// final commit.
func (w *Worker) handle(ctx context.Context, msg Message) {
	pctx := &ProcessContext{
		Message:   msg,
		RequestID: "unknown",
		Source:    w.source,
		Stage:     pipeline.StageMessageParse,
		Start:     time.Now(),
	}

	req, perr := pipeline.ParseRequest(msg.Value)

	switch {
	case perr != nil:
		w.fail(ctx, perr, pctx)

	default:
		pctx.RequestID = req.RequestID
		pctx.Source = string(req.Source)
		pctx.Stage = pipeline.StagePreprocess

		w.logger.Info("processing message",
			"worker", w.name, "requestId", req.RequestID, "offset", msg.Offset)

		result, perr := w.processor.Process(ctx, req)
		if perr != nil {
			w.fail(ctx, perr, pctx)
			break
		}

		pctx.Stage = pipeline.StagePublishResult
		w.publishSuccess(ctx, req, result, pctx)
	}

	w.commit(ctx, msg)
}

// publishSuccess emits the result event. A publish failure is downgraded to
// a fail event so the request still produces exactly one outbound record.
func (w *Worker) publishSuccess(ctx context.Context, req *pipeline.RawRequest, result *pipeline.Result, pctx *ProcessContext) {
	ev := NewSuccessEvent(req, result, w.logger)

	value, err := json.Marshal(ev)
	if err != nil {
		w.fail(ctx, pipeline.AsError(err, pipeline.StagePublishResult), pctx)
		return
	}

	if err := w.producer.Publish(ctx, w.resultTopic, req.RequestID, value); err != nil {
		w.fail(ctx, pipeline.NewError(pipeline.CodeKafkaPublish, pipeline.StagePublishResult,
			"result publish failed", err), pctx)

		return
	}

	w.logger.Info("published result",
		"worker", w.name, "requestId", req.RequestID, "eventId", ev.EventID,
		"durationMs", time.Since(pctx.Start).Milliseconds())
}

// fail publishes a fail event; if that publish also fails, the record goes
// to the local backup. Errors are absorbed here, never propagated.
func (w *Worker) fail(ctx context.Context, perr *pipeline.Error, pctx *ProcessContext) {
	ev := NewFailEvent(perr, pctx)

	w.logger.Error("processing failed",
		"worker", w.name, "requestId", pctx.RequestID,
		"errorCode", ev.ErrorCode, "category", ev.ErrorCategory,
		"stage", ev.PipelineStage, "error", perr.Error())

	var publishErr string

	value, err := json.Marshal(ev)
	if err != nil {
		publishErr = err.Error()
	} else if err := w.producer.Publish(ctx, w.failTopic, pctx.RequestID, value); err != nil {
		publishErr = err.Error()
		w.logger.Error("fail publish failed",
			"worker", w.name, "requestId", pctx.RequestID, "error", err)
	} else {
		return
	}

	if err := w.backup.Write(BackupRecord{
		RequestID:    pctx.RequestID,
		Source:       pctx.Source,
		ErrorCode:    ev.ErrorCode,
		ErrorMessage: ev.ErrorMessage,
		PublishError: publishErr,
		WorkerHost:   ev.WorkerHost,
	}); err != nil {
		w.logger.Error("fail backup write failed",
			"worker", w.name, "requestId", pctx.RequestID, "error", err)
	}
}

// commit advances the offset. It survives ctx cancellation so a message
// handled during shutdown is still committed.
func (w *Worker) commit(ctx context.Context, msg Message) {
	if err := w.consumer.Commit(context.WithoutCancel(ctx), msg); err != nil {
		w.logger.Error("commit failed",
			"worker", w.name, "offset", msg.Offset, "error", err)
	}
}
