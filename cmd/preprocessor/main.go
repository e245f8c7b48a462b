// Package main runs the JD preprocessing service.
//
// It consumes preprocessing requests from per-source Kafka topics (TEXT, OCR
// image, URL), runs them through the matching pipeline, and publishes one
// result or fail event per request.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hirelog-io/preprocess/internal/config"
	"github.com/hirelog-io/preprocess/internal/keywords"
	"github.com/hirelog-io/preprocess/internal/ocr"
	"github.com/hirelog-io/preprocess/internal/pipeline"
	"github.com/hirelog-io/preprocess/internal/urlfetch"
	"github.com/hirelog-io/preprocess/internal/worker"
)

// Version information.
const (
	version = "1.0.0-dev"
	name    = "preprocessor"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	// Local development convenience; absence of .env is not an error.
	_ = godotenv.Load()

	instanceID := uuid.NewString()[:8]

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.GetEnvLogLevel("LOG_LEVEL", slog.LevelInfo),
	})).With(slog.String("instance", instanceID))

	logger.Info("starting preprocessing service",
		slog.String("service", name),
		slog.String("version", version),
	)

	cfg := worker.LoadConfig()

	logger.Info("loaded worker configuration",
		slog.Any("bootstrap_servers", cfg.BootstrapServers),
		slog.String("consumer_group", cfg.ConsumerGroup),
		slog.String("result_topic", cfg.ResultTopic),
		slog.String("fail_topic", cfg.FailTopic),
		slog.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		slog.String("backup_dir", cfg.BackupDir),
		slog.String("keyword_dir", cfg.KeywordDir),
	)

	registry, err := keywords.Load(cfg.KeywordDir)
	if err != nil {
		logger.Error("failed to load keyword configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	producer := worker.NewKafkaProducer(cfg.BootstrapServers)
	backup := worker.NewBackupWriter(cfg.BackupDir, logger)

	textPipeline := pipeline.NewTextPipeline(registry, logger)

	engineEndpoint := config.GetEnvStr("OCR_ENGINE_URL", "http://127.0.0.1:8868/ocr")
	imagePipeline := pipeline.NewImagePipeline(registry, ocr.NewHTTPEngine(engineEndpoint), logger)

	fetcher := urlfetch.NewFetcher(urlfetch.NewBrowserRenderer(logger), logger)
	urlPipeline := pipeline.NewURLPipeline(registry, fetcher, logger)

	workers := []*worker.Worker{
		worker.New("text-worker", string(pipeline.SourceText),
			worker.NewKafkaConsumer(cfg.BootstrapServers, cfg.ConsumerGroup, cfg.TextTopic),
			producer,
			worker.ProcessFunc(func(_ context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error) {
				return textPipeline.Process(req.Text)
			}),
			cfg.ResultTopic, cfg.FailTopic, backup, logger),

		worker.New("ocr-worker", string(pipeline.SourceImage),
			worker.NewKafkaConsumer(cfg.BootstrapServers, cfg.ConsumerGroup, cfg.OCRTopic),
			producer,
			worker.ProcessFunc(func(ctx context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error) {
				return imagePipeline.Process(ctx, req.Images)
			}),
			cfg.ResultTopic, cfg.FailTopic, backup, logger),

		worker.New("url-worker", string(pipeline.SourceURL),
			worker.NewKafkaConsumer(cfg.BootstrapServers, cfg.ConsumerGroup, cfg.URLTopic),
			producer,
			worker.ProcessFunc(func(ctx context.Context, req *pipeline.RawRequest) (*pipeline.Result, *pipeline.Error) {
				return urlPipeline.Process(ctx, req.ResolvedURL())
			}),
			cfg.ResultTopic, cfg.FailTopic, backup, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	for _, w := range workers {
		w := w

		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := w.Run(ctx); err != nil {
				logger.Error("worker shutdown error", slog.String("error", err.Error()))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutdown signal received", slog.Duration("timeout", cfg.ShutdownTimeout))

	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all workers drained")
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded, exiting with workers still running")
	}

	if err := producer.Close(); err != nil {
		logger.Error("producer close failed", slog.String("error", err.Error()))
	}

	logger.Info("preprocessing service stopped")
}
