package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/videopipe/gostream/internal/config"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/infrastructure/queue"
	"github.com/videopipe/gostream/internal/infrastructure/storage"
	"github.com/videopipe/gostream/internal/transcoder"
	"github.com/videopipe/gostream/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Worker.TempDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  minioEndpoint(cfg.S3.MinIOServerURL),
		AccessKey: cfg.S3.MinIORootUser,
		SecretKey: cfg.S3.MinIORootPass,
		Bucket:    cfg.S3.Bucket,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	if err := storageClient.EnsureBucket(ctx, "video_files/"); err != nil {
		return fmt.Errorf("failed to bootstrap bucket: %w", err)
	}
	logger.Info("bucket bootstrapped", slog.String("bucket", storageClient.Bucket()))

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	tc := transcoder.NewFFmpegTranscoder(transcoder.DefaultFFmpegConfig())

	transcodeSvc := usecase.NewTranscodeService(
		storageClient,
		queueClient,
		tc,
		usecase.TranscodeServiceConfig{
			TempDir: cfg.Worker.TempDir,
		},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting worker, consuming convert_video_to_hls jobs")
		err := queueClient.ConsumeConvertVideoToHLS(ctx, func(ctx context.Context, job repository.ConvertVideoToHLS) repository.AckDecision {
			wg.Add(1)
			defer wg.Done()

			logger.Info("processing job", slog.String("uuid", job.UUID.String()))

			decision := transcodeSvc.ProcessJob(ctx, job)

			logger.Info("job processed",
				slog.String("uuid", job.UUID.String()),
				slog.Any("decision", decision),
			)
			return decision
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight jobs completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some jobs may not have completed")
	}

	logger.Info("worker stopped")
	return nil
}

// minioEndpoint strips the scheme from a MINIO_SERVER_URL style value,
// since the minio-go client takes a bare host:port endpoint and derives
// TLS from UseSSL rather than the URL scheme.
func minioEndpoint(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
