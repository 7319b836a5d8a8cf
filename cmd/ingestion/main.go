package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/videopipe/gostream/internal/config"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/infrastructure/postgres"
	"github.com/videopipe/gostream/internal/infrastructure/queue"
	"github.com/videopipe/gostream/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the Ingestion Coordinator: it consumes unprocessed_video_uploaded
// messages (allocate uuid, insert pending record, publish the transcode job)
// and confirm_video_hls_converting messages (flip the record complete) on
// two independent consumer goroutines sharing one channel and connection.
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

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	ingestionSvc := usecase.NewIngestionService(videoRepo, queueClient)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	go func() {
		logger.Info("consuming unprocessed_video_uploaded")
		err := queueClient.ConsumeUnprocessedVideoUploaded(ctx, func(ctx context.Context, msg repository.UnprocessedVideoUploaded) repository.AckDecision {
			wg.Add(1)
			defer wg.Done()

			logger.Info("ingesting upload", slog.Int64("user_id", msg.UserID), slog.String("video_path", msg.VideoPath))
			decision := ingestionSvc.IngestUpload(ctx, msg)
			logger.Info("upload ingested", slog.Any("decision", decision))
			return decision
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("unprocessed_video_uploaded consumer error: %w", err)
		}
	}()

	go func() {
		logger.Info("consuming confirm_video_hls_converting")
		err := queueClient.ConsumeConfirmVideoHLSConverting(ctx, func(ctx context.Context, msg repository.ConfirmVideoHLSConverting) repository.AckDecision {
			wg.Add(1)
			defer wg.Done()

			logger.Info("confirming conversion", slog.String("uuid", msg.UUID.String()))
			decision := ingestionSvc.ConfirmConversion(ctx, msg)
			logger.Info("conversion confirmed", slog.Any("decision", decision))
			return decision
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("confirm_video_hls_converting consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down ingestion coordinator", slog.String("signal", sig.String()))
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
		logger.Info("all in-flight messages processed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some messages may not have completed")
	}

	logger.Info("ingestion coordinator stopped")
	return nil
}
