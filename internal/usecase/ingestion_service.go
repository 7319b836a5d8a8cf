package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/model"
	"github.com/videopipe/gostream/internal/domain/repository"
)

// IngestionService is the Ingestion Coordinator's core logic: it turns a
// freshly uploaded video into a durable pending record plus a transcode
// job, and later flips that record complete once the Transcoder Worker
// reports success.
type IngestionService interface {
	// IngestUpload allocates a video identifier, inserts the metadata
	// row in the pending state, and publishes the transcode job. Order
	// is mandatory: the record must be durable before the job is
	// enqueued. Returns the AckDecision for the caller to apply to the
	// unprocessed_video_uploaded delivery.
	IngestUpload(ctx context.Context, msg repository.UnprocessedVideoUploaded) repository.AckDecision

	// ConfirmConversion marks a video record complete. Idempotent:
	// redelivery of the same confirmation is safe.
	ConfirmConversion(ctx context.Context, msg repository.ConfirmVideoHLSConverting) repository.AckDecision
}

type ingestionService struct {
	repo  repository.VideoRepository
	queue repository.MessageQueue
}

// NewIngestionService creates a new IngestionService instance.
func NewIngestionService(repo repository.VideoRepository, queue repository.MessageQueue) IngestionService {
	return &ingestionService{repo: repo, queue: queue}
}

// IngestUpload allocates a new uuid, inserts the pending record, and
// publishes the conversion job in that order: the record must be
// durable before the job is enqueued, and the job must be enqueued
// before the input is acknowledged. A duplicate delivery of the same
// upload mints another uuid and another pending record rather than
// being deduplicated on (user_id, video_path); the orphaned record
// stays is_complete=false forever, which is tolerated rather than
// tracked. A payload missing video_path is a data error: it is dropped
// before the record is ever inserted, so a malformed upload never
// leaves a pending row with nothing to convert.
func (s *ingestionService) IngestUpload(ctx context.Context, msg repository.UnprocessedVideoUploaded) repository.AckDecision {
	if err := msg.Validate(); err != nil {
		slog.Error("malformed unprocessed_video_uploaded message", "error", err)
		return repository.AckAndDrop
	}

	record, err := model.NewPendingVideoRecord(uuid.New(), msg.UserID)
	if err != nil {
		return repository.AckAndDrop
	}

	if err := s.repo.InsertPending(ctx, record); err != nil {
		return repository.NackRequeue
	}

	job := repository.ConvertVideoToHLS{UUID: record.UUID, VideoPath: msg.VideoPath}
	if err := s.queue.PublishConvertVideoToHLS(ctx, job); err != nil {
		return repository.NackRequeue
	}

	return repository.AckAndDrop
}

// ConfirmConversion flips the record named by msg.UUID to complete. The
// repository's MarkComplete is itself idempotent (it does not check
// rows-affected), so a redelivered confirmation is always safe to
// reapply.
func (s *ingestionService) ConfirmConversion(ctx context.Context, msg repository.ConfirmVideoHLSConverting) repository.AckDecision {
	if err := s.repo.MarkComplete(ctx, msg.UUID); err != nil {
		return repository.NackRequeue
	}
	return repository.AckAndDrop
}
