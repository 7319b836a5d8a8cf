package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Queue names, fixed across the whole pipeline. Every component that
// declares or binds to these must use exactly these names so that the
// Ingestion Coordinator, Transcoder Worker, and Message Broker client
// agree on topology without any central registry.
const (
	QueueUnprocessedVideoUploaded  = "unprocessed_video_uploaded"
	QueueConvertVideoToHLS         = "convert_video_to_hls"
	QueueConfirmVideoHLSConverting = "confirm_video_hls_converting"
	QueueVideoPipelineDeadLetter   = "video_pipeline_dead_letter"
)

// UnprocessedVideoUploaded is published by the external upload surface
// (out of core) and consumed by the Ingestion Coordinator.
type UnprocessedVideoUploaded struct {
	UserID    int64  `json:"user_id"`
	VideoPath string `json:"video_path"`
}

// Validate reports a data error if video_path is missing. A payload
// that parses as valid JSON but omits content the pipeline needs can
// never succeed on redelivery, so it must be caught here, before the
// handler performs any side effect.
func (m UnprocessedVideoUploaded) Validate() error {
	if m.VideoPath == "" {
		return fmt.Errorf("%w: missing video_path", ErrMalformedMessage)
	}
	return nil
}

// ConvertVideoToHLS is published by the Ingestion Coordinator once the
// pending metadata row is committed, and consumed by the Transcoder
// Worker.
type ConvertVideoToHLS struct {
	VideoPath string    `json:"video_path"`
	UUID      uuid.UUID `json:"uuid"`
}

// Validate reports a data error if video_path or uuid is missing.
func (m ConvertVideoToHLS) Validate() error {
	if m.VideoPath == "" {
		return fmt.Errorf("%w: missing video_path", ErrMalformedMessage)
	}
	if m.UUID == uuid.Nil {
		return fmt.Errorf("%w: missing uuid", ErrMalformedMessage)
	}
	return nil
}

// ConfirmVideoHLSConverting is published by the Transcoder Worker on
// successful completion of the rendition ladder, and consumed by the
// Ingestion Coordinator to flip the metadata row to complete.
type ConfirmVideoHLSConverting struct {
	UUID uuid.UUID `json:"uuid"`
}

// AckDecision is the outcome a message handler reports back to the
// broker client, replacing exception-based control flow: every handler
// step returns a plain error, and the broker client maps it to one of
// these three actions per the error handling design.
type AckDecision int

const (
	// AckAndDrop acknowledges the message. Used on success, and on data
	// errors (malformed payload) that can never succeed on redelivery.
	AckAndDrop AckDecision = iota

	// NackRequeue negatively acknowledges and asks the broker to
	// redeliver. Used on transient infrastructure errors (a database or
	// storage call that failed but may succeed later).
	NackRequeue

	// NackDrop negatively acknowledges without requeue. Used on
	// transcoder failures: the input was valid but the job itself
	// failed, and blind redelivery would just repeat the failure.
	NackDrop
)

// MessageQueue is the Message Broker client contract. It declares and
// serves all named queues in the pipeline; implementations own
// reconnection and channel recovery.
type MessageQueue interface {
	// PublishUnprocessedVideoUploaded enqueues a new upload for ingestion.
	PublishUnprocessedVideoUploaded(ctx context.Context, msg UnprocessedVideoUploaded) error

	// PublishConvertVideoToHLS enqueues a transcode job for a worker.
	PublishConvertVideoToHLS(ctx context.Context, msg ConvertVideoToHLS) error

	// PublishConfirmVideoHLSConverting enqueues a completion confirmation.
	PublishConfirmVideoHLSConverting(ctx context.Context, msg ConfirmVideoHLSConverting) error

	// PublishDeadLetter forwards an undeliverable raw payload, tagged
	// with the originating queue and reason, to the dead-letter sink.
	PublishDeadLetter(ctx context.Context, sourceQueue string, reason string, payload []byte) error

	// ConsumeUnprocessedVideoUploaded registers a handler for the
	// upload-ingestion queue. The handler's returned AckDecision
	// determines the broker action taken on the delivery.
	ConsumeUnprocessedVideoUploaded(ctx context.Context, handler func(context.Context, UnprocessedVideoUploaded) AckDecision) error

	// ConsumeConvertVideoToHLS registers a handler for the transcode
	// job queue.
	ConsumeConvertVideoToHLS(ctx context.Context, handler func(context.Context, ConvertVideoToHLS) AckDecision) error

	// ConsumeConfirmVideoHLSConverting registers a handler for the
	// completion confirmation queue.
	ConsumeConfirmVideoHLSConverting(ctx context.Context, handler func(context.Context, ConfirmVideoHLSConverting) AckDecision) error

	// Close releases the underlying connection and channel.
	Close() error
}
