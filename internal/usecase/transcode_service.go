package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/infrastructure/metrics"
	"github.com/videopipe/gostream/internal/transcoder"
)

// videoFilesPrefix is the object-store prefix under which every rendition
// of a processed video is stored, and the only prefix the bucket policy
// grants public read access to.
const videoFilesPrefix = "video_files"

// TranscodeServiceConfig holds configuration for TranscodeService.
type TranscodeServiceConfig struct {
	// TempDir is the base directory for temporary files during transcoding.
	TempDir string
}

// DefaultTranscodeServiceConfig returns the default configuration.
func DefaultTranscodeServiceConfig() TranscodeServiceConfig {
	return TranscodeServiceConfig{
		TempDir: os.TempDir(),
	}
}

// TranscodeService is the Transcoder Worker's core logic: it consumes a
// convert_video_to_hls job, downloads the source, runs the ladder
// transcode, uploads every rendition, deletes the source object, and
// reports the AckDecision for the caller to apply to the delivery.
type TranscodeService interface {
	ProcessJob(ctx context.Context, job repository.ConvertVideoToHLS) repository.AckDecision
}

type transcodeService struct {
	storage    repository.ObjectStorage
	queue      repository.MessageQueue
	transcoder transcoder.Transcoder

	tempDir string
}

// NewTranscodeService creates a new TranscodeService instance.
func NewTranscodeService(
	storage repository.ObjectStorage,
	queue repository.MessageQueue,
	tc transcoder.Transcoder,
	cfg TranscodeServiceConfig,
) TranscodeService {
	return &transcodeService{
		storage:    storage,
		queue:      queue,
		transcoder: tc,
		tempDir:    cfg.TempDir,
	}
}

// ProcessJob downloads the source blob named in job, transcodes it into
// the full adaptive-bitrate rendition ladder, uploads every output file
// under video_files/<uuid>/, deletes the source object, and publishes a
// confirm_video_hls_converting message. Order matters: the source is
// only deleted once every output file has landed in storage, and the
// confirmation is only published once the source is gone, so a confirmed
// record always has its outputs uploaded and its source removed. A
// failure between deletion and confirmation leaves the source deleted
// and the record unconfirmed; the job is requeued.
func (s *transcodeService) ProcessJob(ctx context.Context, job repository.ConvertVideoToHLS) repository.AckDecision {
	if err := job.Validate(); err != nil {
		slog.Error("malformed convert_video_to_hls job", "uuid", job.UUID, "error", err)
		return repository.AckAndDrop
	}

	workDir, err := s.createWorkDir(job.UUID)
	if err != nil {
		slog.Error("create work directory", "uuid", job.UUID, "error", err)
		return repository.NackRequeue
	}
	defer s.cleanup(workDir)

	inputPath, err := s.downloadSource(ctx, job.VideoPath, workDir)
	if err != nil {
		slog.Error("download source", "uuid", job.UUID, "video_path", job.VideoPath, "error", err)
		return repository.NackRequeue
	}

	outputDir := filepath.Join(workDir, "hls")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		slog.Error("create output directory", "uuid", job.UUID, "error", err)
		return repository.NackRequeue
	}

	start := time.Now()
	abrOutput, err := s.transcoder.TranscodeToABR(ctx, inputPath, outputDir, job.UUID.String())
	if err != nil {
		slog.Error("transcode job failed", "uuid", job.UUID, "error", repository.ErrTranscodeFailed, "cause", err)
		return repository.NackDrop
	}
	metrics.TranscodeDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.RenditionsProducedTotal.Add(float64(len(abrOutput.Renditions)))

	if err := s.uploadRenditions(ctx, job.UUID, abrOutput); err != nil {
		slog.Error("upload renditions", "uuid", job.UUID, "error", err)
		return repository.NackRequeue
	}

	if err := s.storage.Delete(ctx, job.VideoPath); err != nil {
		// Deleting an already-absent source is idempotent, so a redelivery
		// that retries this step is harmless. Requeue rather than confirm
		// out of order: confirmation must follow deletion.
		slog.Error("delete source object", "uuid", job.UUID, "video_path", job.VideoPath, "error", err)
		return repository.NackRequeue
	}

	if err := s.queue.PublishConfirmVideoHLSConverting(ctx, repository.ConfirmVideoHLSConverting{UUID: job.UUID}); err != nil {
		slog.Error("publish confirmation", "uuid", job.UUID, "error", err)
		return repository.NackRequeue
	}

	return repository.AckAndDrop
}

// createWorkDir creates a temporary directory for processing a specific job.
func (s *transcodeService) createWorkDir(videoUUID uuid.UUID) (string, error) {
	workDir := filepath.Join(s.tempDir, "gostream-transcode", videoUUID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return workDir, nil
}

// cleanup removes the temporary working directory.
func (s *transcodeService) cleanup(workDir string) {
	_ = os.RemoveAll(workDir)
}

// downloadSource downloads the source video from object storage to a
// local file under workDir.
func (s *transcodeService) downloadSource(ctx context.Context, videoPath, workDir string) (string, error) {
	reader, err := s.storage.Download(ctx, videoPath)
	if err != nil {
		return "", fmt.Errorf("storage download: %w", err)
	}
	defer func() { _ = reader.Close() }()

	filename := filepath.Base(videoPath)
	if filename == "." || filename == "/" || filename == "" {
		filename = "source"
	}

	localPath := filepath.Join(workDir, filename)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("copy to local file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close local file: %w", err)
	}

	return localPath, nil
}

// uploadRenditions uploads the master playlist plus every rendition's
// playlist and segments to video_files/<uuid>/.
func (s *transcodeService) uploadRenditions(ctx context.Context, videoUUID uuid.UUID, abrOutput *transcoder.ABROutput) error {
	prefix := fmt.Sprintf("%s/%s/", videoFilesPrefix, videoUUID.String())

	if err := s.uploadFile(ctx, abrOutput.MasterPlaylistPath, prefix+filepath.Base(abrOutput.MasterPlaylistPath)); err != nil {
		return fmt.Errorf("upload master playlist: %w", err)
	}

	for _, rendition := range abrOutput.Renditions {
		playlistKey := prefix + filepath.Base(rendition.PlaylistPath)
		if err := s.uploadFile(ctx, rendition.PlaylistPath, playlistKey); err != nil {
			return fmt.Errorf("upload %dp playlist: %w", rendition.Rendition.Height, err)
		}

		for _, segmentPath := range rendition.SegmentPaths {
			segmentKey := prefix + filepath.Base(segmentPath)
			if err := s.uploadFile(ctx, segmentPath, segmentKey); err != nil {
				return fmt.Errorf("upload %dp segment %s: %w", rendition.Rendition.Height, filepath.Base(segmentPath), err)
			}
		}
	}

	return nil
}

// uploadFile uploads a single local file to object storage under key.
func (s *transcodeService) uploadFile(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if err := s.storage.Upload(ctx, key, file, info.Size()); err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}

	return nil
}
