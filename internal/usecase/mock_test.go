package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/videopipe/gostream/internal/domain/model"
	"github.com/videopipe/gostream/internal/domain/repository"
	"github.com/videopipe/gostream/internal/transcoder"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	insertPendingFn func(ctx context.Context, record *model.VideoRecord) error
	markCompleteFn  func(ctx context.Context, id uuid.UUID) error
	getByUUIDFn     func(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error)
	getByAuthorIDFn func(ctx context.Context, authorID int64, page repository.ListPage) ([]*model.VideoRecord, error)
	getByUUIDsFn    func(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error)
	listCompleteFn  func(ctx context.Context, page repository.ListPage) ([]*model.VideoRecord, error)
}

func (m *mockVideoRepository) InsertPending(ctx context.Context, record *model.VideoRecord) error {
	if m.insertPendingFn != nil {
		return m.insertPendingFn(ctx, record)
	}
	return nil
}

func (m *mockVideoRepository) MarkComplete(ctx context.Context, id uuid.UUID) error {
	if m.markCompleteFn != nil {
		return m.markCompleteFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*model.VideoRecord, error) {
	if m.getByUUIDFn != nil {
		return m.getByUUIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetByAuthorID(ctx context.Context, authorID int64, page repository.ListPage) ([]*model.VideoRecord, error) {
	if m.getByAuthorIDFn != nil {
		return m.getByAuthorIDFn(ctx, authorID, page)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoRecord, error) {
	if m.getByUUIDsFn != nil {
		return m.getByUUIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListComplete(ctx context.Context, page repository.ListPage) ([]*model.VideoRecord, error) {
	if m.listCompleteFn != nil {
		return m.listCompleteFn(ctx, page)
	}
	return nil, nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	ensureBucketFn func(ctx context.Context, prefix string) error
	uploadFn       func(ctx context.Context, key string, reader io.Reader, size int64) error
	downloadFn     func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn       func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) EnsureBucket(ctx context.Context, prefix string) error {
	if m.ensureBucketFn != nil {
		return m.ensureBucketFn(ctx, prefix)
	}
	return nil
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishUnprocessedVideoUploadedFn  func(ctx context.Context, msg repository.UnprocessedVideoUploaded) error
	publishConvertVideoToHLSFn         func(ctx context.Context, msg repository.ConvertVideoToHLS) error
	publishConfirmVideoHLSConvertingFn func(ctx context.Context, msg repository.ConfirmVideoHLSConverting) error
	publishDeadLetterFn                func(ctx context.Context, sourceQueue, reason string, payload []byte) error
	consumeUnprocessedVideoUploadedFn  func(ctx context.Context, handler func(context.Context, repository.UnprocessedVideoUploaded) repository.AckDecision) error
	consumeConvertVideoToHLSFn         func(ctx context.Context, handler func(context.Context, repository.ConvertVideoToHLS) repository.AckDecision) error
	consumeConfirmVideoHLSConvertingFn func(ctx context.Context, handler func(context.Context, repository.ConfirmVideoHLSConverting) repository.AckDecision) error
}

func (m *mockMessageQueue) PublishUnprocessedVideoUploaded(ctx context.Context, msg repository.UnprocessedVideoUploaded) error {
	if m.publishUnprocessedVideoUploadedFn != nil {
		return m.publishUnprocessedVideoUploadedFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageQueue) PublishConvertVideoToHLS(ctx context.Context, msg repository.ConvertVideoToHLS) error {
	if m.publishConvertVideoToHLSFn != nil {
		return m.publishConvertVideoToHLSFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageQueue) PublishConfirmVideoHLSConverting(ctx context.Context, msg repository.ConfirmVideoHLSConverting) error {
	if m.publishConfirmVideoHLSConvertingFn != nil {
		return m.publishConfirmVideoHLSConvertingFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageQueue) PublishDeadLetter(ctx context.Context, sourceQueue, reason string, payload []byte) error {
	if m.publishDeadLetterFn != nil {
		return m.publishDeadLetterFn(ctx, sourceQueue, reason, payload)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeUnprocessedVideoUploaded(ctx context.Context, handler func(context.Context, repository.UnprocessedVideoUploaded) repository.AckDecision) error {
	if m.consumeUnprocessedVideoUploadedFn != nil {
		return m.consumeUnprocessedVideoUploadedFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeConvertVideoToHLS(ctx context.Context, handler func(context.Context, repository.ConvertVideoToHLS) repository.AckDecision) error {
	if m.consumeConvertVideoToHLSFn != nil {
		return m.consumeConvertVideoToHLSFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeConfirmVideoHLSConverting(ctx context.Context, handler func(context.Context, repository.ConfirmVideoHLSConverting) repository.AckDecision) error {
	if m.consumeConfirmVideoHLSConvertingFn != nil {
		return m.consumeConfirmVideoHLSConvertingFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockTranscoder provides a configurable mock for transcoder.Transcoder.
type mockTranscoder struct {
	probeResolutionFn func(ctx context.Context, inputPath string) (int, int, error)
	transcodeToABRFn  func(ctx context.Context, inputPath, outputDir, videoUUID string) (*transcoder.ABROutput, error)
}

func (m *mockTranscoder) ProbeResolution(ctx context.Context, inputPath string) (int, int, error) {
	if m.probeResolutionFn != nil {
		return m.probeResolutionFn(ctx, inputPath)
	}
	return 0, 0, nil
}

func (m *mockTranscoder) TranscodeToABR(ctx context.Context, inputPath, outputDir, videoUUID string) (*transcoder.ABROutput, error) {
	if m.transcodeToABRFn != nil {
		return m.transcodeToABRFn(ctx, inputPath, outputDir, videoUUID)
	}
	return nil, nil
}
