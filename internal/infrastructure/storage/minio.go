package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/videopipe/gostream/internal/domain/repository"
)

// objectReader abstracts minio.Object for testability.
// *minio.Object satisfies this interface.
type objectReader interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// minioClient defines the interface for MinIO operations.
// This abstraction allows for easier unit testing with mocks.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// minioClientAdapter wraps *minio.Client to implement minioClient interface.
// This is necessary because *minio.Client.GetObject returns *minio.Object,
// but our interface returns objectReader for testability.
type minioClientAdapter struct {
	client *minio.Client
}

func (a *minioClientAdapter) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.client.BucketExists(ctx, bucketName)
}

func (a *minioClientAdapter) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return a.client.MakeBucket(ctx, bucketName, opts)
}

func (a *minioClientAdapter) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	return a.client.SetBucketPolicy(ctx, bucketName, policy)
}

func (a *minioClientAdapter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.client.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (a *minioClientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
	return a.client.GetObject(ctx, bucketName, objectName, opts)
}

func (a *minioClientAdapter) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return a.client.RemoveObject(ctx, bucketName, objectName, opts)
}

func (a *minioClientAdapter) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return a.client.StatObject(ctx, bucketName, objectName, opts)
}

// ClientConfig holds configuration for the MinIO client.
type ClientConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client wraps a MinIO client and implements repository.ObjectStorage.
type Client struct {
	client minioClient
	bucket string
}

// NewClient creates a new MinIO client. Bucket bootstrapping (creation
// plus public-read policy) happens explicitly via EnsureBucket so
// callers control when that side effect runs, rather than on every
// connect.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newClientWithMinioClient(&minioClientAdapter{client: client}, cfg.Bucket), nil
}

// newClientWithMinioClient creates a Client with a given minioClient
// implementation. This is used for dependency injection in tests.
func newClientWithMinioClient(client minioClient, bucket string) *Client {
	return &Client{client: client, bucket: bucket}
}

// bucketPolicyDocument returns an S3 bucket policy granting anonymous
// s3:GetObject on every object under prefix, scoped to bucket. This
// mirrors the Python original's boto3 policy construction.
func bucketPolicyDocument(bucket, prefix string) (string, error) {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{
			{
				"Effect":    "Allow",
				"Principal": map[string]any{"AWS": []string{"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/%s*", bucket, prefix)},
			},
		},
	}
	body, err := json.Marshal(policy)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bucket policy: %w", err)
	}
	return string(body), nil
}

// EnsureBucket creates the configured bucket if it does not already
// exist, creates an empty placeholder object at prefix so the logical
// video_files/ key space exists even before the first upload, then
// applies a public-read policy scoped to prefix (e.g. "video_files/").
// Safe to call on every startup: BucketExists makes bucket creation
// idempotent, PutObject overwrites the same empty body, and
// SetBucketPolicy overwrites rather than appends.
func (c *Client) EnsureBucket(ctx context.Context, prefix string) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: %s: %v", repository.ErrBucketNotFound, c.bucket, err)
		}
	}

	if _, err := c.client.PutObject(ctx, c.bucket, prefix, bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to create prefix placeholder %q: %w", prefix, err)
	}

	policy, err := bucketPolicyDocument(c.bucket, prefix)
	if err != nil {
		return err
	}
	if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// contentTypeForKey infers the content type from an object key's
// extension. .m3u8 and .ts get HLS-specific types; everything else is
// served as an opaque byte stream.
func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/MP2T"
	default:
		return "application/octet-stream"
	}
}

// Upload stores an object in storage, inferring its content type from
// key's extension.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentTypeForKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Download retrieves an object from storage.
// Caller is responsible for closing the returned ReadCloser.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	// Verify the object exists by checking its stat.
	// GetObject returns a lazy reader that doesn't fail until read.
	_, err = obj.Stat()
	if err != nil {
		_ = obj.Close() // Best effort close on error path
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, nil
}

// Delete removes an object from storage. Removing an object that does
// not exist is not an error (MinIO's RemoveObject is already idempotent
// in this respect).
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks if an object exists in storage.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// Ping verifies the MinIO connection is alive by checking bucket access.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to ping minio: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Compile-time verification that Client implements repository.ObjectStorage.
var _ repository.ObjectStorage = (*Client)(nil)
