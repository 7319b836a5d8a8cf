package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/videopipe/gostream/internal/domain/repository"
)

// mockObjectReader implements objectReader interface for testing.
type mockObjectReader struct {
	readFunc  func(p []byte) (n int, err error)
	closeFunc func() error
	statFunc  func() (minio.ObjectInfo, error)
	data      []byte
	offset    int
}

func (m *mockObjectReader) Read(p []byte) (n int, err error) {
	if m.readFunc != nil {
		return m.readFunc(p)
	}
	if m.offset >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.offset:])
	m.offset += n
	return n, nil
}

func (m *mockObjectReader) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockObjectReader) Stat() (minio.ObjectInfo, error) {
	if m.statFunc != nil {
		return m.statFunc()
	}
	return minio.ObjectInfo{}, nil
}

// mockMinioClient implements minioClient interface for testing.
type mockMinioClient struct {
	bucketExistsFunc    func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFunc       func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	setBucketPolicyFunc  func(ctx context.Context, bucketName, policy string) error
	putObjectFunc        func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	getObjectFunc        func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error)
	removeObjectFunc     func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	statObjectFunc       func(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

func (m *mockMinioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	if m.bucketExistsFunc != nil {
		return m.bucketExistsFunc(ctx, bucketName)
	}
	return true, nil
}

func (m *mockMinioClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	if m.makeBucketFunc != nil {
		return m.makeBucketFunc(ctx, bucketName, opts)
	}
	return nil
}

func (m *mockMinioClient) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	if m.setBucketPolicyFunc != nil {
		return m.setBucketPolicyFunc(ctx, bucketName, policy)
	}
	return nil
}

func (m *mockMinioClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, bucketName, objectName, reader, objectSize, opts)
	}
	return minio.UploadInfo{}, nil
}

func (m *mockMinioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, bucketName, objectName, opts)
	}
	return nil, nil
}

func (m *mockMinioClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	if m.removeObjectFunc != nil {
		return m.removeObjectFunc(ctx, bucketName, objectName, opts)
	}
	return nil
}

func (m *mockMinioClient) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if m.statObjectFunc != nil {
		return m.statObjectFunc(ctx, bucketName, objectName, opts)
	}
	return minio.ObjectInfo{}, nil
}

func TestNewClientWithMinioClient(t *testing.T) {
	client := newClientWithMinioClient(&mockMinioClient{}, "test-bucket")
	if client.bucket != "test-bucket" {
		t.Errorf("client.bucket = %v, want %v", client.bucket, "test-bucket")
	}
}

func TestClient_EnsureBucket(t *testing.T) {
	tests := []struct {
		name         string
		mockClient   *mockMinioClient
		wantErr      error
		wantMadeCall bool
	}{
		{
			name: "bucket already exists, policy and placeholder applied",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) { return true, nil },
				makeBucketFunc: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					t.Fatal("MakeBucket should not be called when bucket exists")
					return nil
				},
			},
		},
		{
			name: "bucket missing, created then policy applied",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) { return false, nil },
				makeBucketFunc: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					return nil
				},
			},
			wantMadeCall: true,
		},
		{
			name: "bucket check error",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) {
					return false, errors.New("connection refused")
				},
			},
			wantErr: errors.New("failed to check bucket existence"),
		},
		{
			name: "make bucket error",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) { return false, nil },
				makeBucketFunc: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					return errors.New("permission denied")
				},
			},
			wantErr: repository.ErrBucketNotFound,
		},
		{
			name: "set policy error",
			mockClient: &mockMinioClient{
				bucketExistsFunc:   func(ctx context.Context, bucketName string) (bool, error) { return true, nil },
				setBucketPolicyFunc: func(ctx context.Context, bucketName, policy string) error { return errors.New("denied") },
			},
			wantErr: errors.New("failed to set bucket policy"),
		},
		{
			name: "placeholder put error",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) { return true, nil },
				putObjectFunc: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					return minio.UploadInfo{}, errors.New("denied")
				},
			},
			wantErr: errors.New("failed to create prefix placeholder"),
		},
		{
			name: "bucket missing, placeholder created with empty body at prefix key",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) { return false, nil },
				makeBucketFunc: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					return nil
				},
				putObjectFunc: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					if objectName != "video_files/" {
						t.Errorf("PutObject objectName = %q, want %q", objectName, "video_files/")
					}
					if objectSize != 0 {
						t.Errorf("PutObject objectSize = %d, want 0", objectSize)
					}
					data, err := io.ReadAll(reader)
					if err != nil || len(data) != 0 {
						t.Errorf("PutObject body = %q, err %v, want empty", data, err)
					}
					return minio.UploadInfo{}, nil
				},
			},
			wantMadeCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			madeCall := false
			if makeBucket := tt.mockClient.makeBucketFunc; makeBucket != nil {
				tt.mockClient.makeBucketFunc = func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					madeCall = true
					return makeBucket(ctx, bucketName, opts)
				}
			}
			client := &Client{client: tt.mockClient, bucket: "videos"}

			err := client.EnsureBucket(context.Background(), "video_files/")

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("EnsureBucket() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Errorf("EnsureBucket() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("EnsureBucket() unexpected error = %v", err)
			}
			if madeCall != tt.wantMadeCall {
				t.Errorf("MakeBucket called = %v, want %v", madeCall, tt.wantMadeCall)
			}
		})
	}
}

func TestBucketPolicyDocument_ScopesToPrefix(t *testing.T) {
	policy, err := bucketPolicyDocument("videos", "video_files/")
	if err != nil {
		t.Fatalf("bucketPolicyDocument() error = %v", err)
	}
	if !strings.Contains(policy, "arn:aws:s3:::videos/video_files/*") {
		t.Errorf("policy does not scope to prefix: %s", policy)
	}
	if !strings.Contains(policy, "s3:GetObject") {
		t.Errorf("policy does not grant s3:GetObject: %s", policy)
	}
}

func TestContentTypeForKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"hls/uuid/master.m3u8", "application/vnd.apple.mpegurl"},
		{"hls/uuid/720p-uuid000.ts", "video/MP2T"},
		{"hls/uuid/original.mp4", "application/octet-stream"},
		{"video_files/uuid/README", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeForKey(tt.key); got != tt.want {
			t.Errorf("contentTypeForKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestClient_Upload(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		content     string
		wantContent string
		mockClient  *mockMinioClient
		wantErr     bool
	}{
		{
			name:    "successful upload infers content type",
			key:     "video_files/uuid/master.m3u8",
			content: "#EXTM3U",
			mockClient: &mockMinioClient{
				putObjectFunc: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					if opts.ContentType != "application/vnd.apple.mpegurl" {
						t.Errorf("expected content type application/vnd.apple.mpegurl, got %s", opts.ContentType)
					}
					return minio.UploadInfo{Bucket: bucketName, Key: objectName}, nil
				},
			},
			wantErr: false,
		},
		{
			name:    "upload error",
			key:     "video_files/uuid/master.m3u8",
			content: "data",
			mockClient: &mockMinioClient{
				putObjectFunc: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					return minio.UploadInfo{}, errors.New("upload failed")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{client: tt.mockClient, bucket: "videos"}

			reader := bytes.NewReader([]byte(tt.content))
			err := client.Upload(context.Background(), tt.key, reader, int64(len(tt.content)))

			if (err != nil) != tt.wantErr {
				t.Errorf("Upload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Download(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		mockClient  *mockMinioClient
		wantContent string
		wantErr     error
	}{
		{
			name: "successful download",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				getObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
					return &mockObjectReader{
						data: []byte("video content"),
						statFunc: func() (minio.ObjectInfo, error) {
							return minio.ObjectInfo{Key: objectName, Size: 13}, nil
						},
					}, nil
				},
			},
			wantContent: "video content",
			wantErr:     nil,
		},
		{
			name: "object not found",
			key:  "video_files/uuid/nonexistent.mp4",
			mockClient: &mockMinioClient{
				getObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
					return &mockObjectReader{
						statFunc: func() (minio.ObjectInfo, error) {
							return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
						},
					}, nil
				},
			},
			wantContent: "",
			wantErr:     repository.ErrObjectNotFound,
		},
		{
			name: "get object error",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				getObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
					return nil, errors.New("connection refused")
				},
			},
			wantContent: "",
			wantErr:     errors.New("failed to get object"),
		},
		{
			name: "stat error",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				getObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
					return &mockObjectReader{
						statFunc: func() (minio.ObjectInfo, error) {
							return minio.ObjectInfo{}, errors.New("stat failed")
						},
					}, nil
				},
			},
			wantContent: "",
			wantErr:     errors.New("failed to stat object"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{client: tt.mockClient, bucket: "videos"}

			reader, err := client.Download(context.Background(), tt.key)

			if tt.wantErr != nil {
				if err == nil {
					t.Errorf("Download() expected error, got nil")
					return
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Errorf("Download() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Download() unexpected error = %v", err)
				return
			}

			defer reader.Close()

			content, err := io.ReadAll(reader)
			if err != nil {
				t.Errorf("failed to read content: %v", err)
				return
			}

			if string(content) != tt.wantContent {
				t.Errorf("Download() content = %v, want %v", string(content), tt.wantContent)
			}
		})
	}
}

func TestClient_Delete(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		mockClient *mockMinioClient
		wantErr    bool
	}{
		{
			name: "successful delete",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				removeObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
					return nil
				},
			},
			wantErr: false,
		},
		{
			name: "delete error",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				removeObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
					return errors.New("delete failed")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{client: tt.mockClient, bucket: "videos"}

			err := client.Delete(context.Background(), tt.key)

			if (err != nil) != tt.wantErr {
				t.Errorf("Delete() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Exists(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		mockClient *mockMinioClient
		want       bool
		wantErr    bool
	}{
		{
			name: "object exists",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				statObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{Key: objectName, Size: 1024}, nil
				},
			},
			want:    true,
			wantErr: false,
		},
		{
			name: "object does not exist",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				statObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
				},
			},
			want:    false,
			wantErr: false,
		},
		{
			name: "stat error",
			key:  "video_files/uuid/original.mp4",
			mockClient: &mockMinioClient{
				statObjectFunc: func(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{}, errors.New("connection error")
				},
			},
			want:    false,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{client: tt.mockClient, bucket: "videos"}

			got, err := client.Exists(context.Background(), tt.key)

			if (err != nil) != tt.wantErr {
				t.Errorf("Exists() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name       string
		mockClient *mockMinioClient
		wantErr    bool
	}{
		{
			name: "successful ping",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) {
					return true, nil
				},
			},
			wantErr: false,
		},
		{
			name: "ping error",
			mockClient: &mockMinioClient{
				bucketExistsFunc: func(ctx context.Context, bucketName string) (bool, error) {
					return false, errors.New("connection refused")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{client: tt.mockClient, bucket: "videos"}

			err := client.Ping(context.Background())

			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Bucket(t *testing.T) {
	client := &Client{bucket: "test-bucket"}

	if got := client.Bucket(); got != "test-bucket" {
		t.Errorf("Bucket() = %v, want %v", got, "test-bucket")
	}
}
