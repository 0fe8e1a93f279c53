// Package snapshot uploads workspace state backups to S3-compatible
// storage. When backups are not configured (empty bucket), the NoopUploader
// is used and the system stays in local-only mode.
package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/scai-digital/cascade/internal/config"
)

// Uploader uploads workspace state snapshots.
type Uploader interface {
	// Upload stores one JSON snapshot of the workspace state.
	Upload(ctx context.Context, data []byte) error

	// Configured reports whether uploads actually go anywhere.
	Configured() bool
}

// s3Client defines the minimal minio.Client operations used by S3Uploader.
// This interface enables testing with mock implementations.
type s3Client interface {
	PutObject(ctx context.Context, bucket, objectName string, reader *bytes.Reader, size int64, contentType string) error
}

// minioClientWrapper wraps *minio.Client to satisfy the s3Client interface.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) PutObject(ctx context.Context, bucket, objectName string, reader *bytes.Reader, size int64, contentType string) error {
	_, err := w.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// S3Uploader uploads snapshots to S3-compatible storage.
type S3Uploader struct {
	client s3Client
	bucket string
}

// Upload stores the snapshot under the workspace's fixed object key,
// replacing the previous backup.
func (u *S3Uploader) Upload(ctx context.Context, data []byte) error {
	reader := bytes.NewReader(data)
	if err := u.client.PutObject(ctx, u.bucket, objectKey(), reader, int64(len(data)), "application/json"); err != nil {
		return fmt.Errorf("upload snapshot to S3: %w", err)
	}
	return nil
}

// Configured reports that uploads reach storage.
func (u *S3Uploader) Configured() bool { return true }

// NoopUploader is used when backup storage is not configured.
type NoopUploader struct{}

// Upload is a no-op when backups are not configured.
func (u *NoopUploader) Upload(ctx context.Context, data []byte) error {
	return nil
}

// Configured reports that uploads go nowhere.
func (u *NoopUploader) Configured() bool { return false }

// NewUploader creates the appropriate Uploader based on configuration.
// Returns NoopUploader when bucket is empty, S3Uploader otherwise.
func NewUploader(cfg config.BackupConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return &NoopUploader{}, nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Uploader{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
	}, nil
}

// objectKey returns the S3 object key for the workspace backup.
// Convention: workspace/state/current.json
func objectKey() string {
	return "workspace/state/current.json"
}
