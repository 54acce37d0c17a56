package state

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"dropbox-comments/core/storage"

	"github.com/minio/minio-go/v7"
)

// MinioMirror stores state snapshots as a single object in an S3 bucket.
type MinioMirror struct {
	client storage.Client
	bucket string
	object string
}

// NewMinioMirror creates a mirror writing to bucket/object.
func NewMinioMirror(client storage.Client, bucket, object string) *MinioMirror {
	return &MinioMirror{client: client, bucket: bucket, object: object}
}

// EnsureBucket creates the bucket if it does not exist.
func (m *MinioMirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	return nil
}

// Upload implements Mirror.
func (m *MinioMirror) Upload(ctx context.Context, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", m.object, err)
	}
	return nil
}

// Download implements Mirror.
func (m *MinioMirror) Download(ctx context.Context) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.downloadErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.downloadErr(err)
	}
	return data, nil
}

func (m *MinioMirror) downloadErr(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("failed to download %s: %w", m.object, err)
}
