package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// DefaultLinkExpiry is how long a presigned archive link stays valid.
const DefaultLinkExpiry = 24 * time.Hour

// ObjectStore is the part of an S3-compatible store the archive needs.
type ObjectStore interface {
	EnsureBucketExists(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, bucket, object string, expiry time.Duration) (string, error)
}

type minioStore struct {
	client *minio.Client
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioStore{client: client}, nil
}

func (m *minioStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	found, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStore) Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStore) PresignedURL(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, bucket, object, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Archive keeps a copy of every exported report in a bucket.
type Archive struct {
	store  ObjectStore
	bucket string
	expiry time.Duration
	logger *zap.Logger
}

func NewArchive(store ObjectStore, bucket string, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{store: store, bucket: bucket, expiry: DefaultLinkExpiry, logger: logger}
}

// Put uploads data as reports/<name>, creating the bucket on first use, and
// returns a presigned download link.
func (a *Archive) Put(ctx context.Context, name string, format Format, data []byte) (string, error) {
	if err := a.store.EnsureBucketExists(ctx, a.bucket); err != nil {
		return "", fmt.Errorf("failed to prepare bucket %s: %w", a.bucket, err)
	}

	object := "reports/" + name
	if err := a.store.Upload(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), format.ContentType()); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}

	link, err := a.store.PresignedURL(ctx, a.bucket, object, a.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", object, err)
	}
	a.logger.Info("Report archived",
		zap.String("bucket", a.bucket),
		zap.String("object", object),
		zap.Int("bytes", len(data)))
	return link, nil
}
