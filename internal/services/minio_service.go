package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore is the subset of *minio.Client used for report snapshots
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

// ReportArchive writes JSON report snapshots to object storage
type ReportArchive interface {
	Archive(ctx context.Context, at time.Time, name string, report any) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioArchive struct {
	store  ObjectStore
	bucket string
	logger *zap.Logger
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

func NewReportArchive(store ObjectStore, bucket string, logger *zap.Logger) ReportArchive {
	return &minioArchive{store: store, bucket: bucket, logger: logger}
}

// SnapshotKey is reports/<YYYY-MM-DD>/<HHMMSS>-<name>.json in UTC
func SnapshotKey(at time.Time, name string) string {
	at = at.UTC()
	return fmt.Sprintf("reports/%s/%s-%s.json", at.Format("2006-01-02"), at.Format("150405"), name)
}

func (m *minioArchive) Archive(ctx context.Context, at time.Time, name string, report any) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode %s snapshot: %w", name, err)
	}

	key := SnapshotKey(at, name)
	_, err = m.store.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	m.logger.Debug("archived report snapshot", zap.String("bucket", m.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

func (m *minioArchive) EnsureBucketExists(ctx context.Context) error {
	found, err := m.store.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		m.logger.Info("creating report bucket", zap.String("bucket", m.bucket))
		return m.store.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioArchive) Ping(ctx context.Context) error {
	_, err := m.store.BucketExists(ctx, m.bucket)
	return err
}
