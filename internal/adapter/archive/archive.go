package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ezla-online/portal/internal/config"
)

const contentTypePDF = "application/pdf"

// Archive keeps generated case summaries in object storage.
type Archive interface {
	Put(ctx context.Context, caseID string, pdf []byte) error
	Remove(ctx context.Context, caseIDs []string) error
}

// S3Archive stores summaries in an S3 compatible bucket.
type S3Archive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Archive connects to the configured endpoint. Bucket existence is
// checked lazily by the first upload.
func NewS3Archive(cfg config.S3Config, logger *slog.Logger) (*S3Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Archive{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// ObjectKey returns the storage key of a case summary.
func ObjectKey(caseID string) string {
	return "summaries/" + caseID + ".pdf"
}

func (a *S3Archive) Put(ctx context.Context, caseID string, pdf []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, ObjectKey(caseID), bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: contentTypePDF})
	if err != nil {
		return fmt.Errorf("put summary %s: %w", caseID, err)
	}
	a.logger.Debug("summary archived", slog.String("case_id", caseID), slog.Int("size", len(pdf)))
	return nil
}

// Remove deletes the summaries of all given cases and returns the first error.
func (a *S3Archive) Remove(ctx context.Context, caseIDs []string) error {
	var firstErr error
	for _, id := range caseIDs {
		if err := a.client.RemoveObject(ctx, a.bucket, ObjectKey(id), minio.RemoveObjectOptions{}); err != nil {
			a.logger.Warn("summary removal failed", slog.String("case_id", id), slog.Any("error", err))
			if firstErr == nil {
				firstErr = fmt.Errorf("remove summary %s: %w", id, err)
			}
		}
	}
	return firstErr
}

// Noop is used when no object storage is configured.
type Noop struct{}

func (Noop) Put(context.Context, string, []byte) error { return nil }
func (Noop) Remove(context.Context, []string) error    { return nil }
