package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Uploader.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 uploader. PublicBaseURL overrides the
// virtual-hosted bucket URL (CDN, LocalStack).
type S3Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string
}

// S3Uploader writes objects to an S3 bucket.
type S3Uploader struct {
	client S3API
	cfg    S3Config
	logger *logging.Logger
}

// NewS3Uploader panics when client is nil.
func NewS3Uploader(client S3API, cfg S3Config, logger *logging.Logger) *S3Uploader {
	if client == nil {
		panic("storage: s3 client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Uploader{client: client, cfg: cfg, logger: logger}
}

// Upload puts data under key.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}
	u.logger.Info("uploaded object to s3", "bucket", u.cfg.Bucket, "key", key, "bytes", len(data))
	return u.URL(key), nil
}

// URL returns the public URL for key.
func (u *S3Uploader) URL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return joinURL(u.cfg.PublicBaseURL, key)
	}
	region := u.cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", u.cfg.Bucket, region), key)
}

var _ Uploader = (*S3Uploader)(nil)
