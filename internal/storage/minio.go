package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// MinioAPI is the subset of *minio.Client used by MinioUploader.
type MinioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioConfig configures a MinIO (or any S3-compatible) endpoint.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

// NewMinioClient dials nothing; minio clients connect lazily.
func NewMinioClient(cfg MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}
	return client, nil
}

// MinioUploader writes objects to a MinIO bucket.
type MinioUploader struct {
	client MinioAPI
	cfg    MinioConfig
	logger *logging.Logger
}

func NewMinioUploader(client MinioAPI, cfg MinioConfig, logger *logging.Logger) *MinioUploader {
	if client == nil {
		panic("storage: minio client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MinioUploader{client: client, cfg: cfg, logger: logger}
}

// Upload puts data under key.
func (u *MinioUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := u.client.PutObject(ctx, u.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: minio put %s/%s: %w", u.cfg.Bucket, key, err)
	}
	u.logger.Info("uploaded object to minio", "bucket", info.Bucket, "key", info.Key, "bytes", info.Size)
	return u.URL(key), nil
}

// URL returns the path-style URL for key.
func (u *MinioUploader) URL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return joinURL(u.cfg.PublicBaseURL, key)
	}
	scheme := "http"
	if u.cfg.UseSSL {
		scheme = "https"
	}
	return joinURL(scheme+"://"+u.cfg.Endpoint, u.cfg.Bucket, key)
}

var _ Uploader = (*MinioUploader)(nil)
