package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/portfolio-api/internal/config"
	"github.com/wolfman30/portfolio-api/internal/notify"
	"github.com/wolfman30/portfolio-api/internal/storage"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// BuildEmailSender selects the transport named by EMAIL_PROVIDER. Unknown
// or unconfigured providers fall back to the logging stub.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "smtp":
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.EmailHost,
			Port:      cfg.EmailPort,
			Username:  cfg.EmailUsername,
			Password:  cfg.EmailPassword,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
			UseSSL:    cfg.EmailUseSSL,
		}, logger)
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
	case "ses":
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
	}
	logger.Warn("email delivery disabled; using stub sender", "provider", cfg.EmailProvider)
	return notify.NewStubEmailSender(logger)
}

// BuildUploader returns the pitch proposal store, or nil for UPLOAD_PROVIDER=none.
func BuildUploader(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (storage.Uploader, error) {
	switch cfg.UploadProvider {
	case "s3":
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		return storage.NewS3Uploader(client, storage.S3Config{
			Bucket:        cfg.UploadBucket,
			Region:        cfg.AWSRegion,
			PublicBaseURL: cfg.UploadPublicBaseURL,
		}, logger), nil
	case "minio":
		mcfg := storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			UseSSL:        cfg.MinioUseSSL,
			Bucket:        cfg.UploadBucket,
			PublicBaseURL: cfg.UploadPublicBaseURL,
		}
		client, err := storage.NewMinioClient(mcfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: minio client: %w", err)
		}
		return storage.NewMinioUploader(client, mcfg, logger), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown upload provider %q", cfg.UploadProvider)
	}
}
