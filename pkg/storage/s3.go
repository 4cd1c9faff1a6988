package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// FolderWebhooks is the S3 prefix for archived gateway webhook bodies.
const FolderWebhooks = "webhooks"

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ArchiveBucket   string
}

// S3 archives raw payloads to S3.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client using credentials from config or .env (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY).
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
		logger.Info("S3 client using credentials from .env/config", zap.String("region", cfg.Region), zap.String("archive_bucket", cfg.ArchiveBucket))
	} else {
		logger.Warn("S3 client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3{
		client:   client,
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// WebhookArchiveKey returns the S3 object key: webhooks/{gateway}/{yyyy}/{mm}/{dd}/{event_id}.json.
func WebhookArchiveKey(gatewayID string, eventID int64, receivedAt time.Time) string {
	t := receivedAt.UTC()
	return path.Join(FolderWebhooks, gatewayID, t.Format("2006"), t.Format("01"), t.Format("02"), strconv.FormatInt(eventID, 10)+".json")
}

// ArchiveBucket returns the webhook archive bucket name.
func (s *S3) ArchiveBucket() string { return s.cfg.ArchiveBucket }

// Upload writes body to bucket/key. No encryption or ACL is set.
func (s *S3) Upload(ctx context.Context, bucket, key, contentType string, body []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

// ArchiveWebhook uploads a raw webhook body to the archive bucket and returns its key.
func (s *S3) ArchiveWebhook(ctx context.Context, gatewayID string, eventID int64, receivedAt time.Time, body []byte) (string, error) {
	key := WebhookArchiveKey(gatewayID, eventID, receivedAt)
	if err := s.Upload(ctx, s.cfg.ArchiveBucket, key, "application/json", body); err != nil {
		return "", err
	}
	s.logger.Debug("webhook archived", zap.String("bucket", s.cfg.ArchiveBucket), zap.String("key", key))
	return key, nil
}
