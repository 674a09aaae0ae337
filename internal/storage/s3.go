package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"crown-platform/backend/internal/config"
)

// BucketStore uploads media objects to the platform's S3-compatible
// bucket (cover images, thumbnails, uploaded videos) and returns public
// CDN URLs.
type BucketStore struct {
	client  *s3.Client
	bucket  string
	cdnBase string
}

func NewBucketStore(ctx context.Context, cfg config.Config) (*BucketStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey, cfg.StorageSecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})

	cdnBase := cfg.CDNBaseURL
	if cdnBase == "" {
		cdnBase = fmt.Sprintf("%s/%s", cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &BucketStore{
		client:  client,
		bucket:  cfg.StorageBucket,
		cdnBase: cdnBase,
	}, nil
}

// Upload puts the object and returns its public URL.
func (s *BucketStore) Upload(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", s.cdnBase, key), nil
}
