// Package s3 implements content.Store on Amazon S3 or any S3-compatible
// service (MinIO, Localstack).
//
// Storage paths generated by the upload pipeline are used directly as
// object keys, minus any leading slash. The bucket must already exist.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsS3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

const connectTimeout = 10 * time.Second

// Config holds S3 backend settings.
type Config struct {
	Region          string
	Bucket          string
	KeyPrefix       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3ContentStore implements content.Store backed by an S3 bucket.
type S3ContentStore struct {
	client *awsS3.Client
	bucket string
	prefix string
}

// NewS3ContentStore builds an S3 client from cfg and verifies the bucket is
// reachable with a HeadBucket call.
func NewS3ContentStore(ctx context.Context, cfg Config) (*S3ContentStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 content store: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 content store: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(cfg.Region))

	// Static credentials if provided, default credential chain otherwise.
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awsS3.NewFromConfig(awsCfg, func(o *awsS3.Options) {
		if cfg.Endpoint != "" {
			// Custom endpoint for MinIO, Localstack, etc.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	headCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if _, err := client.HeadBucket(headCtx, &awsS3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("failed to reach bucket %q: %w", cfg.Bucket, err)
	}

	return &S3ContentStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.KeyPrefix,
	}, nil
}

// objectKey maps a storage path to an S3 object key.
func (s *S3ContentStore) objectKey(path string) string {
	key := strings.TrimPrefix(path, "/")
	if s.prefix != "" {
		key = strings.TrimSuffix(s.prefix, "/") + "/" + key
	}
	return key
}

// Write uploads data as a single object.
func (s *S3ContentStore) Write(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, &awsS3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Read downloads the full object at path.
func (s *S3ContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awsS3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

// Close is a no-op; the S3 client holds no persistent connection.
func (s *S3ContentStore) Close() error {
	return nil
}
