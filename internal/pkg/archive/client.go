// Package archive stores generated payment files in S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// ObjectPutter is the part of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Client uploads export files to one bucket
type Client struct {
	s3     ObjectPutter
	config *Config
}

// NewClient creates a new archive client and checks that the bucket is reachable
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("export archive is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	client := NewClientWithAPI(s3Client, cfg)
	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
	}

	log.Infof("[Archive] Initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

// NewClientWithAPI wraps an existing S3 API implementation.
func NewClientWithAPI(api ObjectPutter, cfg *Config) *Client {
	return &Client{s3: api, config: cfg}
}

// Store uploads a generated file and returns its object key.
func (c *Client) Store(ctx context.Context, month, fileName, contentType string, body []byte) (string, error) {
	key := c.config.ObjectKey(month, fileName)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"settlement-month": month,
			"upload-source":    "tierpay-export",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Infof("[Archive] Uploaded s3://%s/%s (%d bytes)", c.config.BucketName, key, len(body))
	return key, nil
}
