// Package storage publishes generated feed files to an S3-compatible bucket
// (MinIO in the usual deployment).
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const feedContentType = "application/rss+xml"

// Uploader pushes local files to an object storage bucket.
type Uploader struct {
	client *s3.Client
}

// NewUploader creates an uploader for an S3-compatible endpoint with static
// credentials. Missing credentials are an error here; callers decide whether
// that means "skip uploads" for the run.
func NewUploader(ctx context.Context, endpoint, accessKey, secretKey string) (*Uploader, error) {
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("object storage credentials not configured")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint not configured")
	}
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "https://" + endpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // MinIO serves buckets by path, not subdomain
	})

	return &Uploader{client: client}, nil
}

// Upload stores a local file in the bucket. An empty objectName defaults to
// the file's base name. Single attempt, the caller logs failures.
func (u *Uploader) Upload(ctx context.Context, filePath, bucket, objectName string) error {
	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	f, err := os.Open(filePath) //nolint:gosec // path comes from our own output dir
	if err != nil {
		return fmt.Errorf("open feed file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        f,
		ContentType: aws.String(feedContentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s to bucket %s: %w", objectName, bucket, err)
	}
	return nil
}
