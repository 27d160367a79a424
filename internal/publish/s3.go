package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/JonMunkholm/register/internal/core"
)

// LatestObjectName is overwritten on every publish next to the timestamped copy.
const LatestObjectName = "attendance_report_latest.xlsx"

// PutObjectAPI is the part of *s3.Client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Sink.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // e.g. "reports/conference-2026"
}

// S3Sink uploads the report workbook to a bucket.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a sink using the default AWS credential chain.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 sink: load AWS config: %w", err)
	}
	return NewS3SinkWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

// NewS3SinkWithClient creates a sink around an existing client.
func NewS3SinkWithClient(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// Name identifies the sink in logs.
func (s *S3Sink) Name() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// Publish uploads the workbook under its timestamped name, then refreshes
// the latest copy.
func (s *S3Sink) Publish(ctx context.Context, r *core.Report) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}

	for _, name := range []string{r.FileName(), LatestObjectName} {
		key := path.Join(s.prefix, name)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
			ContentType:   aws.String(core.ReportContentType),
			Metadata: map[string]string{
				"generated-at": r.GeneratedAt.UTC().Format(time.RFC3339),
				"participants": fmt.Sprint(len(r.Raw)),
			},
		})
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}
	return nil
}
