package output

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink implements Sink backed by S3

type S3Sink struct {
	bucket string
	key    string
	s3     *s3.Client
}

func NewS3Sink(s3Client *s3.Client, bucket, key string) *S3Sink {
	return &S3Sink{
		bucket: bucket,
		key:    key,
		s3:     s3Client,
	}
}

func (s *S3Sink) Write(ctx context.Context, data []byte) error {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put output object to S3: %w", err)
	}
	return nil
}
