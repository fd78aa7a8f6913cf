package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Writer stores page payloads as JSON on disk or in S3.
type Writer struct {
	// NewS3 is called on the first s3:// destination.
	NewS3 func(ctx context.Context) (PutObjectAPI, error)
	s3    PutObjectAPI
}

func NewWriter(newS3 func(ctx context.Context) (PutObjectAPI, error)) *Writer {
	return &Writer{NewS3: newS3}
}

// ParseS3URL splits s3://bucket/key. ok is false for anything else.
func ParseS3URL(dest string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(dest, "s3://") {
		return "", "", false, nil
	}
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", true, fmt.Errorf("invalid s3 url %q: %w", dest, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", true, fmt.Errorf("s3 url %q needs a bucket and a key", dest)
	}
	return u.Host, key, true, nil
}

func (w *Writer) Write(ctx context.Context, page api.Page, dest string) error {
	logger := zerolog.Ctx(ctx)

	payload, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}

	bucket, key, isS3, err := ParseS3URL(dest)
	if err != nil {
		return err
	}

	if !isS3 {
		if err := os.WriteFile(dest, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		logger.Info().Str("path", dest).Int("bytes", len(payload)).Msg("page exported")
		return nil
	}

	if w.s3 == nil {
		if w.NewS3 == nil {
			return fmt.Errorf("s3 export is not configured")
		}
		client, err := w.NewS3(ctx)
		if err != nil {
			return fmt.Errorf("failed to create s3 client: %w", err)
		}
		w.s3 = client
	}

	_, err = w.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", bucket, key, err)
	}

	logger.Info().Str("bucket", bucket).Str("key", key).Int("bytes", len(payload)).Msg("page exported")
	return nil
}
