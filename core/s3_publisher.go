package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Publisher uploads finished workbooks to S3. The prefix may contain
// "$date:" expressions, expanded at upload time, so archived reports land
// under dated keys.
type S3Publisher struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// NewS3Publisher creates a new publisher.
func NewS3Publisher(cfg aws.Config, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Prefix: prefix,
	}
}

// Publish uploads the workbook at localPath under the publisher's prefix,
// keeping the local file name as the final key segment.
func (p *S3Publisher) Publish(localPath string) error {
	prefix, err := expandPrefix(p.Prefix, time.Now())
	if err != nil {
		return err
	}
	key := path.Join(prefix, filepath.Base(localPath))
	key = strings.TrimPrefix(key, "/")
	return p.UploadFile(localPath, key)
}

// UploadFile uploads a single file to S3.
func (p *S3Publisher) UploadFile(localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer file.Close()

	slog.Info("Uploading to S3", "local", localPath, "bucket", p.Bucket, "key", key)

	_, err = p.Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3: %w", err)
	}
	return nil
}

// expandPrefix expands "$date:" expressions per prefix segment.
// Deterministic for a fixed base time.
func expandPrefix(prefix string, baseTime time.Time) (string, error) {
	segments := strings.Split(prefix, "/")
	for i, seg := range segments {
		expanded, err := ParseDynamicDate(seg, baseTime)
		if err != nil {
			return "", fmt.Errorf("invalid prefix segment '%s': %w", seg, err)
		}
		segments[i] = expanded
	}
	return strings.Join(segments, "/"), nil
}
