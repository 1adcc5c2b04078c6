// Package storage uploads course assets (thumbnails, videos, notes) to
// S3-compatible object storage and hands out presigned PUT URLs for
// direct client uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/higherpolynomia/backend/internal/server/config"
)

// indirection points for tests
var (
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
)

// FileStore is the object-storage surface the services depend on.
type FileStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	DeleteByURL(ctx context.Context, fileURL string) error
	PresignPutURL(ctx context.Context, key string) (string, error)
}

// S3Store implements FileStore against an S3 bucket. A MinIO or other
// S3-compatible endpoint can be used by setting S3BaseEndpoint.
type S3Store struct {
	config *sc.Config
}

func NewS3Store(config *sc.Config) *S3Store {
	return &S3Store{config: config}
}

// MakeStorageKey builds the object key for an uploaded file:
// "<prefix><unix-millis>_<basename>". The original filename is kept so
// downloads carry a meaningful name.
func MakeStorageKey(prefix string, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s%d_%s", prefix, time.Now().UnixMilli(), base)
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// Upload streams body into the bucket under key and returns the public
// URL of the stored object.
func (s *S3Store) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return s.objectURL(key), nil
}

// DeleteByURL removes the object that fileURL points at. URLs that do
// not belong to the configured bucket are ignored.
func (s *S3Store) DeleteByURL(ctx context.Context, fileURL string) error {
	key, ok := s.keyFromURL(fileURL)
	if !ok {
		return nil
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// PresignPutURL returns a presigned PUT URL for key, valid for 15 minutes.
func (s *S3Store) PresignPutURL(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	presignClient := newS3PresignClient(client)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *S3Store) objectURL(key string) string {
	if s.config.S3BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.S3BaseEndpoint, "/"), s.config.S3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.S3Region, key)
}

// keyFromURL extracts the object key from a URL produced by objectURL.
func (s *S3Store) keyFromURL(fileURL string) (string, bool) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", false
	}

	p := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, s.config.S3Bucket+".") {
		// virtual-hosted style
		if p == "" {
			return "", false
		}
		return p, true
	}

	// path style: first segment is the bucket
	bucketPrefix := s.config.S3Bucket + "/"
	if strings.HasPrefix(p, bucketPrefix) {
		key := strings.TrimPrefix(p, bucketPrefix)
		if key == "" {
			return "", false
		}
		return key, true
	}

	return "", false
}
