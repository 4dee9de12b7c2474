// Package s3 stores resumes and leave documents in an S3-compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/peoplehub/hr-service/internal/api/metrics"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

const defaultPresignTTL = 15 * time.Minute

type Config struct {
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	PathStyle  bool
	PresignTTL time.Duration
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store implements ports.BlobStore. Object keys double as public ids.
type Store struct {
	objects    objectAPI
	presign    presignAPI
	bucket     string
	presignTTL time.Duration
	now        func() time.Time
}

// New builds a Store from static credentials, or the default AWS credential
// chain when none are configured.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return newStore(client, s3.NewPresignClient(client), cfg.Bucket, cfg.PresignTTL), nil
}

func newStore(objects objectAPI, presign presignAPI, bucket string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}
	return &Store{
		objects:    objects,
		presign:    presign,
		bucket:     bucket,
		presignTTL: ttl,
		now:        time.Now,
	}
}

// Upload streams the spooled file to the bucket under a fresh key.
func (s *Store) Upload(ctx context.Context, file ports.FileUpload) (ref *ports.BlobRef, err error) {
	defer func() { metrics.BlobOperationsTotal.WithLabelValues("upload", metrics.BlobOpResult(err)).Inc() }()

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := s.newKey(file.Filename)
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               f,
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", path.Base(file.Filename))),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}
	return &ports.BlobRef{PublicID: key, URL: fmt.Sprintf("s3://%s/%s", s.bucket, key)}, nil
}

// Release deletes the object. A key that no longer exists counts as released.
func (s *Store) Release(ctx context.Context, publicID string) (err error) {
	defer func() { metrics.BlobOperationsTotal.WithLabelValues("release", metrics.BlobOpResult(err)).Inc() }()

	_, err = s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	var missing *types.NoSuchKey
	if errors.As(err, &missing) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return nil
}

// URL returns a presigned GET link valid for the configured TTL.
func (s *Store) URL(ctx context.Context, publicID string) (url string, err error) {
	defer func() { metrics.BlobOperationsTotal.WithLabelValues("presign", metrics.BlobOpResult(err)).Inc() }()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", publicID, err)
	}
	return req.URL, nil
}

// Ping checks that the bucket exists and is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// newKey lays objects out by upload month: documents/2024/01/<uuid>.pdf
func (s *Store) newKey(filename string) string {
	d := s.now().UTC()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("documents/%04d/%02d/%s%s", d.Year(), d.Month(), uuid.NewString(), ext)
}
