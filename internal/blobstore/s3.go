package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds settings for an S3-compatible backend (MinIO works).
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Store implements Store over an S3-compatible object store. Object keys
// are the share object paths without the leading slash.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3 client with static credentials and an optional
// custom base endpoint.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.BaseEndpoint == "" {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrUnavailable, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}

// Put uploads data under the object key derived from path.
func (s *S3Store) Put(ctx context.Context, path string, data []byte, progress ProgressFunc) error {
	body := newProgressReader(bytes.NewReader(data), int64(len(data)), progress)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey(path)),
		Body:          body,
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrNetwork, path, err)
	}
	return nil
}

// Get downloads the object at path.
func (s *S3Store) Get(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(path)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrNetwork, path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(newProgressReader(out.Body, aws.ToInt64(out.ContentLength), progress))
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrNetwork, path, err)
	}
	return data, nil
}

// Delete removes the object at path. S3 delete of an absent key already
// succeeds, which matches the Store contract.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(path)),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrNetwork, path, err)
	}
	return nil
}

var _ Store = (*S3Store)(nil)
