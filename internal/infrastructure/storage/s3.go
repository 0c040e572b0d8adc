package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Config selects the bucket that wound images are written to.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every object key.
	Prefix string
	// PublicBaseURL is the origin images are served from, e.g. a CDN.
	PublicBaseURL string
	// Endpoint overrides the AWS endpoint (localstack, minio).
	Endpoint string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores wound images in an S3 bucket.
type S3Uploader struct {
	client putObjectAPI
	cfg    S3Config
	newKey func(filename string) string
}

// NewS3Uploader builds an uploader from the default AWS credential chain.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := s3.Options{
		Region:      awsCfg.Region,
		Credentials: awsCfg.Credentials,
		HTTPClient:  awsCfg.HTTPClient,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return newS3Uploader(s3.New(opts), cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg S3Config) *S3Uploader {
	u := &S3Uploader{client: client, cfg: cfg}
	u.newKey = u.objectKey
	return u
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	key := u.newKey(filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL(key), nil
}

func (u *S3Uploader) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(u.cfg.Prefix, uuid.NewString()+ext)
}

func (u *S3Uploader) publicURL(key string) string {
	base := strings.TrimRight(u.cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", u.cfg.Bucket)
	}
	return base + "/" + key
}
