package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/daryha/buzzletBack/pkg/helpers"
)

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint such as MinIO; empty for AWS
	AccessKeyID     string // empty uses the default credential chain
	SecretAccessKey string
	PublicBaseURL   string // overrides the URL prefix returned by Put
}

// S3 uploads into an S3 (or S3-compatible) bucket.
type S3 struct {
	Client *s3.Client
	opts   S3Options
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{Client: client, opts: opts}, nil
}

// Put expects r to be seekable (the callers pass a bytes.Reader) so the SDK can sign the payload.
func (s *S3) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	key := strings.TrimLeft(objectPath, "/")
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s3PublicURL(s.opts, key), nil
}

func s3PublicURL(opts S3Options, key string) string {
	escaped := helpers.EscapeObjectPath(key)
	switch {
	case opts.PublicBaseURL != "":
		return strings.TrimRight(opts.PublicBaseURL, "/") + "/" + escaped
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.Bucket, opts.Region, escaped)
}
