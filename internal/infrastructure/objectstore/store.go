// Package objectstore uploads user files (avatars, banners) to the configured backend.
package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/daryha/buzzletBack/config"
)

// Store writes an object and returns the URL clients fetch it from.
type Store interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// New builds the Store selected by STORAGE_DRIVER. The returned close func
// releases client resources and is never nil.
func New(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL), noop, nil
	case "gcs":
		g, err := NewGCS(ctx, cfg.GCSCredentialsJSONPath, cfg.GCSBucket)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Client.Close, nil
	case "s3":
		s, err := NewS3(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
