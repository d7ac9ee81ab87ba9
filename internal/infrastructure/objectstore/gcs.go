package objectstore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/daryha/buzzletBack/pkg/helpers"
)

// GCS uploads into a Google Cloud Storage bucket with public-read URLs.
type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(ctx context.Context, credsPath, bucket string) (*GCS, error) {
	client, err := helpers.NewGCSClient(ctx, credsPath)
	if err != nil {
		return nil, err
	}
	return &GCS{Client: client, Bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, g.Client, g.Bucket, objectPath, contentType, r)
}
