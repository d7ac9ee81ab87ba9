package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryha/buzzletBack/config"
)

func TestLocal_Put(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:5000/")

	url, err := store.Put(context.Background(), "avatars/u1/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/avatars/u1/a.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "avatars", "u1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store := NewLocal(t.TempDir(), "")
	for _, p := range []string{"../escape.png", "avatars/../../x.png", "", "/"} {
		_, err := store.Put(context.Background(), p, "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidObjectPath, p)
	}
}

func TestS3PublicURL(t *testing.T) {
	assert.Equal(t, "https://bkt.s3.eu-west-1.amazonaws.com/avatars/a.png",
		s3PublicURL(S3Options{Bucket: "bkt", Region: "eu-west-1"}, "avatars/a.png"))
	assert.Equal(t, "http://minio:9000/bkt/avatars/a.png",
		s3PublicURL(S3Options{Bucket: "bkt", Endpoint: "http://minio:9000/"}, "avatars/a.png"))
	assert.Equal(t, "https://cdn.test/avatars/a%20b.png",
		s3PublicURL(S3Options{Bucket: "bkt", PublicBaseURL: "https://cdn.test/"}, "avatars/a b.png"))
}

func TestNew_Local(t *testing.T) {
	cfg := &config.Config{StorageDriver: "local", UploadDir: t.TempDir(), PublicBaseURL: "http://x"}
	store, closeFn, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.IsType(t, &Local{}, store)
	assert.NoError(t, closeFn())

	_, _, err = New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
