package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/daryha/buzzletBack/pkg/helpers"
)

// PublicPrefix is the URL path the local directory is served under.
const PublicPrefix = "/uploads"

var ErrInvalidObjectPath = errors.New("invalid object path")

// Local writes objects below Dir and serves them from BaseURL + PublicPrefix.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Put(ctx context.Context, objectPath, _ string, r io.Reader) (string, error) {
	clean := path.Clean("/" + objectPath)[1:]
	if clean == "" || clean != strings.TrimLeft(objectPath, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectPath, objectPath)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := filepath.Join(l.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.BaseURL + PublicPrefix + "/" + helpers.EscapeObjectPath(clean), nil
}
