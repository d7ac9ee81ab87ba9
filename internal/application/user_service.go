package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	repo "github.com/daryha/buzzletBack/internal/domain/repository"
	"github.com/daryha/buzzletBack/pkg/helpers"
)

const (
	MaxImageSize      = 2 << 20
	principalCacheTTL = 5 * time.Minute
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

type UserService struct {
	Repo   repo.UserRepository
	Hasher *helpers.PasswordHasher
	Store  ObjectStore
	Redis  *redis.Client
	Logger *logrus.Logger
}

// NewUserService wires the user service. rdb may be nil, which disables the principal cache.
func NewUserService(r repo.UserRepository, hasher *helpers.PasswordHasher, store ObjectStore, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Hasher: hasher, Store: store, Redis: rdb, Logger: orDiscard(logger)}
}

func principalKey(userID string) string {
	return "user:principal:" + userID
}

// Create registers a new account. The email must not be taken; a concurrent
// insert that loses the race on the unique index reports the same conflict.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	_, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: in.Email, Password: hash, Name: in.Name}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetPrincipal resolves the public identity of id, read-through cached in Redis.
// Cache failures only cost a database round trip.
func (s *UserService) GetPrincipal(ctx context.Context, id string) (entity.Principal, error) {
	var p entity.Principal
	if s.Redis != nil {
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, principalKey(id), &p)
		if err != nil {
			helpers.LogWarn(s.Logger, "principal cache read failed", err, logrus.Fields{"user_id": id})
		} else if ok {
			return p, nil
		}
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return entity.Principal{}, err
	}
	p = u.Principal()
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, principalKey(id), p, principalCacheTTL); err != nil {
			helpers.LogWarn(s.Logger, "principal cache write failed", err, logrus.Fields{"user_id": id})
		}
	}
	return p, nil
}

// UploadAvatar stores the image and points the user's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, up Upload) (*entity.User, error) {
	url, err := s.storeImage(ctx, "avatars", userID, up)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.UpdateAvatar(ctx, userID, url)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, principalKey(userID)); err != nil {
			helpers.LogWarn(s.Logger, "principal cache invalidation failed", err, logrus.Fields{"user_id": userID})
		}
	}
	return u, nil
}

// UploadBanner stores a post banner image and returns its URL.
func (s *UserService) UploadBanner(ctx context.Context, userID string, up Upload) (string, error) {
	return s.storeImage(ctx, "banners", userID, up)
}

func (s *UserService) storeImage(ctx context.Context, prefix, userID string, up Upload) (string, error) {
	if up.Body == nil {
		return "", ErrEmptyUpload
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if up.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	// The declared size is client-controlled; read at most one byte past the limit.
	buf, err := io.ReadAll(io.LimitReader(up.Body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	if len(buf) == 0 {
		return "", ErrEmptyUpload
	}

	objectPath := fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.NewString(), ext)
	url, err := s.Store.Put(ctx, objectPath, contentType, bytes.NewReader(buf))
	if err != nil {
		helpers.LogError(s.Logger, "object upload failed", err, logrus.Fields{"user_id": userID, "object": objectPath})
		return "", fmt.Errorf("store %s: %w", prefix, err)
	}
	return url, nil
}

func orDiscard(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	d := logrus.New()
	d.SetOutput(io.Discard)
	return d
}
