package repository

import (
	"context"

	"github.com/daryha/buzzletBack/internal/domain/entity"
)

// PostRepository stores posts with their tags, likes and views.
// viewerID may be empty; Liked is then false.
type PostRepository interface {
	ListPublished(ctx context.Context, viewerID string) ([]entity.PostSummary, error)
	// GetDetail returns the post whether or not it is published.
	GetDetail(ctx context.Context, id, viewerID string) (*entity.PostDetail, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Create(ctx context.Context, p *entity.Post) error
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	// ToggleLike reports whether the post is liked after the call.
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
	// AddView is idempotent per (postID, ip).
	AddView(ctx context.Context, postID, ip, userID string) error
}
