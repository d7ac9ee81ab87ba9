package repository

import (
	"context"

	"github.com/daryha/buzzletBack/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	UpdateText(ctx context.Context, id, text string) (*entity.Comment, error)
	Delete(ctx context.Context, id string) (*entity.Comment, error)
}
