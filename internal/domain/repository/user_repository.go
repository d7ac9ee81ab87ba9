package repository

import (
	"context"

	"github.com/daryha/buzzletBack/internal/domain/entity"
)

// UserRepository is the credential store. Lookups return ErrNotFound when
// nothing matches; Create returns ErrDuplicate on an existing email.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*entity.User, error)
}
