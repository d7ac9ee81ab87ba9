package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/domain/repository"
)

const userColumns = `id, email, password_hash, name, avatar_url, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.AvatarURL)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns, avatarURL, id))
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
