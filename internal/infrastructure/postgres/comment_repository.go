package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/domain/repository"
)

const commentColumns = `id, post_id, user_id, text, created_at, updated_at`

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`, c.PostID, c.UserID, c.Text).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapErr(err)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) UpdateText(ctx context.Context, id, text string) (*entity.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `
		UPDATE comments SET text = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+commentColumns, text, id))
}

func (r *CommentRepository) Delete(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `DELETE FROM comments WHERE id = $1 RETURNING `+commentColumns, id))
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
