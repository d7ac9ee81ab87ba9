package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/domain/repository"
)

const postTagsExpr = `COALESCE((
		SELECT array_agg(t.name ORDER BY t.name)
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = p.id), '{}')`

// $1 is always the viewer id (NULL for anonymous).
const postSummarySelect = `
	SELECT p.id, p.author_id, p.title, p.description, p.text, p.banner_img, p.published,
		` + postTagsExpr + `,
		p.created_at, p.updated_at,
		u.id, u.name, u.avatar_url,
		(SELECT count(*) FROM comments c WHERE c.post_id = p.id),
		(SELECT count(*) FROM likes l WHERE l.post_id = p.id),
		(SELECT count(*) FROM views v WHERE v.post_id = p.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) ListPublished(ctx context.Context, viewerID string) ([]entity.PostSummary, error) {
	rows, err := r.db.Query(ctx, postSummarySelect+`
		WHERE p.published
		ORDER BY p.created_at DESC, p.id DESC`, nullable(viewerID))
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PostSummary, error) {
		var s entity.PostSummary
		err := scanSummary(row, &s)
		return s, err
	})
	return out, mapErr(err)
}

func (r *PostRepository) GetDetail(ctx context.Context, id, viewerID string) (*entity.PostDetail, error) {
	d := &entity.PostDetail{}
	row := r.db.QueryRow(ctx, postSummarySelect+` WHERE p.id = $2`, nullable(viewerID), id)
	if err := scanSummary(row, &d.PostSummary); err != nil {
		return nil, mapErr(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at, c.updated_at,
			u.id, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	d.Comments, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.CommentView, error) {
		var cv entity.CommentView
		err := row.Scan(&cv.ID, &cv.PostID, &cv.UserID, &cv.Text, &cv.CreatedAt, &cv.UpdatedAt,
			&cv.User.ID, &cv.User.Name, &cv.User.AvatarURL)
		return cv, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p := &entity.Post{}
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.author_id, p.title, p.description, p.text, p.banner_img, p.published,
			`+postTagsExpr+`,
			p.created_at, p.updated_at
		FROM posts p
		WHERE p.id = $1`, id).
		Scan(&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.Text, &p.BannerImg, &p.Published,
			&p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// Create inserts the post and links its tags in one transaction.
func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO posts (author_id, title, description, text, banner_img, published)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			p.AuthorID, p.Title, p.Description, p.Text, p.BannerImg, p.Published).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return mapErr(err)
		}
		return linkTags(ctx, tx, p.ID, p.Tags)
	})
}

// Update rewrites the mutable fields and replaces the tag set. AuthorID is never written.
func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE posts
			SET title = $1, description = $2, text = $3, banner_img = $4, published = $5, updated_at = now()
			WHERE id = $6
			RETURNING updated_at`,
			p.Title, p.Description, p.Text, p.BannerImg, p.Published, p.ID).
			Scan(&p.UpdatedAt)
		if err != nil {
			return mapErr(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
			return mapErr(err)
		}
		return linkTags(ctx, tx, p.ID, p.Tags)
	})
}

func linkTags(ctx context.Context, q querier, postID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO tags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`, tags); err != nil {
		return mapErr(err)
	}
	_, err := q.Exec(ctx, `
		INSERT INTO post_tags (post_id, tag_id)
		SELECT $1, t.id FROM tags t WHERE t.name = ANY($2::text[])
		ON CONFLICT DO NOTHING`, postID, tags)
	return mapErr(err)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	if _, err := r.db.Exec(ctx, `
		INSERT INTO likes (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, postID); err != nil {
		return false, mapErr(err)
	}
	return true, nil
}

func (r *PostRepository) AddView(ctx context.Context, postID, ip, userID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO views (post_id, ip, user_id) VALUES ($1, $2, $3)
		ON CONFLICT (post_id, ip) DO NOTHING`, postID, ip, nullable(userID))
	return mapErr(err)
}

func scanSummary(row pgx.Row, s *entity.PostSummary) error {
	return row.Scan(&s.ID, &s.AuthorID, &s.Title, &s.Description, &s.Text, &s.BannerImg, &s.Published,
		&s.Tags, &s.CreatedAt, &s.UpdatedAt,
		&s.Author.ID, &s.Author.Name, &s.Author.AvatarURL,
		&s.Counts.Comments, &s.Counts.Likes, &s.Counts.Views,
		&s.Liked)
}

var _ repository.PostRepository = (*PostRepository)(nil)
