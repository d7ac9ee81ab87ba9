package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var userCols = []string{"id", "email", "password_hash", "name", "avatar_url", "created_at", "updated_at"}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: pgx.ErrNoRows, want: repository.ErrNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: repository.ErrDuplicate},
		{name: "bad uuid", in: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: repository.ErrNotFound},
		{name: "dangling fk", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("connection refused")
	assert.Same(t, other, mapErr(other))
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("ann@example.com", "hash", "Ann", "").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now))

		u := &entity.User{Email: "ann@example.com", Password: "hash", Name: "Ann"}
		require.NoError(t, NewUserRepository(mock).Create(ctx, u))
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, now, u.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("ann@example.com", "hash", "Ann", "").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

		err := NewUserRepository(mock).Create(ctx, &entity.User{Email: "ann@example.com", Password: "hash", Name: "Ann"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("by email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("ann@example.com").
			WillReturnRows(pgxmock.NewRows(userCols).AddRow("u-1", "ann@example.com", "hash", "Ann", "", now, now))

		u, err := NewUserRepository(mock).GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, "hash", u.Password)
	})

	t.Run("by email missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewUserRepository(mock).GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("by malformed id", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})

		_, err := NewUserRepository(mock).GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("update avatar", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`UPDATE users SET avatar_url`).
			WithArgs("http://cdn/a.png", "u-1").
			WillReturnRows(pgxmock.NewRows(userCols).AddRow("u-1", "ann@example.com", "hash", "Ann", "http://cdn/a.png", now, now))

		u, err := NewUserRepository(mock).UpdateAvatar(ctx, "u-1", "http://cdn/a.png")
		require.NoError(t, err)
		assert.Equal(t, "http://cdn/a.png", u.AvatarURL)
	})
}

func summaryRow(id string, liked bool) []any {
	now := time.Now()
	return []any{id, "u-1", "Title", "Desc", "Body", "", true,
		[]string{"go", "web"}, now, now,
		"u-1", "Ann", "",
		2, 3, 4,
		liked}
}

var summaryCols = []string{"id", "author_id", "title", "description", "text", "banner_img", "published",
	"tags", "created_at", "updated_at", "uid", "name", "avatar_url", "comments", "likes", "views", "liked"}

func TestPostRepository_ListPublished(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM posts p\s+JOIN users u ON u.id = p.author_id\s+WHERE p.published`).
		WithArgs("viewer").
		WillReturnRows(pgxmock.NewRows(summaryCols).
			AddRow(summaryRow("p-2", true)...).
			AddRow(summaryRow("p-1", false)...))

	got, err := NewPostRepository(mock).ListPublished(context.Background(), "viewer")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-2", got[0].ID)
	assert.True(t, got[0].Liked)
	assert.False(t, got[1].Liked)
	assert.Equal(t, entity.PostCounts{Comments: 2, Likes: 3, Views: 4}, got[0].Counts)
	assert.Equal(t, []string{"go", "web"}, got[0].Tags)
	assert.Equal(t, "Ann", got[0].Author.Name)
}

func TestPostRepository_ListPublished_AnonymousViewer(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE p.published`).
		WithArgs(nil).
		WillReturnRows(pgxmock.NewRows(summaryCols))

	got, err := NewPostRepository(mock).ListPublished(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostRepository_GetDetail(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`WHERE p.id = \$2`).
		WithArgs(nil, "p-1").
		WillReturnRows(pgxmock.NewRows(summaryCols).AddRow(summaryRow("p-1", false)...))
	mock.ExpectQuery(`FROM comments c`).
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "user_id", "text", "created_at", "updated_at", "uid", "name", "avatar_url"}).
			AddRow("c-1", "p-1", "u-2", "nice", now, now, "u-2", "Bob", ""))

	d, err := NewPostRepository(mock).GetDetail(context.Background(), "p-1", "")
	require.NoError(t, err)
	assert.Equal(t, "p-1", d.ID)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, "Bob", d.Comments[0].User.Name)
}

func TestPostRepository_GetDetail_Missing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE p.id = \$2`).
		WithArgs(nil, "p-x").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewPostRepository(mock).GetDetail(context.Background(), "p-x", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_Create(t *testing.T) {
	now := time.Now()
	post := func() *entity.Post {
		return &entity.Post{AuthorID: "u-1", Title: "T", Description: "D", Text: "X", Published: true, Tags: []string{"go"}}
	}

	t.Run("commits post and tags", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO posts`).
			WithArgs("u-1", "T", "D", "X", "", true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p-1", now, now))
		mock.ExpectExec(`INSERT INTO tags`).
			WithArgs([]string{"go"}).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO post_tags`).
			WithArgs("p-1", []string{"go"}).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		p := post()
		require.NoError(t, NewPostRepository(mock).Create(context.Background(), p))
		assert.Equal(t, "p-1", p.ID)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO posts`).
			WithArgs("u-1", "T", "D", "X", "", true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p-1", now, now))
		mock.ExpectExec(`INSERT INTO tags`).
			WithArgs([]string{"go"}).
			WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err := NewPostRepository(mock).Create(context.Background(), post())
		assert.EqualError(t, err, "boom")
	})
}

func TestPostRepository_Update_ReplacesTags(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE posts`).
		WithArgs("T2", "D", "X", "", false, "p-1").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec(`DELETE FROM post_tags`).
		WithArgs("p-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	p := &entity.Post{ID: "p-1", AuthorID: "u-1", Title: "T2", Description: "D", Text: "X"}
	require.NoError(t, NewPostRepository(mock).Update(context.Background(), p))
}

func TestPostRepository_Delete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM posts`).WithArgs("p-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM posts`).WithArgs("p-1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), "p-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p-1"), repository.ErrNotFound)
}

func TestPostRepository_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("like", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM likes`).WithArgs("u-1", "p-1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO likes`).WithArgs("u-1", "p-1").WillReturnResult(pgxmock.NewResult("INSERT", 1))

		liked, err := NewPostRepository(mock).ToggleLike(ctx, "u-1", "p-1")
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("unlike", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM likes`).WithArgs("u-1", "p-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))

		liked, err := NewPostRepository(mock).ToggleLike(ctx, "u-1", "p-1")
		require.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("unknown post", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM likes`).WithArgs("u-1", "p-x").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO likes`).WithArgs("u-1", "p-x").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		_, err := NewPostRepository(mock).ToggleLike(ctx, "u-1", "p-x")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPostRepository_AddView(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`(?s)INSERT INTO views.*ON CONFLICT \(post_id, ip\) DO NOTHING`).
		WithArgs("p-1", "10.0.0.1", nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, NewPostRepository(mock).AddView(context.Background(), "p-1", "10.0.0.1", ""))
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cols := []string{"id", "post_id", "user_id", "text", "created_at", "updated_at"}

	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs("p-1", "u-1", "hello").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c-1", now, now))
	mock.ExpectQuery(`UPDATE comments SET text`).
		WithArgs("edited", "c-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("c-1", "p-1", "u-1", "edited", now, now))
	mock.ExpectQuery(`DELETE FROM comments`).
		WithArgs("c-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("c-1", "p-1", "u-1", "edited", now, now))
	mock.ExpectQuery(`SELECT .* FROM comments WHERE id = \$1`).
		WithArgs("c-1").
		WillReturnError(pgx.ErrNoRows)

	repo := NewCommentRepository(mock)
	c := &entity.Comment{PostID: "p-1", UserID: "u-1", Text: "hello"}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, "c-1", c.ID)

	updated, err := repo.UpdateText(ctx, "c-1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	deleted, err := repo.Delete(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", deleted.UserID)

	_, err = repo.GetByID(ctx, "c-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
