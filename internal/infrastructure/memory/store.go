// Package memory is a process-local implementation of the repositories,
// used with DB_DRIVER=memory and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/domain/repository"
)

type likeKey struct{ userID, postID string }
type viewKey struct{ postID, ip string }

type postRow struct {
	entity.Post
	seq int64
}

type commentRow struct {
	entity.Comment
	seq int64
}

// Store holds every table behind one lock.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]entity.User
	emails   map[string]string
	posts    map[string]*postRow
	comments map[string]*commentRow
	likes    map[likeKey]struct{}
	views    map[viewKey]string
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		emails:   make(map[string]string),
		posts:    make(map[string]*postRow),
		comments: make(map[string]*commentRow),
		likes:    make(map[likeKey]struct{}),
		views:    make(map[viewKey]string),
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func now() time.Time { return time.Now().UTC() }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.emails[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	r.s.emails[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.emails[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateAvatar(_ context.Context, id, avatarURL string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.AvatarURL = avatarURL
	u.UpdatedAt = now()
	r.s.users[id] = u
	return &u, nil
}

type PostRepository struct{ s *Store }

func (r *PostRepository) ListPublished(_ context.Context, viewerID string) ([]entity.PostSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]*postRow, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		if p.Published {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]entity.PostSummary, 0, len(rows))
	for _, p := range rows {
		out = append(out, r.s.summary(p, viewerID))
	}
	return out, nil
}

func (r *PostRepository) GetDetail(_ context.Context, id, viewerID string) (*entity.PostDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rows := make([]*commentRow, 0)
	for _, c := range r.s.comments {
		if c.PostID == id {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	d := &entity.PostDetail{PostSummary: r.s.summary(p, viewerID), Comments: make([]entity.CommentView, 0, len(rows))}
	for _, c := range rows {
		d.Comments = append(d.Comments, entity.CommentView{Comment: c.Comment, User: r.s.author(c.UserID)})
	}
	return d, nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p.Post
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp, nil
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	row := &postRow{Post: *p, seq: r.s.next()}
	row.Tags = append([]string(nil), p.Tags...)
	r.s.posts[p.ID] = row
	return nil
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Title = p.Title
	row.Description = p.Description
	row.Text = p.Text
	row.BannerImg = p.BannerImg
	row.Published = p.Published
	row.Tags = append([]string(nil), p.Tags...)
	row.UpdatedAt = now()
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	for k := range r.s.likes {
		if k.postID == id {
			delete(r.s.likes, k)
		}
	}
	for k := range r.s.views {
		if k.postID == id {
			delete(r.s.views, k)
		}
	}
	return nil
}

func (r *PostRepository) ToggleLike(_ context.Context, userID, postID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return false, repository.ErrNotFound
	}
	k := likeKey{userID: userID, postID: postID}
	if _, ok := r.s.likes[k]; ok {
		delete(r.s.likes, k)
		return false, nil
	}
	r.s.likes[k] = struct{}{}
	return true, nil
}

func (r *PostRepository) AddView(_ context.Context, postID, ip, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return repository.ErrNotFound
	}
	k := viewKey{postID: postID, ip: ip}
	if _, ok := r.s.views[k]; !ok {
		r.s.views[k] = userID
	}
	return nil
}

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[c.PostID]; !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	r.s.comments[c.ID] = &commentRow{Comment: *c, seq: r.s.next()}
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := c.Comment
	return &cp, nil
}

func (r *CommentRepository) UpdateText(_ context.Context, id, text string) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Text = text
	c.UpdatedAt = now()
	cp := c.Comment
	return &cp, nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.comments, id)
	cp := c.Comment
	return &cp, nil
}

// summary and author expect the caller to hold s.mu.
func (s *Store) summary(p *postRow, viewerID string) entity.PostSummary {
	out := entity.PostSummary{Post: p.Post, Author: s.author(p.AuthorID)}
	out.Tags = append([]string{}, p.Tags...)
	for _, c := range s.comments {
		if c.PostID == p.ID {
			out.Counts.Comments++
		}
	}
	for k := range s.likes {
		if k.postID == p.ID {
			out.Counts.Likes++
			if viewerID != "" && k.userID == viewerID {
				out.Liked = true
			}
		}
	}
	for k := range s.views {
		if k.postID == p.ID {
			out.Counts.Views++
		}
	}
	return out
}

func (s *Store) author(userID string) entity.Author {
	u := s.users[userID]
	return entity.Author{ID: userID, Name: u.Name, AvatarURL: u.AvatarURL}
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.PostRepository    = (*PostRepository)(nil)
	_ repository.CommentRepository = (*CommentRepository)(nil)
)
