package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	repo "github.com/daryha/buzzletBack/internal/domain/repository"
	"github.com/daryha/buzzletBack/pkg/helpers"
)

type PostInput struct {
	Title       string
	Description string
	Text        string
	BannerImg   string
	Published   bool
	Tags        []string
}

// PostPatch is a partial update. Nil fields are left unchanged; a non-nil
// empty Tags clears the tag set.
type PostPatch struct {
	Title       *string
	Description *string
	Text        *string
	BannerImg   *string
	Published   *bool
	Tags        []string
}

type PostService struct {
	Posts  repo.PostRepository
	Logger *logrus.Logger
}

func NewPostService(posts repo.PostRepository, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Logger: orDiscard(logger)}
}

// List returns the published feed, newest first. viewerID may be empty.
func (s *PostService) List(ctx context.Context, viewerID string) ([]entity.PostSummary, error) {
	posts, err := s.Posts.ListPublished(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []entity.PostSummary{}
	}
	return posts, nil
}

// Get returns a published post with its comments. Drafts are reported as missing.
func (s *PostService) Get(ctx context.Context, id, viewerID string) (*entity.PostDetail, error) {
	d, err := s.detail(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if !d.Published {
		return nil, ErrPostNotFound
	}
	return d, nil
}

// GetProtected also returns drafts, but only to their author.
func (s *PostService) GetProtected(ctx context.Context, id, principalID string) (*entity.PostDetail, error) {
	d, err := s.detail(ctx, id, principalID)
	if err != nil {
		return nil, err
	}
	if !d.Published && !CanMutate(principalID, d.AuthorID) {
		return nil, ErrPostForbidden
	}
	return d, nil
}

func (s *PostService) detail(ctx context.Context, id, viewerID string) (*entity.PostDetail, error) {
	d, err := s.Posts.GetDetail(ctx, id, viewerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Comments == nil {
		d.Comments = []entity.CommentView{}
	}
	return d, nil
}

func (s *PostService) Create(ctx context.Context, authorID string, in PostInput) (*entity.Post, error) {
	p := &entity.Post{
		AuthorID:    authorID,
		Title:       in.Title,
		Description: in.Description,
		Text:        in.Text,
		BannerImg:   in.BannerImg,
		Published:   in.Published,
		Tags:        NormalizeTags(in.Tags),
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		helpers.LogError(s.Logger, "create post failed", err, logrus.Fields{"user_id": authorID})
		return nil, err
	}
	return p, nil
}

// Update applies patch when principalID authored the post. A missing post and
// a foreign post are indistinguishable to the caller.
func (s *PostService) Update(ctx context.Context, id, principalID string, patch PostPatch) (*entity.Post, error) {
	p, err := s.owned(ctx, id, principalID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Text != nil {
		p.Text = *patch.Text
	}
	if patch.BannerImg != nil {
		p.BannerImg = *patch.BannerImg
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.Tags != nil {
		p.Tags = NormalizeTags(patch.Tags)
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotOwned
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id, principalID string) error {
	if _, err := s.owned(ctx, id, principalID); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotOwned
		}
		return err
	}
	return nil
}

func (s *PostService) owned(ctx context.Context, id, principalID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotOwned
	}
	if err != nil {
		return nil, err
	}
	if !CanMutate(principalID, p.AuthorID) {
		return nil, ErrPostNotOwned
	}
	return p, nil
}

// ToggleLike flips the caller's like and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	liked, err := s.Posts.ToggleLike(ctx, userID, postID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, ErrPostNotFound
	}
	return liked, err
}

// AddView counts one view per (post, ip). Failures are logged, never returned.
func (s *PostService) AddView(ctx context.Context, postID, ip, viewerID string) {
	if err := s.Posts.AddView(ctx, postID, ip, viewerID); err != nil {
		helpers.LogWarn(s.Logger, "add view failed", err, logrus.Fields{"post_id": postID, "ip": ip})
	}
}

// NormalizeTags trims names, drops empty ones and removes duplicates, keeping
// first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
