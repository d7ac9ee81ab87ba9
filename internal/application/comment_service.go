package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	repo "github.com/daryha/buzzletBack/internal/domain/repository"
	"github.com/daryha/buzzletBack/pkg/helpers"
)

type CommentService struct {
	Comments repo.CommentRepository
	Posts    repo.PostRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, posts repo.PostRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Posts: posts, Logger: orDiscard(logger)}
}

func (s *CommentService) Create(ctx context.Context, postID, userID, text string) (*entity.Comment, error) {
	if _, err := s.Posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	c := &entity.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.Comments.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		helpers.LogError(s.Logger, "create comment failed", err, logrus.Fields{"post_id": postID, "user_id": userID})
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, id, principalID, text string) (*entity.Comment, error) {
	if err := s.owned(ctx, id, principalID); err != nil {
		return nil, err
	}
	c, err := s.Comments.UpdateText(ctx, id, text)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCommentNotOwned
	}
	return c, err
}

func (s *CommentService) Delete(ctx context.Context, id, principalID string) (*entity.Comment, error) {
	if err := s.owned(ctx, id, principalID); err != nil {
		return nil, err
	}
	c, err := s.Comments.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCommentNotOwned
	}
	return c, err
}

func (s *CommentService) owned(ctx context.Context, id, principalID string) error {
	c, err := s.Comments.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCommentNotOwned
	}
	if err != nil {
		return err
	}
	if !CanMutate(principalID, c.UserID) {
		return ErrCommentNotOwned
	}
	return nil
}
