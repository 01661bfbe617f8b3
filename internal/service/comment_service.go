package service

import (
	"context"
	"strings"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/cache"
	"coffeeblog/internal/models"
	"coffeeblog/internal/repository"
)

type CreateCommentRequest struct {
	Content string
	Rating  *int
}

type CommentService interface {
	ListForPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Create(ctx context.Context, postID string, req CreateCommentRequest, actor *models.User) (*models.Comment, error)
	Delete(ctx context.Context, postID, commentID string, actor *models.User) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	postCache   *cache.PostCache
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, postCache *cache.PostCache) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		postCache:   postCache,
	}
}

func (s *commentService) ListForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *commentService) Create(ctx context.Context, postID string, req CreateCommentRequest, actor *models.User) (*models.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Validation("invalid comment payload",
			map[string]string{"content": "content is required"})
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, apperror.InvalidRating(*req.Rating)
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: actor.UserID,
		Content:  strings.TrimSpace(req.Content),
		Rating:   req.Rating,
	}

	if err := s.commentRepo.CreateWithRating(ctx, comment); err != nil {
		return nil, err
	}

	if comment.Rating != nil {
		// The rating changed the post's average; drop the cached copy.
		s.postCache.InvalidatePost(ctx, post.Slug)
	}

	return s.commentRepo.GetByID(ctx, comment.CommentID)
}

func (s *commentService) Delete(ctx context.Context, postID, commentID string, actor *models.User) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return apperror.NotFound("comment not found")
	}

	if actor == nil {
		return apperror.Forbidden("authentication required")
	}
	if actor.UserID != comment.AuthorID && actor.Role != models.RoleAdmin {
		return apperror.Forbidden("only the comment author or an admin may delete this comment")
	}

	return s.commentRepo.Delete(ctx, commentID)
}
