package service

import (
	"coffeeblog/internal/cache"
	"coffeeblog/internal/config"
	"coffeeblog/internal/repository"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Post     PostService
	Category CategoryService
	Comment  CommentService
}

func NewService(repo *repository.Repository, cfg *config.Config, postCache *cache.PostCache) *Service {
	return &Service{
		Auth:     NewAuthService(repo.User, cfg),
		User:     NewUserService(repo.User),
		Post:     NewPostService(repo.Post, repo.Category, postCache),
		Category: NewCategoryService(repo.Category),
		Comment:  NewCommentService(repo.Comment, repo.Post, postCache),
	}
}
