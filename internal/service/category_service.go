package service

import (
	"context"
	"strings"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
	"coffeeblog/internal/repository"
	"coffeeblog/internal/slug"
)

type CreateCategoryRequest struct {
	Name        string
	Description string
}

type UpdateCategoryRequest struct {
	Name        *string
	Description *string
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("invalid category payload",
			map[string]string{"name": "name is required"})
	}

	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, apperror.Validation("invalid category payload",
			map[string]string{"name": "name must contain at least one letter or digit"})
	}

	category := &models.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != category.Name {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("invalid category payload",
				map[string]string{"name": "name is required"})
		}
		newSlug := slug.Make(name)
		if newSlug == "" {
			return nil, apperror.Validation("invalid category payload",
				map[string]string{"name": "name must contain at least one letter or digit"})
		}
		category.Name = name
		category.Slug = newSlug
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete is blocked while any post still references the category, so a
// listed category can never silently disappear from published posts.
func (s *categoryService) Delete(ctx context.Context, categoryID string) error {
	count, err := s.categoryRepo.CountPosts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("category is still referenced by posts")
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}
