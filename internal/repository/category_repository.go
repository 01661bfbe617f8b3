package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
		INSERT INTO categories (category_id, name, slug, description, created_at, updated_at)
		VALUES (:category_id, :name, :slug, :description, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return apperror.Conflict("category already exists")
		}
		if isUniqueViolation(err, "categories_slug_key") {
			return apperror.DuplicateSlug(category.Slug)
		}
		return apperror.Unexpected("could not create category", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category,
		`SELECT * FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Unexpected("could not fetch category", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category,
		`SELECT * FROM categories WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Unexpected("could not fetch category", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetManyByIDs(ctx context.Context, categoryIDs []string) ([]models.Category, error) {
	if len(categoryIDs) == 0 {
		return []models.Category{}, nil
	}

	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories,
		`SELECT * FROM categories WHERE category_id = ANY($1)`, pq.Array(categoryIDs))
	if err != nil {
		return nil, apperror.Unexpected("could not fetch categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`)
	if err != nil {
		return nil, apperror.Unexpected("could not list categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()

	query := `
		UPDATE categories SET
			name = :name,
			slug = :slug,
			description = :description,
			updated_at = :updated_at
		WHERE category_id = :category_id
	`

	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return apperror.Conflict("category already exists")
		}
		if isUniqueViolation(err, "categories_slug_key") {
			return apperror.DuplicateSlug(category.Slug)
		}
		return apperror.Unexpected("could not update category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check updated rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category not found")
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.Conflict("category is still referenced by posts")
		}
		return apperror.Unexpected("could not delete category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check deleted rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category not found")
	}

	return nil
}

func (r *categoryRepository) CountPosts(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM post_categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, apperror.Unexpected("could not count category posts", err)
	}
	return count, nil
}
