package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"coffeeblog/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User, password string) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, categoryIDs []string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	IncrementViewCount(ctx context.Context, postID string) error
	List(ctx context.Context, filter PostListFilter) ([]*models.Post, int, error)
	Update(ctx context.Context, post *models.Post, categoryIDs []string) error
	DeleteCascade(ctx context.Context, postID string) error
	ToggleLike(ctx context.Context, postID, userID string) ([]string, error)
	UpsertRating(ctx context.Context, postID, userID string, value int) error
	Likes(ctx context.Context, postID string) ([]string, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetManyByIDs(ctx context.Context, categoryIDs []string) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID string) error
	CountPosts(ctx context.Context, categoryID string) (int, error)
}

type CommentRepository interface {
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	// CreateWithRating inserts the comment and, when it carries a rating,
	// folds that rating into the post's rating set in the same transaction.
	CreateWithRating(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID string) error
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Category CategoryRepository
	Comment  CommentRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Category: NewCategoryRepository(db),
		Comment:  NewCommentRepository(db),
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return constraint == "" || pqErr.Constraint == constraint
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
