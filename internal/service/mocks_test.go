package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"coffeeblog/internal/models"
	"coffeeblog/internal/repository"
)

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post, categoryIDs []string) error {
	return m.Called(ctx, post, categoryIDs).Error(0)
}

func (m *mockPostRepo) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockPostRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockPostRepo) IncrementViewCount(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *mockPostRepo) List(ctx context.Context, filter repository.PostListFilter) ([]*models.Post, int, error) {
	args := m.Called(ctx, filter)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Int(1), args.Error(2)
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post, categoryIDs []string) error {
	return m.Called(ctx, post, categoryIDs).Error(0)
}

func (m *mockPostRepo) DeleteCascade(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *mockPostRepo) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	args := m.Called(ctx, postID, userID)
	likes, _ := args.Get(0).([]string)
	return likes, args.Error(1)
}

func (m *mockPostRepo) UpsertRating(ctx context.Context, postID, userID string, value int) error {
	return m.Called(ctx, postID, userID, value).Error(0)
}

func (m *mockPostRepo) Likes(ctx context.Context, postID string) ([]string, error) {
	args := m.Called(ctx, postID)
	likes, _ := args.Get(0).([]string)
	return likes, args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	args := m.Called(ctx, categoryID)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) GetManyByIDs(ctx context.Context, categoryIDs []string) ([]models.Category, error) {
	args := m.Called(ctx, categoryIDs)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, categoryID string) error {
	return m.Called(ctx, categoryID).Error(0)
}

func (m *mockCategoryRepo) CountPosts(ctx context.Context, categoryID string) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *mockCommentRepo) CreateWithRating(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, commentID string) error {
	return m.Called(ctx, commentID).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, password string) error {
	return m.Called(ctx, user, password).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	return m.Called(ctx, userID, refreshToken, expiryTime).Error(0)
}

func (m *mockUserRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	args := m.Called(ctx, refreshToken)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
