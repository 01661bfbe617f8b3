package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"coffeeblog/internal/models"
	"coffeeblog/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) GetUserFromToken(tokenString string) (*models.User, error) {
	args := m.Called(tokenString)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, req service.CreatePostRequest, actor *models.User) (*models.Post, error) {
	args := m.Called(ctx, req, actor)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, postID string, req service.UpdatePostRequest, actor *models.User) (*models.Post, error) {
	args := m.Called(ctx, postID, req, actor)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, postID string, actor *models.User) error {
	return m.Called(ctx, postID, actor).Error(0)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, req service.ListPostsRequest) ([]*models.Post, models.Pagination, error) {
	args := m.Called(ctx, req)
	posts, _ := args.Get(0).([]*models.Post)
	pagination, _ := args.Get(1).(models.Pagination)
	return posts, pagination, args.Error(2)
}

func (m *MockPostService) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	args := m.Called(ctx, postID, userID)
	likes, _ := args.Get(0).([]string)
	return likes, args.Error(1)
}

func (m *MockPostService) Rate(ctx context.Context, postID, userID string, value int) (*models.Post, error) {
	args := m.Called(ctx, postID, userID, value)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req service.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, categoryID string, req service.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, categoryID, req)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, categoryID string) error {
	return m.Called(ctx, categoryID).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, postID string, req service.CreateCommentRequest, actor *models.User) (*models.Comment, error) {
	args := m.Called(ctx, postID, req, actor)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, postID, commentID string, actor *models.User) error {
	return m.Called(ctx, postID, commentID, actor).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}
