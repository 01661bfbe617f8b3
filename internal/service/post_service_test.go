package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
	"coffeeblog/internal/repository"
)

func newPostServiceMock() (PostService, *mockPostRepo, *mockCategoryRepo) {
	postRepo := new(mockPostRepo)
	categoryRepo := new(mockCategoryRepo)
	return NewPostService(postRepo, categoryRepo, nil), postRepo, categoryRepo
}

func staffActor() *models.User {
	return &models.User{UserID: "user-1", Role: models.RoleBarista}
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing title and content with field errors", func(t *testing.T) {
		svc, _, _ := newPostServiceMock()

		_, err := svc.Create(ctx, CreatePostRequest{Title: "  ", Content: ""}, staffActor())

		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		fields := apperror.FieldsOf(err)
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "content")
	})

	t.Run("rejects a title that slugifies to nothing", func(t *testing.T) {
		svc, _, _ := newPostServiceMock()

		_, err := svc.Create(ctx, CreatePostRequest{Title: "!!!", Content: "body"}, staffActor())

		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("rejects unknown category references before writing", func(t *testing.T) {
		svc, postRepo, categoryRepo := newPostServiceMock()

		categoryRepo.On("GetManyByIDs", mock.Anything, []string{"cat-1", "ghost"}).
			Return([]models.Category{{CategoryID: "cat-1"}}, nil)

		_, err := svc.Create(ctx, CreatePostRequest{
			Title:      "Cold Brew Basics",
			Content:    "body",
			Categories: []string{"cat-1", "ghost"},
		}, staffActor())

		assert.True(t, apperror.IsKind(err, apperror.KindInvalidCategory))
		postRepo.AssertNotCalled(t, "Create")
	})

	t.Run("derives the slug, defaults to draft and normalizes tags", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
			return post.Slug == "ethiopian-yirgacheffe-pour-over" &&
				post.Status == models.StatusDraft &&
				post.AuthorID == "user-1" &&
				assert.ObjectsAreEqual(pq.StringArray{"fruity", "light roast"}, post.Tags)
		}), []string(nil)).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).PostID = "post-1"
			}).
			Return(nil).Once()
		postRepo.On("GetByID", mock.Anything, "post-1").
			Return(&models.Post{PostID: "post-1"}, nil)

		post, err := svc.Create(ctx, CreatePostRequest{
			Title:   "Ethiopian Yirgacheffe Pour-Over!",
			Content: "body",
			Tags:    []string{" fruity ", "light roast", "fruity", ""},
		}, staffActor())

		require.NoError(t, err)
		assert.Equal(t, "post-1", post.PostID)
		postRepo.AssertExpectations(t)
	})

	t.Run("retries a slug collision once with a random suffix", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("Create", mock.Anything, mock.Anything, []string(nil)).
			Return(apperror.DuplicateSlug("cold-brew")).Once()
		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
			return strings.HasPrefix(post.Slug, "cold-brew-") &&
				len(post.Slug) == len("cold-brew-")+8
		}), []string(nil)).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).PostID = "post-2"
			}).
			Return(nil).Once()
		postRepo.On("GetByID", mock.Anything, "post-2").
			Return(&models.Post{PostID: "post-2"}, nil)

		_, err := svc.Create(ctx, CreatePostRequest{Title: "Cold Brew", Content: "body"}, staffActor())

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("a second collision surfaces the duplicate", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("Create", mock.Anything, mock.Anything, []string(nil)).
			Return(apperror.DuplicateSlug("cold-brew")).Twice()

		_, err := svc.Create(ctx, CreatePostRequest{Title: "Cold Brew", Content: "body"}, staffActor())

		assert.True(t, apperror.IsKind(err, apperror.KindDuplicateSlug))
		postRepo.AssertExpectations(t)
	})
}

func TestPostService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func() *models.Post {
		return &models.Post{
			PostID:   "post-1",
			Title:    "Flat White",
			Slug:     "flat-white",
			Content:  "old body",
			Status:   models.StatusPublished,
			AuthorID: "user-1",
		}
	}

	t.Run("only the author or an admin may update", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(existing(), nil)

		stranger := &models.User{UserID: "user-2", Role: models.RoleCustomer}
		_, err := svc.Update(ctx, "post-1", UpdatePostRequest{}, stranger)

		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		postRepo.AssertNotCalled(t, "Update")
	})

	t.Run("an admin who is not the author may update", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(existing(), nil)
		postRepo.On("Update", mock.Anything, mock.Anything, []string{}).Return(nil)

		admin := &models.User{UserID: "user-9", Role: models.RoleAdmin}
		_, err := svc.Update(ctx, "post-1", UpdatePostRequest{}, admin)

		assert.NoError(t, err)
	})

	t.Run("content change keeps the slug", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(existing(), nil)
		postRepo.On("Update", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
			return post.Slug == "flat-white" && post.Content == "new body"
		}), []string{}).Return(nil).Once()

		content := "new body"
		_, err := svc.Update(ctx, "post-1", UpdatePostRequest{Content: &content}, staffActor())

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("title change re-derives the slug", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(existing(), nil)
		postRepo.On("Update", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
			return post.Slug == "oat-milk-flat-white" && post.Title == "Oat Milk Flat White"
		}), []string{}).Return(nil).Once()

		title := "Oat Milk Flat White"
		_, err := svc.Update(ctx, "post-1", UpdatePostRequest{Title: &title}, staffActor())

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(existing(), nil)

		status := "archived"
		_, err := svc.Update(ctx, "post-1", UpdatePostRequest{Status: &status}, staffActor())

		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author delete cascades", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").
			Return(&models.Post{PostID: "post-1", Slug: "flat-white", AuthorID: "user-1"}, nil)
		postRepo.On("DeleteCascade", mock.Anything, "post-1").Return(nil).Once()

		err := svc.Delete(ctx, "post-1", staffActor())

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("non-author non-admin is refused", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("GetByID", mock.Anything, "post-1").
			Return(&models.Post{PostID: "post-1", AuthorID: "user-1"}, nil)

		stranger := &models.User{UserID: "user-2", Role: models.RoleCustomer}
		err := svc.Delete(ctx, "post-1", stranger)

		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		postRepo.AssertNotCalled(t, "DeleteCascade")
	})
}

func TestPostService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous callers only see published posts", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostListFilter) bool {
			return f.Status == models.StatusPublished
		})).Return([]*models.Post{}, 0, nil).Once()

		_, _, err := svc.List(ctx, ListPostsRequest{Status: "draft", Privileged: false})

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("privileged callers may ask for every status", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostListFilter) bool {
			return f.Status == ""
		})).Return([]*models.Post{}, 0, nil).Once()

		_, _, err := svc.List(ctx, ListPostsRequest{Status: "all", Privileged: true})

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("privileged callers still default to published", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostListFilter) bool {
			return f.Status == models.StatusPublished
		})).Return([]*models.Post{}, 0, nil).Once()

		_, _, err := svc.List(ctx, ListPostsRequest{Privileged: true})

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("category resolves by slug first", func(t *testing.T) {
		svc, postRepo, categoryRepo := newPostServiceMock()

		categoryRepo.On("GetBySlug", mock.Anything, "brew-guides").
			Return(&models.Category{CategoryID: "cat-1"}, nil)
		postRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostListFilter) bool {
			return f.CategoryID == "cat-1" && !f.CategoryUnresolved
		})).Return([]*models.Post{}, 0, nil).Once()

		_, _, err := svc.List(ctx, ListPostsRequest{Category: "brew-guides"})

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("unresolvable category matches nothing instead of everything", func(t *testing.T) {
		svc, postRepo, categoryRepo := newPostServiceMock()

		categoryRepo.On("GetBySlug", mock.Anything, "ghost").
			Return(nil, apperror.NotFound("category not found"))
		categoryRepo.On("GetByID", mock.Anything, "ghost").
			Return(nil, apperror.NotFound("category not found"))
		postRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostListFilter) bool {
			return f.CategoryUnresolved && f.CategoryID == ""
		})).Return([]*models.Post{}, 0, nil).Once()

		_, _, err := svc.List(ctx, ListPostsRequest{Category: "ghost"})

		assert.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("pagination envelope follows the filter", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("List", mock.Anything, mock.Anything).
			Return([]*models.Post{}, 25, nil).Once()

		_, pagination, err := svc.List(ctx, ListPostsRequest{Page: 2, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, models.Pagination{Total: 25, Page: 2, Pages: 3, Limit: 10}, pagination)
	})
}

func TestPostService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects out-of-range values without touching the repo", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		for _, value := range []int{0, -1, 6} {
			_, err := svc.Rate(ctx, "post-1", "user-1", value)
			assert.True(t, apperror.IsKind(err, apperror.KindInvalidRating), "value %d", value)
		}
		postRepo.AssertNotCalled(t, "UpsertRating")
	})

	t.Run("stores the rating and returns the refreshed post", func(t *testing.T) {
		svc, postRepo, _ := newPostServiceMock()

		postRepo.On("UpsertRating", mock.Anything, "post-1", "user-1", 4).Return(nil).Once()
		avg := 4.0
		postRepo.On("GetByID", mock.Anything, "post-1").
			Return(&models.Post{PostID: "post-1", Slug: "flat-white", AverageRating: &avg}, nil)

		post, err := svc.Rate(ctx, "post-1", "user-1", 4)

		require.NoError(t, err)
		assert.Equal(t, 4.0, *post.AverageRating)
		postRepo.AssertExpectations(t)
	})
}
