package test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
	"coffeeblog/internal/service"
)

func TestListCategories(t *testing.T) {
	f := newFixture()

	f.category.On("List", mock.Anything).
		Return([]models.Category{{CategoryID: "cat-1", Name: "Brew Guides"}}, nil)

	router := f.publicRoute("/api/categories", f.h.ListCategories, http.MethodGet)
	rec, env := do(t, router, http.MethodGet, "/api/categories", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Brew Guides")
}

func TestCreateCategory(t *testing.T) {
	f := newFixture()
	auth := f.authenticate(&models.User{UserID: "user-1", Role: models.RoleAdmin})

	f.category.On("Create", mock.Anything, service.CreateCategoryRequest{Name: "Origins"}).
		Return(&models.Category{CategoryID: "cat-2", Name: "Origins", Slug: "origins"}, nil)

	body := strings.NewReader(`{"name":"Origins"}`)
	router := f.protectedRoute("/api/categories", f.h.CreateCategory, http.MethodPost)
	rec, env := do(t, router, http.MethodPost, "/api/categories", body, auth)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
}

func TestDeleteCategory(t *testing.T) {
	t.Run("referenced category maps to 409", func(t *testing.T) {
		f := newFixture()
		auth := f.authenticate(&models.User{UserID: "user-1", Role: models.RoleAdmin})

		f.category.On("Delete", mock.Anything, "cat-1").
			Return(apperror.Conflict("category is still referenced by posts"))

		router := f.protectedRoute("/api/categories/{id}", f.h.DeleteCategory, http.MethodDelete)
		rec, env := do(t, router, http.MethodDelete, "/api/categories/cat-1", nil, auth)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "category is still referenced by posts", env.Message)
	})

	t.Run("unreferenced category is deleted", func(t *testing.T) {
		f := newFixture()
		auth := f.authenticate(&models.User{UserID: "user-1", Role: models.RoleAdmin})

		f.category.On("Delete", mock.Anything, "cat-9").Return(nil)

		router := f.protectedRoute("/api/categories/{id}", f.h.DeleteCategory, http.MethodDelete)
		rec, env := do(t, router, http.MethodDelete, "/api/categories/cat-9", nil, auth)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}
