package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"coffeeblog/internal/config"
	handlers "coffeeblog/internal/handler"
	"coffeeblog/internal/middleware"
	"coffeeblog/internal/models"
	"coffeeblog/internal/service"
)

type fixture struct {
	auth     *MockAuthService
	user     *MockUserService
	post     *MockPostService
	category *MockCategoryService
	comment  *MockCommentService
	storage  *MockStorage
	h        *handlers.Handlers
}

func newFixture() *fixture {
	f := &fixture{
		auth:     new(MockAuthService),
		user:     new(MockUserService),
		post:     new(MockPostService),
		category: new(MockCategoryService),
		comment:  new(MockCommentService),
		storage:  new(MockStorage),
	}

	services := &service.Service{
		Auth:     f.auth,
		User:     f.user,
		Post:     f.post,
		Category: f.category,
		Comment:  f.comment,
	}

	f.h = handlers.NewHandlers(services, f.storage, nil, &config.Config{MaxUploadSize: 10 << 20})
	return f
}

// authenticate registers a token for the given user and returns the
// Authorization header value to send with the request.
func (f *fixture) authenticate(user *models.User) string {
	f.auth.On("GetUserFromToken", "test-token").Return(user, nil)
	return "Bearer test-token"
}

// envelope mirrors the JSON shape every endpoint answers with.
type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Message    string             `json:"message"`
	Errors     map[string]string  `json:"errors"`
}

func do(t *testing.T, router *mux.Router, method, target string, body io.Reader, authHeader string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func (f *fixture) publicRoute(path string, handlerFunc http.HandlerFunc, method string) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc(path, handlerFunc).Methods(method)
	return router
}

func (f *fixture) protectedRoute(path string, handlerFunc http.HandlerFunc, method string) *mux.Router {
	router := mux.NewRouter()
	router.Handle(path, middleware.Chain(handlerFunc, middleware.Auth(f.auth))).Methods(method)
	return router
}

func (f *fixture) optionalAuthRoute(path string, handlerFunc http.HandlerFunc, method string) *mux.Router {
	router := mux.NewRouter()
	router.Handle(path, middleware.Chain(handlerFunc, middleware.OptionalAuth(f.auth))).Methods(method)
	return router
}
