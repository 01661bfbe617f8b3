package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"coffeeblog/cmd/app"
	"coffeeblog/internal/config"
	handlers "coffeeblog/internal/handler"
	"coffeeblog/internal/middleware"
	"coffeeblog/internal/models"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	db, store, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, store, db, cfg)

	auth := middleware.Auth(services.Auth)
	optionalAuth := middleware.OptionalAuth(services.Auth)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleBarista)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router := mux.NewRouter()
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", handler.RefreshToken).Methods(http.MethodPost)
	api.Handle("/me", protect(handler.GetCurrentUser, auth)).Methods(http.MethodGet)

	api.Handle("/posts", protect(handler.ListPosts, optionalAuth)).Methods(http.MethodGet)
	api.Handle("/posts", protect(handler.CreatePost, auth, staffOnly)).Methods(http.MethodPost)
	api.HandleFunc("/posts/slug/{slug}", handler.GetPostBySlug).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", handler.GetPost).Methods(http.MethodGet)
	api.Handle("/posts/{id}", protect(handler.UpdatePost, auth)).Methods(http.MethodPut)
	api.Handle("/posts/{id}", protect(handler.DeletePost, auth)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/toggle-like", protect(handler.ToggleLike, auth)).Methods(http.MethodPost)
	api.Handle("/posts/{id}/rating", protect(handler.RatePost, auth)).Methods(http.MethodPost)

	api.HandleFunc("/posts/{postId}/comments", handler.ListComments).Methods(http.MethodGet)
	api.Handle("/posts/{postId}/comments", protect(handler.CreateComment, auth)).Methods(http.MethodPost)
	api.Handle("/posts/{postId}/comments/{commentId}", protect(handler.DeleteComment, auth)).Methods(http.MethodDelete)

	api.HandleFunc("/categories", handler.ListCategories).Methods(http.MethodGet)
	api.Handle("/categories", protect(handler.CreateCategory, auth, adminOnly)).Methods(http.MethodPost)
	api.Handle("/categories/{id}", protect(handler.UpdateCategory, auth, adminOnly)).Methods(http.MethodPut)
	api.Handle("/categories/{id}", protect(handler.DeleteCategory, auth, adminOnly)).Methods(http.MethodDelete)

	handlerChain := middleware.Chain(
		router,
		middleware.Logging,
		middleware.CORS,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("server listening on %s", addr)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func protect(h http.HandlerFunc, middlewares ...middleware.Middleware) http.Handler {
	return middleware.Chain(h, middlewares...)
}
