package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"coffeeblog/internal/config"
	"coffeeblog/internal/database"
	"coffeeblog/internal/service"
	"coffeeblog/internal/storage"
)

type Handlers struct {
	AuthService     service.AuthService
	UserService     service.UserService
	PostService     service.PostService
	CategoryService service.CategoryService
	CommentService  service.CommentService
	Storage         storage.Storage
	DB              *database.DB
	Cfg             *config.Config
	Validate        *validator.Validate
}

func NewHandlers(services *service.Service, store storage.Storage, db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		AuthService:     services.Auth,
		UserService:     services.User,
		PostService:     services.Post,
		CategoryService: services.Category,
		CommentService:  services.Comment,
		Storage:         store,
		DB:              db,
		Cfg:             cfg,
		Validate:        validator.New(),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(); err != nil {
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
}
