package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"coffeeblog/internal/service"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=50"`
		Description string `json:"description" validate:"max=200"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	category, err := h.CategoryService.Create(r.Context(), service.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	var req struct {
		Name        *string `json:"name" validate:"omitempty,max=50"`
		Description *string `json:"description" validate:"omitempty,max=200"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	category, err := h.CategoryService.Update(r.Context(), categoryID, service.UpdateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	if err := h.CategoryService.Delete(r.Context(), categoryID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "category deleted")
}
