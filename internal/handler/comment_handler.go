package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"coffeeblog/internal/middleware"
	"coffeeblog/internal/service"
)

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	comments, err := h.CommentService.ListForPost(r.Context(), postID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, comments)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	actor := middleware.ActingUser(r.Context())

	var req struct {
		Content string `json:"content" validate:"required"`
		Rating  *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	comment, err := h.CommentService.Create(r.Context(), postID, service.CreateCommentRequest{
		Content: req.Content,
		Rating:  req.Rating,
	}, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, comment)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	actor := middleware.ActingUser(r.Context())

	if err := h.CommentService.Delete(r.Context(), vars["postId"], vars["commentId"], actor); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "comment deleted")
}
