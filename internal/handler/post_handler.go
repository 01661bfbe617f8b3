package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"coffeeblog/internal/middleware"
	"coffeeblog/internal/models"
	"coffeeblog/internal/service"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type createPostRequest struct {
	Title         string         `json:"title" validate:"required,max=100"`
	Excerpt       string         `json:"excerpt" validate:"max=200"`
	Content       string         `json:"content" validate:"required"`
	Price         *float64       `json:"price" validate:"omitempty,gte=0"`
	FeaturedImage string         `json:"featuredImage"`
	Status        string         `json:"status" validate:"omitempty,oneof=draft published"`
	IsFeatured    bool           `json:"isFeatured"`
	Categories    []string       `json:"categories"`
	Tags          models.TagList `json:"tags"`
}

type updatePostRequest struct {
	Title         *string         `json:"title" validate:"omitempty,max=100"`
	Excerpt       *string         `json:"excerpt" validate:"omitempty,max=200"`
	Content       *string         `json:"content"`
	Price         *float64        `json:"price" validate:"omitempty,gte=0"`
	FeaturedImage *string         `json:"featuredImage"`
	Status        *string         `json:"status" validate:"omitempty,oneof=draft published"`
	IsFeatured    *bool           `json:"isFeatured"`
	Categories    *[]string       `json:"categories"`
	Tags          *models.TagList `json:"tags"`
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	actor := middleware.ActingUser(r.Context())
	privileged := actor != nil &&
		(actor.Role == models.RoleAdmin || actor.Role == models.RoleBarista)

	req := service.ListPostsRequest{
		Search:     query.Get("q"),
		Category:   query.Get("category"),
		Status:     query.Get("status"),
		Sort:       query.Get("sort"),
		Page:       page,
		Limit:      limit,
		Privileged: privileged,
	}

	posts, pagination, err := h.PostService.List(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WritePage(w, posts, pagination)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.Get(r.Context(), postID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, post)
}

func (h *Handlers) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.PostService.GetBySlug(r.Context(), slug)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, post)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCreatePost(w, r)
	if !ok {
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	actor := middleware.ActingUser(r.Context())

	post, err := h.PostService.Create(r.Context(), service.CreatePostRequest{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Price:         req.Price,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
		Categories:    req.Categories,
		Tags:          req.Tags,
	}, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, post)
}

func (h *Handlers) decodeCreatePost(w http.ResponseWriter, r *http.Request) (createPostRequest, bool) {
	var req createPostRequest

	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, "invalid request body", http.StatusBadRequest)
			return req, false
		}
		return req, true
	}

	if !h.parseUploadForm(w, r) {
		return req, false
	}

	req.Title = r.FormValue("title")
	req.Excerpt = r.FormValue("excerpt")
	req.Content = r.FormValue("content")
	req.Status = r.FormValue("status")
	req.IsFeatured = r.FormValue("isFeatured") == "true"
	req.Categories = r.MultipartForm.Value["categories"]
	req.Tags = models.SplitTags(r.FormValue("tags"))

	if priceValue := r.FormValue("price"); priceValue != "" {
		price, err := strconv.ParseFloat(priceValue, 64)
		if err != nil {
			WriteError(w, "price must be a number", http.StatusBadRequest)
			return req, false
		}
		req.Price = &price
	}

	url, ok := h.uploadFeaturedImage(w, r)
	if !ok {
		return req, false
	}
	if url == "" {
		url = r.FormValue("featuredImage")
	}
	req.FeaturedImage = url

	return req, true
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	req, ok := h.decodeUpdatePost(w, r)
	if !ok {
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	actor := middleware.ActingUser(r.Context())

	post, err := h.PostService.Update(r.Context(), postID, service.UpdatePostRequest{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Price:         req.Price,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
		Categories:    req.Categories,
		Tags:          (*[]string)(req.Tags),
	}, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, post)
}

func (h *Handlers) decodeUpdatePost(w http.ResponseWriter, r *http.Request) (updatePostRequest, bool) {
	var req updatePostRequest

	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, "invalid request body", http.StatusBadRequest)
			return req, false
		}
		return req, true
	}

	if !h.parseUploadForm(w, r) {
		return req, false
	}

	// Form uploads only carry the fields the client set; absent keys
	// leave the post untouched.
	values := r.MultipartForm.Value
	if v, ok := formValue(values, "title"); ok {
		req.Title = &v
	}
	if v, ok := formValue(values, "excerpt"); ok {
		req.Excerpt = &v
	}
	if v, ok := formValue(values, "content"); ok {
		req.Content = &v
	}
	if v, ok := formValue(values, "status"); ok {
		req.Status = &v
	}
	if v, ok := formValue(values, "isFeatured"); ok {
		isFeatured := v == "true"
		req.IsFeatured = &isFeatured
	}
	if v, ok := formValue(values, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, "price must be a number", http.StatusBadRequest)
			return req, false
		}
		req.Price = &price
	}
	if categories, ok := values["categories"]; ok {
		req.Categories = &categories
	}
	if v, ok := formValue(values, "tags"); ok {
		tags := models.TagList(models.SplitTags(v))
		req.Tags = &tags
	}

	url, ok := h.uploadFeaturedImage(w, r)
	if !ok {
		return req, false
	}
	if url != "" {
		req.FeaturedImage = &url
	}

	return req, true
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	actor := middleware.ActingUser(r.Context())

	if err := h.PostService.Delete(r.Context(), postID, actor); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "post deleted")
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	actor := middleware.ActingUser(r.Context())

	likes, err := h.PostService.ToggleLike(r.Context(), postID, actor.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, likes)
}

func (h *Handlers) RatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	actor := middleware.ActingUser(r.Context())

	var req struct {
		Value int `json:"value"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Rate(r.Context(), postID, actor.UserID, req.Value)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteData(w, http.StatusOK, post)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formValue(values map[string][]string, key string) (string, bool) {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0], true
	}
	return "", false
}

func (h *Handlers) parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "could not parse upload form", http.StatusBadRequest)
		return false
	}
	return true
}

// uploadFeaturedImage stores the attached image through the media
// collaborator and returns its URL; no attachment is not an error.
func (h *Handlers) uploadFeaturedImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("featuredImage")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", true
		}
		WriteError(w, "could not read uploaded file", http.StatusBadRequest)
		return "", false
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		WriteError(w, "unsupported image type, allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return "", false
	}

	_, url, err := h.Storage.Upload(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		WriteError(w, "could not store uploaded image", http.StatusInternalServerError)
		return "", false
	}

	return url, true
}
