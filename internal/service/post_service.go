package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/cache"
	"coffeeblog/internal/models"
	"coffeeblog/internal/repository"
	"coffeeblog/internal/slug"
)

type CreatePostRequest struct {
	Title         string
	Excerpt       string
	Content       string
	Price         *float64
	FeaturedImage string
	Status        string
	IsFeatured    bool
	Categories    []string
	Tags          []string
}

type UpdatePostRequest struct {
	Title         *string
	Excerpt       *string
	Content       *string
	Price         *float64
	FeaturedImage *string
	Status        *string
	IsFeatured    *bool
	Categories    *[]string
	Tags          *[]string
}

type ListPostsRequest struct {
	Search   string
	Category string
	Status   string
	Sort     string
	Page     int
	Limit    int
	// Privileged callers (admin, barista) may filter on any status;
	// everyone else only ever sees published posts.
	Privileged bool
}

type PostService interface {
	Create(ctx context.Context, req CreatePostRequest, actor *models.User) (*models.Post, error)
	Update(ctx context.Context, postID string, req UpdatePostRequest, actor *models.User) (*models.Post, error)
	Delete(ctx context.Context, postID string, actor *models.User) error
	Get(ctx context.Context, postID string) (*models.Post, error)
	GetBySlug(ctx context.Context, slugValue string) (*models.Post, error)
	List(ctx context.Context, req ListPostsRequest) ([]*models.Post, models.Pagination, error)
	ToggleLike(ctx context.Context, postID, userID string) ([]string, error)
	Rate(ctx context.Context, postID, userID string, value int) (*models.Post, error)
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	postCache    *cache.PostCache
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, postCache *cache.PostCache) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		postCache:    postCache,
	}
}

func (s *postService) Create(ctx context.Context, req CreatePostRequest, actor *models.User) (*models.Post, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(req.Content) == "" {
		fields["content"] = "content is required"
	}
	if req.Price != nil && *req.Price < 0 {
		fields["price"] = "price must not be negative"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("invalid post payload", fields)
	}

	postSlug := slug.Make(req.Title)
	if postSlug == "" {
		return nil, apperror.Validation("invalid post payload",
			map[string]string{"title": "title must contain at least one letter or digit"})
	}

	if err := s.validateCategories(ctx, req.Categories); err != nil {
		return nil, err
	}

	status := req.Status
	if status != models.StatusPublished {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:         strings.TrimSpace(req.Title),
		Slug:          postSlug,
		Excerpt:       strings.TrimSpace(req.Excerpt),
		Content:       req.Content,
		Price:         req.Price,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		IsFeatured:    req.IsFeatured,
		AuthorID:      actor.UserID,
		Tags:          pq.StringArray(normalizeTags(req.Tags)),
	}

	if err := s.createWithSlugRetry(ctx, post, req.Categories); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.PostID)
}

// createWithSlugRetry retries a slug collision once with a short random
// suffix before surfacing the duplicate to the caller.
func (s *postService) createWithSlugRetry(ctx context.Context, post *models.Post, categoryIDs []string) error {
	err := s.postRepo.Create(ctx, post, categoryIDs)
	if err == nil || !apperror.IsKind(err, apperror.KindDuplicateSlug) {
		return err
	}

	post.Slug = post.Slug + "-" + shortSuffix()
	return s.postRepo.Create(ctx, post, categoryIDs)
}

func shortSuffix() string {
	return uuid.New().String()[:8]
}

func (s *postService) Update(ctx context.Context, postID string, req UpdatePostRequest, actor *models.User) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := authorizePostMutation(post, actor); err != nil {
		return nil, err
	}

	oldSlug := post.Slug

	if req.Title != nil && strings.TrimSpace(*req.Title) != post.Title {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.Validation("invalid post payload",
				map[string]string{"title": "title is required"})
		}
		newSlug := slug.Make(title)
		if newSlug == "" {
			return nil, apperror.Validation("invalid post payload",
				map[string]string{"title": "title must contain at least one letter or digit"})
		}
		post.Title = title
		post.Slug = newSlug
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, apperror.Validation("invalid post payload",
				map[string]string{"content": "content is required"})
		}
		post.Content = *req.Content
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperror.Validation("invalid post payload",
				map[string]string{"price": "price must not be negative"})
		}
		post.Price = req.Price
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		if *req.Status != models.StatusDraft && *req.Status != models.StatusPublished {
			return nil, apperror.Validation("invalid post payload",
				map[string]string{"status": "status must be draft or published"})
		}
		post.Status = *req.Status
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.Tags != nil {
		post.Tags = pq.StringArray(normalizeTags(*req.Tags))
	}

	categoryIDs := categoryIDsOf(post)
	if req.Categories != nil {
		if err := s.validateCategories(ctx, *req.Categories); err != nil {
			return nil, err
		}
		categoryIDs = *req.Categories
	}

	err = s.postRepo.Update(ctx, post, categoryIDs)
	if apperror.IsKind(err, apperror.KindDuplicateSlug) {
		post.Slug = post.Slug + "-" + shortSuffix()
		err = s.postRepo.Update(ctx, post, categoryIDs)
	}
	if err != nil {
		return nil, err
	}

	s.postCache.InvalidatePost(ctx, oldSlug)
	s.postCache.InvalidatePost(ctx, post.Slug)

	return s.postRepo.GetByID(ctx, post.PostID)
}

func (s *postService) Delete(ctx context.Context, postID string, actor *models.User) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := authorizePostMutation(post, actor); err != nil {
		return err
	}

	if err := s.postRepo.DeleteCascade(ctx, postID); err != nil {
		return err
	}

	s.postCache.InvalidatePost(ctx, post.Slug)
	return nil
}

func (s *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *postService) GetBySlug(ctx context.Context, slugValue string) (*models.Post, error) {
	if post, ok := s.postCache.GetPost(ctx, slugValue); ok {
		_ = s.postRepo.IncrementViewCount(ctx, post.PostID)
		return post, nil
	}

	post, err := s.postRepo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	_ = s.postRepo.IncrementViewCount(ctx, post.PostID)
	s.postCache.SetPost(ctx, post)

	return post, nil
}

func (s *postService) List(ctx context.Context, req ListPostsRequest) ([]*models.Post, models.Pagination, error) {
	filter := repository.PostListFilter{
		Search: req.Search,
		Sort:   req.Sort,
		Page:   req.Page,
		Limit:  req.Limit,
	}

	switch {
	case !req.Privileged:
		filter.Status = models.StatusPublished
	case req.Status == "all":
		filter.Status = ""
	case req.Status == "":
		filter.Status = models.StatusPublished
	default:
		filter.Status = req.Status
	}

	if req.Category != "" {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		if categoryID == "" {
			filter.CategoryUnresolved = true
		}
		filter.CategoryID = categoryID
	}

	filter.Normalize()

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return posts, filter.Paginate(total), nil
}

// resolveCategory tries the reference as a slug first and falls back to
// a direct identifier match; an empty result means nothing matched.
func (s *postService) resolveCategory(ctx context.Context, ref string) (string, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, ref)
	if err == nil {
		return category.CategoryID, nil
	}
	if !apperror.IsKind(err, apperror.KindNotFound) {
		return "", err
	}

	category, err = s.categoryRepo.GetByID(ctx, ref)
	if err == nil {
		return category.CategoryID, nil
	}
	if !apperror.IsKind(err, apperror.KindNotFound) {
		return "", err
	}

	return "", nil
}

func (s *postService) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	return s.postRepo.ToggleLike(ctx, postID, userID)
}

func (s *postService) Rate(ctx context.Context, postID, userID string, value int) (*models.Post, error) {
	if value < 1 || value > 5 {
		return nil, apperror.InvalidRating(value)
	}

	if err := s.postRepo.UpsertRating(ctx, postID, userID, value); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.postCache.InvalidatePost(ctx, post.Slug)
	return post, nil
}

func (s *postService) validateCategories(ctx context.Context, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	found, err := s.categoryRepo.GetManyByIDs(ctx, categoryIDs)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(found))
	for _, category := range found {
		known[category.CategoryID] = true
	}

	var missing []string
	for _, categoryID := range categoryIDs {
		if !known[categoryID] {
			missing = append(missing, categoryID)
		}
	}
	if len(missing) > 0 {
		return apperror.InvalidCategory(missing)
	}

	return nil
}

func authorizePostMutation(post *models.Post, actor *models.User) error {
	if actor == nil {
		return apperror.Forbidden("authentication required")
	}
	if actor.UserID != post.AuthorID && actor.Role != models.RoleAdmin {
		return apperror.Forbidden("only the author or an admin may modify this post")
	}
	return nil
}

func categoryIDsOf(post *models.Post) []string {
	ids := make([]string, 0, len(post.Categories))
	for _, category := range post.Categories {
		ids = append(ids, category.CategoryID)
	}
	return ids
}

// normalizeTags trims each tag and drops empties and duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		normalized = append(normalized, trimmed)
	}
	return normalized
}
