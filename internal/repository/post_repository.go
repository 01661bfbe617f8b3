package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

const postSelect = `
	SELECT p.post_id, p.title, p.slug, p.excerpt, p.content, p.price,
	       p.featured_image, p.status, p.is_featured, p.author_id,
	       p.view_count, p.tags, p.created_at, p.updated_at,
	       u.name AS author_name, u.avatar AS author_avatar, u.role AS author_role,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.post_id) AS like_count,
	       (SELECT ROUND(AVG(pr.value)::numeric, 1) FROM post_ratings pr WHERE pr.post_id = p.post_id) AS average_rating
	FROM posts p
	JOIN users u ON u.user_id = p.author_id
`

type postRow struct {
	models.Post
	AuthorName    string          `db:"author_name"`
	AuthorAvatar  string          `db:"author_avatar"`
	AuthorRole    string          `db:"author_role"`
	LikeCountCol  int64           `db:"like_count"`
	AvgRatingCol  sql.NullFloat64 `db:"average_rating"`
}

func (row *postRow) toModel() *models.Post {
	post := row.Post
	post.Author = &models.AuthorSummary{
		UserID: post.AuthorID,
		Name:   row.AuthorName,
		Avatar: row.AuthorAvatar,
		Role:   row.AuthorRole,
	}
	post.LikeCount = row.LikeCountCol
	if row.AvgRatingCol.Valid {
		avg := row.AvgRatingCol.Float64
		post.AverageRating = &avg
	}
	if post.Categories == nil {
		post.Categories = []models.Category{}
	}
	if post.Tags == nil {
		post.Tags = pq.StringArray{}
	}
	return &post
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, categoryIDs []string) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = pq.StringArray{}
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Unexpected("could not begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts
		(post_id, title, slug, excerpt, content, price, featured_image,
		 status, is_featured, author_id, tags, created_at, updated_at)
		VALUES
		(:post_id, :title, :slug, :excerpt, :content, :price, :featured_image,
		 :status, :is_featured, :author_id, :tags, :created_at, :updated_at)
	`

	if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
		if isUniqueViolation(err, "posts_slug_key") {
			return apperror.DuplicateSlug(post.Slug)
		}
		return apperror.Unexpected("could not create post", err)
	}

	if err := insertPostCategories(ctx, tx, post.PostID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unexpected("could not commit post creation", err)
	}

	return nil
}

func insertPostCategories(ctx context.Context, tx *sqlx.Tx, postID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, categoryID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperror.InvalidCategory([]string{categoryID})
			}
			return apperror.Unexpected("could not link category", err)
		}
	}
	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.post_id = $1`, postID)
}

func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.slug = $1`, slug)
}

func (r *PostRepositoryImpl) getOne(ctx context.Context, query string, arg string) (*models.Post, error) {
	var row postRow
	if err := r.DB.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, apperror.Unexpected("could not fetch post", err)
	}

	post := row.toModel()
	if err := r.attachCategories(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

func (r *PostRepositoryImpl) IncrementViewCount(ctx context.Context, postID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE post_id = $1`, postID)
	if err != nil {
		return apperror.Unexpected("could not increment view count", err)
	}
	return nil
}

func (r *PostRepositoryImpl) List(ctx context.Context, filter PostListFilter) ([]*models.Post, int, error) {
	where, args, orderBy, limit, offset := filter.Build()

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p WHERE ` + where
	if err := r.DB.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, apperror.Unexpected("could not count posts", err)
	}

	listArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		postSelect, where, orderBy, len(args)+1, len(args)+2)

	var rows []postRow
	if err := r.DB.SelectContext(ctx, &rows, listQuery, listArgs...); err != nil {
		return nil, 0, apperror.Unexpected("could not list posts", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toModel())
	}

	if err := r.attachCategories(ctx, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *PostRepositoryImpl) attachCategories(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.PostID)
		byID[post.PostID] = post
	}

	type categoryRow struct {
		PostID string `db:"post_id"`
		models.Category
	}

	var rows []categoryRow
	query := `
		SELECT pc.post_id, c.category_id, c.name, c.slug, c.description, c.created_at, c.updated_at
		FROM post_categories pc
		JOIN categories c ON c.category_id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY c.name
	`
	if err := r.DB.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return apperror.Unexpected("could not load post categories", err)
	}

	for _, row := range rows {
		post := byID[row.PostID]
		post.Categories = append(post.Categories, row.Category)
	}

	return nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post, categoryIDs []string) error {
	post.UpdatedAt = time.Now()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Unexpected("could not begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE posts SET
			title = :title,
			slug = :slug,
			excerpt = :excerpt,
			content = :content,
			price = :price,
			featured_image = :featured_image,
			status = :status,
			is_featured = :is_featured,
			tags = :tags,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`

	result, err := tx.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err, "posts_slug_key") {
			return apperror.DuplicateSlug(post.Slug)
		}
		return apperror.Unexpected("could not update post", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check updated rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post not found")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_categories WHERE post_id = $1`, post.PostID); err != nil {
		return apperror.Unexpected("could not unlink categories", err)
	}

	if err := insertPostCategories(ctx, tx, post.PostID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unexpected("could not commit post update", err)
	}

	return nil
}

// DeleteCascade removes the post together with its comments in one
// transaction; likes, ratings and category links go with the post row
// through their foreign keys. Either everything is deleted or nothing is.
func (r *PostRepositoryImpl) DeleteCascade(ctx context.Context, postID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Unexpected("could not begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return apperror.Unexpected("could not delete post comments", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return apperror.Unexpected("could not delete post", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check deleted rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post not found")
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unexpected("could not commit post deletion", err)
	}

	return nil
}

// ToggleLike flips the user's membership in the post's likes set using
// two conditional statements instead of read-modify-write: the DELETE
// and the INSERT ... ON CONFLICT DO NOTHING are each atomic, so two
// concurrent toggles can never produce a duplicate membership.
func (r *PostRepositoryImpl) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, apperror.Unexpected("could not toggle like", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return nil, apperror.Unexpected("could not check deleted rows", err)
	}

	if deleted == 0 {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, userID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, apperror.NotFound("post not found")
			}
			return nil, apperror.Unexpected("could not toggle like", err)
		}
	}

	return r.Likes(ctx, postID)
}

// UpsertRating stores the user's rating with last-write-wins semantics
// as a single atomic statement keyed on (post_id, user_id).
func (r *PostRepositoryImpl) UpsertRating(ctx context.Context, postID, userID string, value int) error {
	query := `
		INSERT INTO post_ratings (post_id, user_id, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (post_id, user_id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.DB.ExecContext(ctx, query, postID, userID, value); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post not found")
		}
		return apperror.Unexpected("could not save rating", err)
	}
	return nil
}

func (r *PostRepositoryImpl) Likes(ctx context.Context, postID string) ([]string, error) {
	var likes []string
	err := r.DB.SelectContext(ctx, &likes,
		`SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, apperror.Unexpected("could not load likes", err)
	}
	if likes == nil {
		likes = []string{}
	}
	return likes, nil
}
