package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentSelect = `
	SELECT c.comment_id, c.post_id, c.author_id, c.content, c.rating, c.created_at,
	       u.name AS author_name, u.avatar AS author_avatar, u.role AS author_role
	FROM comments c
	JOIN users u ON u.user_id = c.author_id
`

type commentRow struct {
	models.Comment
	AuthorName   string `db:"author_name"`
	AuthorAvatar string `db:"author_avatar"`
	AuthorRole   string `db:"author_role"`
}

func (row *commentRow) toModel() *models.Comment {
	comment := row.Comment
	comment.Author = &models.AuthorSummary{
		UserID: comment.AuthorID,
		Name:   row.AuthorName,
		Avatar: row.AuthorAvatar,
		Role:   row.AuthorRole,
	}
	return &comment
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows,
		commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at DESC`, postID)
	if err != nil {
		return nil, apperror.Unexpected("could not list comments", err)
	}

	comments := make([]*models.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, rows[i].toModel())
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var row commentRow
	err := r.db.GetContext(ctx, &row, commentSelect+` WHERE c.comment_id = $1`, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment not found")
		}
		return nil, apperror.Unexpected("could not fetch comment", err)
	}
	return row.toModel(), nil
}

// CreateWithRating writes the comment and, when a rating is attached,
// upserts that rating on the parent post inside the same transaction so
// the two either both land or both roll back.
func (r *commentRepository) CreateWithRating(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Unexpected("could not begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO comments (comment_id, post_id, author_id, content, rating, created_at)
		VALUES (:comment_id, :post_id, :author_id, :content, :rating, :created_at)
	`

	if _, err := tx.NamedExecContext(ctx, query, comment); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post not found")
		}
		return apperror.Unexpected("could not create comment", err)
	}

	if comment.Rating != nil {
		upsert := `
			INSERT INTO post_ratings (post_id, user_id, value, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (post_id, user_id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		`
		if _, err := tx.ExecContext(ctx, upsert, comment.PostID, comment.AuthorID, *comment.Rating); err != nil {
			return apperror.Unexpected("could not save rating", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unexpected("could not commit comment creation", err)
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return apperror.Unexpected("could not delete comment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check deleted rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment not found")
	}

	return nil
}
