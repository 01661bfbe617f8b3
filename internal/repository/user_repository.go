package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Unexpected("could not hash password", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	user.CreatedAt = time.Now()

	query := `
		INSERT INTO users (user_id, name, email, password_hash, avatar, role,
		                   refresh_token, refresh_token_expiry_time, created_at)
		VALUES (:user_id, :name, :email, :password_hash, :avatar, :role,
		        :refresh_token, :refresh_token_expiry_time, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return apperror.Conflict("a user with this email already exists")
		}
		return apperror.Unexpected("could not create user", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Unexpected("could not fetch user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Unexpected("could not fetch user", err)
	}
	return &user, nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Forbidden("invalid credentials")
	}

	return user, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`, refreshToken, expiryTime, userID)
	if err != nil {
		return apperror.Unexpected("could not update refresh token", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Unexpected("could not check updated rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user not found")
	}

	return nil
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users
		WHERE refresh_token = $1 AND refresh_token_expiry_time > now()
	`, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("refresh token is invalid or expired")
		}
		return nil, apperror.Unexpected("could not fetch user", err)
	}
	return &user, nil
}
