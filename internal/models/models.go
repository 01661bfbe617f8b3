package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	RoleAdmin    = "admin"
	RoleBarista  = "barista"
	RoleCustomer = "customer"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Name                   string    `json:"name" db:"name"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	Avatar                 string    `json:"avatar" db:"avatar"`
	Role                   string    `json:"role" db:"role"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// AuthorSummary is the public slice of a user embedded in post and
// comment responses.
type AuthorSummary struct {
	UserID string `json:"userId" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Avatar string `json:"avatar" db:"avatar"`
	Role   string `json:"role" db:"role"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	PostID        string         `json:"postId" db:"post_id"`
	Title         string         `json:"title" db:"title"`
	Slug          string         `json:"slug" db:"slug"`
	Excerpt       string         `json:"excerpt" db:"excerpt"`
	Content       string         `json:"content" db:"content"`
	Price         *float64       `json:"price,omitempty" db:"price"`
	FeaturedImage string         `json:"featuredImage" db:"featured_image"`
	Status        string         `json:"status" db:"status"`
	IsFeatured    bool           `json:"isFeatured" db:"is_featured"`
	AuthorID      string         `json:"authorId" db:"author_id"`
	ViewCount     int64          `json:"viewCount" db:"view_count"`
	Tags          pq.StringArray `json:"tags" db:"tags"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`

	Author        *AuthorSummary `json:"author,omitempty" db:"-"`
	Categories    []Category     `json:"categories" db:"-"`
	LikeCount     int64          `json:"likeCount" db:"-"`
	AverageRating *float64       `json:"averageRating" db:"-"`
}

type Comment struct {
	CommentID string    `json:"commentId" db:"comment_id"`
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	Rating    *int      `json:"rating,omitempty" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *AuthorSummary `json:"author,omitempty" db:"-"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string, which is how the form clients submit tags.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}

	*t = SplitTags(csv)
	return nil
}

// SplitTags turns a comma-separated string into trimmed tag values,
// dropping empties.
func SplitTags(csv string) []string {
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
