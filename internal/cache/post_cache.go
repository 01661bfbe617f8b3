// Package cache keeps hot post reads off the database. Posts are cached
// by slug with a short TTL and dropped on every mutation, so a stale
// entry can only outlive a write for the invalidation round-trip.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coffeeblog/internal/config"
	"coffeeblog/internal/models"
)

type PostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPostCache(cfg *config.Config) (*PostCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	return &PostCache{rdb: rdb, ttl: cfg.Redis.PostTTL}, nil
}

func postKey(slug string) string {
	return "post:slug:" + slug
}

func (c *PostCache) GetPost(ctx context.Context, slug string) (*models.Post, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, postKey(slug)).Bytes()
	if err != nil {
		return nil, false
	}

	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, false
	}

	return &post, true
}

func (c *PostCache) SetPost(ctx context.Context, post *models.Post) {
	if c == nil || post == nil {
		return
	}

	data, err := json.Marshal(post)
	if err != nil {
		return
	}

	c.rdb.Set(ctx, postKey(post.Slug), data, c.ttl)
}

func (c *PostCache) InvalidatePost(ctx context.Context, slug string) {
	if c == nil || slug == "" {
		return
	}

	c.rdb.Del(ctx, postKey(slug))
}

func (c *PostCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
