package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"foodgram/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	tagsKey        = "foodgram:reference:tags"
	ingredientsKey = "foodgram:reference:ingredients"
)

// Connect opens a Redis client from a redis:// URL and verifies it with a ping.
func Connect(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// ReferenceCache keeps the full tag and ingredient lists in Redis.
// A nil *ReferenceCache is valid and behaves as an always-empty cache,
// which is how the API runs when REDIS_URL is unset.
// Redis failures are logged and reported as misses.
type ReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewReferenceCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReferenceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceCache{client: client, ttl: ttl, logger: logger}
}

func (c *ReferenceCache) Tags(ctx context.Context) ([]models.Tag, bool) {
	var tags []models.Tag
	ok := c.get(ctx, tagsKey, &tags)
	return tags, ok
}

func (c *ReferenceCache) SetTags(ctx context.Context, tags []models.Tag) {
	c.set(ctx, tagsKey, tags)
}

func (c *ReferenceCache) Ingredients(ctx context.Context) ([]models.Ingredient, bool) {
	var ingredients []models.Ingredient
	ok := c.get(ctx, ingredientsKey, &ingredients)
	return ingredients, ok
}

func (c *ReferenceCache) SetIngredients(ctx context.Context, ingredients []models.Ingredient) {
	c.set(ctx, ingredientsKey, ingredients)
}

// Invalidate drops both lists; the reference loader calls it after an import.
func (c *ReferenceCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, tagsKey, ingredientsKey).Err()
}

func (c *ReferenceCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("reference cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("reference cache entry is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *ReferenceCache) set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("reference cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("reference cache write failed", "key", key, "error", err)
	}
}
