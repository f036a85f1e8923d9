package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/avelev/review-system/internal/domain"
)

// RedisCache implements cache-aside storage for rating aggregates and review
// list pages. Every key written for a product is tracked in a per-product SET
// so invalidation can drop all pages at once.
type RedisCache struct {
	client         *redis.Client
	ratingTTL      time.Duration
	reviewsListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, ratingTTL, reviewsListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		ratingTTL:      ratingTTL,
		reviewsListTTL: reviewsListTTL,
	}
}

func (c *RedisCache) ratingKey(productID uuid.UUID) string {
	return fmt.Sprintf("product:%s:rating", productID.String())
}

func (c *RedisCache) reviewsListKey(productID uuid.UUID, sort domain.SortOrder, limit, offset int) string {
	return fmt.Sprintf("product:%s:reviews:sort:%s:limit:%d:offset:%d", productID.String(), sort, limit, offset)
}

func (c *RedisCache) productCacheKeysSet(productID uuid.UUID) string {
	return fmt.Sprintf("product:%s:cache_keys", productID.String())
}

// GetRatingSummary retrieves a cached rating aggregate
func (c *RedisCache) GetRatingSummary(ctx context.Context, productID uuid.UUID) (*domain.RatingSummary, error) {
	val, err := c.client.Get(ctx, c.ratingKey(productID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// SetRatingSummary stores a rating aggregate
func (c *RedisCache) SetRatingSummary(ctx context.Context, productID uuid.UUID, summary *domain.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.ratingKey(productID), data, c.ratingTTL).Err()
}

// GetReviewsList retrieves a cached reviews page for a product
func (c *RedisCache) GetReviewsList(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int) ([]*domain.Review, error) {
	key := c.reviewsListKey(productID, sort, limit, offset)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var reviews []*domain.Review
	if err := json.Unmarshal([]byte(val), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// SetReviewsList stores a reviews page and tracks the key in the product SET
func (c *RedisCache) SetReviewsList(ctx context.Context, productID uuid.UUID, sort domain.SortOrder, limit, offset int, reviews []*domain.Review) error {
	key := c.reviewsListKey(productID, sort, limit, offset)
	trackingKey := c.productCacheKeysSet(productID)

	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.reviewsListTTL)
	pipe.SAdd(ctx, trackingKey, key)
	pipe.Expire(ctx, trackingKey, c.reviewsListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateProduct drops the rating aggregate and every tracked reviews page
// for a product. Called after any write that changes the product's reviews.
func (c *RedisCache) InvalidateProduct(ctx context.Context, productID uuid.UUID) error {
	trackingKey := c.productCacheKeysSet(productID)

	keys, err := c.client.SMembers(ctx, trackingKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	keys = append(keys, c.ratingKey(productID), trackingKey)
	return c.client.Unlink(ctx, keys...).Err()
}
