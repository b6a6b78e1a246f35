package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/utils"
)

// RecommendationCache stores serialized recommendation responses per
// user/contact/count. Missing REDIS_ADDR is not an error at the call sites:
// the app wires a nil cache and skips caching entirely.
type RecommendationCache interface {
	Get(ctx context.Context, userID, contactID string, count int, out any) (bool, error)
	Set(ctx context.Context, userID, contactID string, count int, value any) error
	Invalidate(ctx context.Context, userID, contactID string) error
	Close() error
}

type recommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRecommendationCache(log *logger.Logger) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := time.Duration(utils.GetEnvAsInt("RECOMMENDATION_CACHE_TTL_SECONDS", 900, log)) * time.Second

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recommendationCache{
		log: log.With("client", "RedisRecommendationCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID, contactID string, count int) string {
	return fmt.Sprintf("rec:%s:%s:%d", userID, contactID, count)
}

func (c *recommendationCache) Get(ctx context.Context, userID, contactID string, count int, out any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(userID, contactID, count)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// stale shape from an older deploy; treat as a miss
		c.log.Warn("Cache entry undecodable, ignoring", "error", err)
		return false, nil
	}
	return true, nil
}

func (c *recommendationCache) Set(ctx context.Context, userID, contactID string, count int, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(userID, contactID, count), raw, c.ttl).Err()
}

// Invalidate drops all cached counts for one contact, used when notes or the
// extraction change.
func (c *recommendationCache) Invalidate(ctx context.Context, userID, contactID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	pattern := fmt.Sprintf("rec:%s:%s:*", userID, contactID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *recommendationCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
