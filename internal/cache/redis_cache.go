package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type redisCache struct {
	client     redis.Cmdable
	defaultTTL time.Duration
	namespace  string
}

// NewRedisCache does not own client; it is shared with the rate limiter.
func NewRedisCache(client redis.Cmdable, cfg *config.CacheConfig) Cache {
	return &redisCache{
		client:     client,
		defaultTTL: cfg.DefaultTTL,
		namespace:  cfg.Namespace,
	}
}

func (r *redisCache) storageKey(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {

	storageKey := r.storageKey(key)

	data, err := r.client.Get(ctx, storageKey).Bytes()
	if err != nil {

		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup(prefixOf(key), "miss")
			return false, nil
		}

		metrics.RecordCacheLookup(prefixOf(key), "error")
		return false, fmt.Errorf("failed to get key %s from redis: %w", storageKey, err)
	}

	if err := json.Unmarshal(data, value); err != nil {

		// a stale shape after a model change; drop it so the next read reloads
		if delErr := r.client.Del(ctx, storageKey).Err(); delErr != nil {
			err = errors.Join(err, delErr)
		}

		metrics.RecordCacheLookup(prefixOf(key), "corrupt")
		return false, fmt.Errorf("failed to unmarshal cache data for key %s: %w", storageKey, err)
	}

	metrics.RecordCacheLookup(prefixOf(key), "hit")

	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	storageKey := r.storageKey(key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", storageKey, err)
	}

	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	if err := r.client.Set(ctx, storageKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", storageKey, err)
	}

	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {

	if len(keys) == 0 {
		return nil
	}

	storageKeys := make([]string, len(keys))
	for i, key := range keys {
		storageKeys[i] = r.storageKey(key)
	}

	if err := r.client.Del(ctx, storageKeys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys %v from redis: %w", storageKeys, err)
	}

	return nil
}

var loads singleflight.Group

type loaded[T any] struct {
	value T
	found bool
}

// GetOrLoad reads key through c. Concurrent misses for the same key share a
// single load. Cache failures are logged and never fail the read.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, bool, error)) (T, bool, error) {

	logger := middleware.LoggerFromContext(ctx)

	var cached T

	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cache read failed, loading from source", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return cached, true, nil
	}

	result, err, _ := loads.Do(key, func() (any, error) {

		value, ok, err := load(ctx)
		if err != nil || !ok {
			return loaded[T]{value: value, found: ok}, err
		}

		if err := c.Set(ctx, key, value, ttl); err != nil {
			logger.Warn("Cache populate failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		return loaded[T]{value: value, found: true}, nil
	})

	out, _ := result.(loaded[T])
	if err != nil {
		return out.value, false, err
	}

	return out.value, out.found, nil
}
