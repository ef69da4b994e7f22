package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, identifier string) (bool, int, int, error)
}

type TokenRevocationRepository interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisRepository struct {
	client *redis.Client
	cfg    *config.RateConfig
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil

}

// NewRedisRepo returns the store backing both the login rate limiter and token revocation.
func NewRedisRepo(client *redis.Client, cfg *config.RateConfig) *RedisRepository {
	return &RedisRepository{client: client, cfg: cfg}
}

func NewRateLimitRepo(client *redis.Client, cfg *config.RateConfig) RateLimitRepository {
	return NewRedisRepo(client, cfg)
}

func NewTokenRevocationRepo(client *redis.Client) TokenRevocationRepository {
	return NewRedisRepo(client, nil)
}

// Returns isAllowed, attempts left, seconds to wait, error
func (r *RedisRepository) CheckLoginRateLimit(ctx context.Context, identifier string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := cache.Key(cache.LoginKeyPrefix, identifier)

	now := time.Now()
	window := r.cfg.WindowSize

	// only attempts after windowStart are counted
	windowStart := now.Add(-window).UnixMilli()

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	// members must be unique or attempts in the same instant collapse into one
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})

	count := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	remaining := r.cfg.MaxAttempts - attempts

	if attempts > r.cfg.MaxAttempts {

		scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{
			Key: key, Start: 0, Stop: 0,
		}).Result()

		if err != nil || len(scores) == 0 {
			logger.Error("Failed to get oldest attempt time for rate limit", slog.String("key", key), slog.Any("error", err))
			return false, 0, int(window.Seconds()), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		oldest := time.UnixMilli(int64(scores[0].Score))
		retryAfter := max(int(oldest.Add(window).Sub(now).Seconds()), 1)

		logger.Warn("Rate limit exceeded", slog.String("identifier", identifier), slog.Int64("attempts", attempts))
		return false, 0, retryAfter, nil
	}

	logger.Debug("Rate limit check passed", slog.String("identifier", identifier), slog.Int64("attempts", attempts), slog.Int64("remaining", remaining))
	return true, int(remaining), 0, nil
}

// RevokeToken marks a token id as revoked until its own expiry.
func (r *RedisRepository) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {

	if ttl <= 0 {
		return nil
	}

	key := cache.Key(cache.RevokedKeyPrefix, tokenID)

	if err := r.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (r *RedisRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {

	key := cache.Key(cache.RevokedKeyPrefix, tokenID)

	err := r.client.Get(ctx, key).Err()
	if err == nil {
		return true, nil
	}

	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	return false, fmt.Errorf("failed to check token revocation: %w", err)
}
