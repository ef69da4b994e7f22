package repository_test

import (
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisRepoTest(t *testing.T, maxAttempts int64) (*repository.RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	cfg := &config.RateConfig{MaxAttempts: maxAttempts, WindowSize: 30 * time.Second}

	return repository.NewRedisRepo(client, cfg), mr
}

func TestCheckLoginRateLimit(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Attempts Within Limit", func(t *testing.T) {
		// Arrange
		repo, _ := setupRedisRepoTest(t, 3)

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(ctx, "asha@example.com")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2, remaining)
		assert.Zero(t, retryAfter)
	})

	t.Run("Failure - Limit Exceeded", func(t *testing.T) {
		// Arrange
		repo, _ := setupRedisRepoTest(t, 3)

		for range 3 {
			allowed, _, _, err := repo.CheckLoginRateLimit(ctx, "asha@example.com")
			require.NoError(t, err)
			require.True(t, allowed)
		}

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(ctx, "asha@example.com")

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Positive(t, retryAfter)
		assert.LessOrEqual(t, retryAfter, 30)
	})

	t.Run("Success - Identifiers Are Independent", func(t *testing.T) {
		// Arrange
		repo, _ := setupRedisRepoTest(t, 1)

		_, _, _, err := repo.CheckLoginRateLimit(ctx, "a@example.com")
		require.NoError(t, err)

		// Act
		allowed, _, _, err := repo.CheckLoginRateLimit(ctx, "b@example.com")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Failure - Redis Unavailable", func(t *testing.T) {
		// Arrange
		repo, mr := setupRedisRepoTest(t, 3)
		mr.Close()

		// Act
		allowed, _, _, err := repo.CheckLoginRateLimit(ctx, "asha@example.com")

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}

func TestTokenRevocation(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Revoked Until Expiry", func(t *testing.T) {
		// Arrange
		repo, mr := setupRedisRepoTest(t, 5)

		// Act
		err := repo.RevokeToken(ctx, "jti-1", time.Minute)
		require.NoError(t, err)

		revoked, err := repo.IsTokenRevoked(ctx, "jti-1")

		// Assert
		require.NoError(t, err)
		assert.True(t, revoked)

		mr.FastForward(2 * time.Minute)

		revoked, err = repo.IsTokenRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("Success - Unknown Token Not Revoked", func(t *testing.T) {
		repo, _ := setupRedisRepoTest(t, 5)

		revoked, err := repo.IsTokenRevoked(ctx, "jti-unknown")

		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("Success - Expired Token Is Not Stored", func(t *testing.T) {
		repo, mr := setupRedisRepoTest(t, 5)

		err := repo.RevokeToken(ctx, "jti-old", 0)

		require.NoError(t, err)
		assert.False(t, mr.Exists("revoked:jti-old"))
	})
}
