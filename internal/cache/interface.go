package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON encoded values. A zero or negative ttl falls back to the
// configured default.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	ProfileKeyPrefix = "profile"
	RevokedKeyPrefix = "revoked"
	LoginKeyPrefix   = "login_attempts"
)

// Key joins a prefix and its parts with ":", e.g. profile:<ownerId>.
func Key(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

func prefixOf(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}
