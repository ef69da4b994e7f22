package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, bool, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

// users/{ownerId} documents, read through the redis cache
type profileRepository struct {
	docs  DocumentStore
	cache cache.Cache
	ttl   time.Duration
}

func NewProfileRepository(docs DocumentStore, c cache.Cache, ttl time.Duration) ProfileRepository {
	return &profileRepository{docs: docs, cache: c, ttl: ttl}
}

func (r *profileRepository) GetProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, bool, error) {

	key := cache.Key(cache.ProfileKeyPrefix, ownerID.String())

	return cache.GetOrLoad(ctx, r.cache, key, r.ttl, func(ctx context.Context) (*models.Profile, bool, error) {

		doc, found, err := r.docs.Get(ctx, UsersCollection, ownerID.String())
		if err != nil {
			return nil, false, fmt.Errorf("failed to read profile %s: %w", ownerID, err)
		}

		if !found {
			return nil, false, nil
		}

		profile := &models.Profile{}
		if err := json.Unmarshal(doc.Data, profile); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal profile %s: %w", ownerID, err)
		}

		profile.OwnerID = ownerID

		return profile, true, nil
	})
}

// SaveProfile merges the profile fields into the stored document.
func (r *profileRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {

	if err := r.docs.Set(ctx, UsersCollection, profile.OwnerID.String(), profile, true); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", profile.OwnerID, err)
	}

	key := cache.Key(cache.ProfileKeyPrefix, profile.OwnerID.String())
	if err := r.cache.Delete(ctx, key); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate profile cache",
			slog.String("key", key), slog.String("error", err.Error()))
	}

	return nil
}
