package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"campusmentor/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a CacheBackend when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheBackend is the key/value store behind the profile cache.
type CacheBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisBackend adapts a Redis client to CacheBackend.
type RedisBackend struct {
	Client *redis.Client
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisBackend) Del(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

const (
	profileKeyPrefix = "profile:"
	candidatesKey    = "profiles:mentor_candidates"
)

// ProfileCache is a read-through cache over a ProfileSource. Entries expire
// after the TTL; Bust drops them eagerly after a profile write. Cache
// backend failures fall through to the underlying source.
type ProfileCache struct {
	inner   ProfileSource
	backend CacheBackend
	ttl     time.Duration
	log     *zap.Logger
}

func NewProfileCache(inner ProfileSource, backend CacheBackend, ttl time.Duration, log *zap.Logger) *ProfileCache {
	return &ProfileCache{inner: inner, backend: backend, ttl: ttl, log: log}
}

func (c *ProfileCache) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	key := profileKeyPrefix + id
	if raw, err := c.backend.Get(ctx, key); err == nil {
		var profile models.Profile
		if jsonErr := json.Unmarshal([]byte(raw), &profile); jsonErr == nil {
			return &profile, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("profile cache read failed", zap.String("key", key), zap.Error(err))
	}

	profile, err := c.inner.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, profile)
	return profile, nil
}

func (c *ProfileCache) ListMentorCandidates(ctx context.Context) ([]models.Profile, error) {
	if raw, err := c.backend.Get(ctx, candidatesKey); err == nil {
		var profiles []models.Profile
		if jsonErr := json.Unmarshal([]byte(raw), &profiles); jsonErr == nil {
			return profiles, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("candidate cache read failed", zap.Error(err))
	}

	profiles, err := c.inner.ListMentorCandidates(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, candidatesKey, profiles)
	return profiles, nil
}

// Bust invalidates the cached entry for one profile and the candidate list.
// Call it after every profile write.
func (c *ProfileCache) Bust(ctx context.Context, profileID string) {
	if err := c.backend.Del(ctx, profileKeyPrefix+profileID, candidatesKey); err != nil {
		c.log.Warn("profile cache bust failed", zap.String("profile_id", profileID), zap.Error(err))
	}
}

func (c *ProfileCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.log.Warn("profile cache write failed", zap.String("key", key), zap.Error(err))
	}
}
