// internal/store/cache/profiles.go
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"nanomatch/internal/common/logger"
	"nanomatch/internal/common/metrics"
	"nanomatch/internal/matching"
	"nanomatch/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	smeKeyPrefix        = "sme:profile:"
	influencerKeyPrefix = "influencer:profile:"
)

// ProfileCache is a read-through Redis cache in front of a ProfileStore. Redis
// failures fall through to the underlying store; lookups that fail are never cached.
type ProfileCache struct {
	next   matching.ProfileStore
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

// NewProfileCache creates a read-through cache in front of next.
func NewProfileCache(next matching.ProfileStore, client redis.Cmdable, ttl time.Duration, log logger.Logger) *ProfileCache {
	return &ProfileCache{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-cache"}),
	}
}

// GetSME returns the cached SME or loads it from next.
func (c *ProfileCache) GetSME(ctx context.Context, id string) (models.SME, error) {
	var sme models.SME
	if c.lookup(ctx, "sme", smeKeyPrefix+id, &sme) {
		return sme, nil
	}

	sme, err := c.next.GetSME(ctx, id)
	if err != nil {
		return models.SME{}, err
	}
	c.store(ctx, smeKeyPrefix+id, sme)
	return sme, nil
}

func (c *ProfileCache) GetInfluencer(ctx context.Context, id string) (models.Influencer, error) {
	var inf models.Influencer
	if c.lookup(ctx, "influencer", influencerKeyPrefix+id, &inf) {
		return inf, nil
	}

	inf, err := c.next.GetInfluencer(ctx, id)
	if err != nil {
		return models.Influencer{}, err
	}
	c.store(ctx, influencerKeyPrefix+id, inf)
	return inf, nil
}

// InvalidateInfluencers drops cached entries for the given influencer ids.
func (c *ProfileCache) InvalidateInfluencers(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = influencerKeyPrefix + id
	}
	return c.redis.Del(ctx, keys...).Err()
}

func (c *ProfileCache) lookup(ctx context.Context, kind, key string, dst interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
	case stderrors.Is(err, redis.Nil):
		metrics.ProfileCacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	default:
		metrics.ProfileCacheLookups.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return false
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		metrics.ProfileCacheLookups.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err})
		return false
	}
	metrics.ProfileCacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (c *ProfileCache) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
