package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediaforge/server/internal/domain/generation"
)

const (
	upstreamHealthKey        = "upstream:health:"
	defaultUpstreamHealthTTL = 10 * time.Minute
)

// UpstreamHealthCache stores upstream health in Redis so every replica
// reports the same status.
type UpstreamHealthCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewUpstreamHealthCache creates a new upstream health cache.
func NewUpstreamHealthCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *UpstreamHealthCache {
	if ttl <= 0 {
		ttl = defaultUpstreamHealthTTL
	}
	return &UpstreamHealthCache{client: client, prefix: keyPrefix + upstreamHealthKey, ttl: ttl}
}

func (a *UpstreamHealthCache) key(c generation.Capability) string {
	return a.prefix + c.String()
}

// GetHealth returns the cached health. Missing keys report healthy.
func (a *UpstreamHealthCache) GetHealth(ctx context.Context, c generation.Capability) (bool, error) {
	val, err := a.client.Get(ctx, a.key(c)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get health: %w", err)
	}
	return val == "1", nil
}

// SetHealth records the health of an upstream.
func (a *UpstreamHealthCache) SetHealth(ctx context.Context, c generation.Capability, healthy bool) error {
	val := "0"
	if healthy {
		val = "1"
	}
	if err := a.client.Set(ctx, a.key(c), val, a.ttl).Err(); err != nil {
		return fmt.Errorf("set health: %w", err)
	}
	return nil
}

// Compile-time interface check
var _ generation.HealthCache = (*UpstreamHealthCache)(nil)
