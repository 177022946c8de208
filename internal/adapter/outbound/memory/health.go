// Package memory holds in-process adapters used when no external store is
// configured.
package memory

import (
	"context"
	"sync"

	"github.com/mediaforge/server/internal/domain/generation"
)

// HealthCache keeps upstream health in process memory.
type HealthCache struct {
	mu     sync.RWMutex
	health map[generation.Capability]bool
}

// NewHealthCache creates an empty health cache.
func NewHealthCache() *HealthCache {
	return &HealthCache{health: make(map[generation.Capability]bool)}
}

// GetHealth returns the cached health. Unknown upstreams are healthy.
func (h *HealthCache) GetHealth(_ context.Context, c generation.Capability) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	healthy, ok := h.health[c]
	if !ok {
		return true, nil
	}
	return healthy, nil
}

// SetHealth records the health of an upstream.
func (h *HealthCache) SetHealth(_ context.Context, c generation.Capability, healthy bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.health[c] = healthy
	return nil
}

var _ generation.HealthCache = (*HealthCache)(nil)
