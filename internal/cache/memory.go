package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rickgao/crypto-aggregator/internal/model"
)

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		c: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached asset for the key.
func (m *MemoryCache) Get(_ context.Context, key string) (model.Asset, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return model.Asset{}, false, nil
	}
	asset, ok := v.(model.Asset)
	if !ok {
		return model.Asset{}, false, nil
	}
	return asset, true, nil
}

// Put stores the asset under the key, overwriting any existing entry.
func (m *MemoryCache) Put(_ context.Context, key string, asset model.Asset) error {
	m.c.Set(key, asset, gocache.DefaultExpiration)
	return nil
}

// Clear removes all cached assets.
func (m *MemoryCache) Clear(_ context.Context) error {
	m.c.Flush()
	return nil
}
