// Package cache provides the TTL cache tier keyed by composite key.
//
// Two adapters implement the same contract: a Redis-backed cache for shared
// deployments and an in-process cache for single-node and test use. Values
// for a given key are invariant, so writes are plain last-write-wins
// overwrites.
package cache

import (
	"context"

	"github.com/rickgao/crypto-aggregator/internal/model"
)

// Cache is the first resolution tier.
type Cache interface {
	// Get returns the cached asset for the key, reporting a miss with ok=false.
	Get(ctx context.Context, key string) (asset model.Asset, ok bool, err error)

	// Put stores the asset under the key with the cache's configured TTL,
	// overwriting any existing entry.
	Put(ctx context.Context, key string, asset model.Asset) error

	// Clear removes all cached assets.
	Clear(ctx context.Context) error
}
