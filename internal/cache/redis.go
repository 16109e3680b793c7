package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/crypto-aggregator/internal/model"
)

// keyPrefix namespaces asset entries so Clear can sweep only ours.
const keyPrefix = "asset:"

// RedisCache is a Redis-backed TTL cache.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a RedisCache and pings the server to verify it is
// reachable.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		rdb: rdb,
		ttl: ttl,
	}, nil
}

// Get returns the cached asset for the key.
func (r *RedisCache) Get(ctx context.Context, key string) (model.Asset, bool, error) {
	b, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Asset{}, false, nil
	}
	if err != nil {
		return model.Asset{}, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var asset model.Asset
	if err := json.Unmarshal(b, &asset); err != nil {
		// Treat an undecodable entry as a miss; it will be overwritten.
		return model.Asset{}, false, nil
	}
	return asset, true, nil
}

// Put stores the asset under the key with the configured TTL.
func (r *RedisCache) Put(ctx context.Context, key string, asset model.Asset) error {
	b, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("marshal asset %q: %w", key, err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Clear removes all asset entries.
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Health checks the Redis connection.
func (r *RedisCache) Health(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
