package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis-backed read-through cache for hot list endpoints. Every helper
// tolerates a nil client so the app runs without redis.

const cacheTTL = 5 * time.Minute

func GetFromCache(ctx context.Context, rdb *redis.Client, key string, dest any) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func SetToCache(ctx context.Context, rdb *redis.Client, key string, val any) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	rdb.Set(ctx, key, raw, cacheTTL)
}

// InvalidateCache drops every key matching the pattern. Best effort; a
// stale entry expires on its own TTL anyway.
func InvalidateCache(ctx context.Context, rdb *redis.Client, pattern string) {
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		rdb.Del(ctx, iter.Val())
	}
}
