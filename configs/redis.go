package configs

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// ConnectRedis returns a client for the list-endpoint cache. The cache is
// optional: callers get a nil client when redis is unreachable and must
// fall through to the database.
func ConnectRedis(cfg *Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(Ctx).Err(); err != nil {
		log.Printf("redis unavailable, caching disabled: %v", err)
		return nil
	}
	return rdb
}
