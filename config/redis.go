package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetupRedis connects the shared pub/sub backbone. Returns nil when no
// REDIS_ADDR is configured: the server then runs single-instance with
// local-only broadcast.
func SetupRedis(addr, password string) *redis.Client {
	if addr == "" {
		log.Println("[INFO] REDIS_ADDR not set, running single-instance")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
	}

	log.Println("✅ Redis connected")
	return client
}
