package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crown-platform/backend/internal/config"
	"crown-platform/backend/internal/logging"
)

func NewRedisClient(cfg config.Config) *redis.Client {
	redisHost := cfg.RedisHost
	if redisHost == "" {
		redisHost = "localhost"
	}

	redisPort := cfg.RedisPort
	if redisPort == "" {
		redisPort = "6379"
	}

	// No password by default for local development
	redisPassword := cfg.RedisPassword

	addr := fmt.Sprintf("%s:%s", redisHost, redisPort)
	logging.Info("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     redisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Still return the client, connection pool will try to reconnect
		logging.Warn("Failed to ping Redis", "error", err.Error())
		return client
	}

	logging.Info("Connected to Redis")
	return client
}
