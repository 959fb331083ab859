package bootstrap

import (
	"log"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// setupRateLimiting configures the OAuth endpoint rate limiter.
// Accepts an optional go-redis client for the redis store.
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimitEnabled {
		return func(c *gin.Context) { c.Next() }
	}

	log.Printf("Rate limiting enabled (store: %s, limit: %d/min)",
		cfg.RateLimitStore, cfg.RateLimitPerMinute)

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		StoreType:         middleware.RateLimitStoreType(cfg.RateLimitStore),
		RedisClient:       redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create rate limiter: %v", err)
	}
	return limiter
}
