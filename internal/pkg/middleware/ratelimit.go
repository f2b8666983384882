package middleware

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/TierPay/internal/pkg/cache"
	"github.com/ManuelReschke/TierPay/internal/pkg/env"
)

// RateLimiter limits API requests per client. Counters live in the cache
// server (database 1) so every instance shares them.
func RateLimiter() fiber.Handler {
	cfg := limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: env.GetEnvDuration("API_RATE_WINDOW", time.Minute),
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests", "message": "Rate limit exceeded"})
		},
	}
	if cache.Enabled() {
		cfg.Storage = newLimiterStorage()
	}
	return limiter.New(cfg)
}

func newLimiterStorage() *redis.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
