package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mainstreet/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a sliding-window rate limit in Redis.
type RateLimiter struct {
	redis       *redis.Client
	maxRequests int
	window      time.Duration
	prefix      string
}

// NewRateLimiter creates a new rate limiter. A nil client disables limiting.
func NewRateLimiter(redisClient *redis.Client, prefix string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:       redisClient,
		maxRequests: maxRequests,
		window:      window,
		prefix:      prefix,
	}
}

// Middleware limits requests per client IP.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.redis == nil || rl.maxRequests <= 0 {
			return c.Next()
		}

		identifier := c.IP()
		allowed, remaining, resetTime, err := rl.checkLimit(c.UserContext(), identifier)
		if err != nil {
			// fail open
			logger.Error().Err(err).Str("identifier", identifier).Msg("Rate limiter error")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn().Str("identifier", identifier).Int("limit", rl.maxRequests).Msg("Rate limit exceeded")
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(time.Until(resetTime).Seconds())))
			return errorJSON(c, fiber.StatusTooManyRequests, "Too many requests")
		}
		return c.Next()
	}
}

// checkLimit records the request and reports whether it fits in the window.
func (rl *RateLimiter) checkLimit(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, identifier)
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: windowMember(now),
	})
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := countCmd.Val()
	remaining := rl.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return count < int64(rl.maxRequests), remaining, now.Add(rl.window), nil
}

// windowMember names one request in the window. Requests landing in the same
// nanosecond still get distinct members.
func windowMember(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
}
