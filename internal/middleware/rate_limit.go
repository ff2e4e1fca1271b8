package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines a fixed-window rate limit.
type RateLimitConfig struct {
	// Window is the time window for rate limiting.
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window.
	Limit int
	// KeyPrefix namespaces the Redis keys.
	KeyPrefix string
}

// RateLimiter enforces per-user request limits using Redis.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{redis: redisClient, config: config}
}

// Middleware returns a Gin middleware enforcing the limit. It must run after
// AuthMiddleware so the user ID is on the context. Redis failures fail open.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAllowed counts the request against the user's current window.
// Returns: allowed, remaining requests, reset time, error.
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("%s:%s", rl.config.KeyPrefix, userID)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, time.Time{}, err
		}
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	resetTime := time.Now().Add(ttl)

	remaining := rl.config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.config.Limit), remaining, resetTime, nil
}
