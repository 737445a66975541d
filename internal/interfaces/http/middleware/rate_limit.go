// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateLimit implements a fixed-window limit per client IP using Redis.
// Requests are let through when Redis is unavailable.
func RateLimit(limit int, redisClient *redis.Client, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		current, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if current == 1 {
			if err := redisClient.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.WithError(err).Warn("failed to set rate limit window")
			}
		}

		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(rateLimitWindow.Seconds()),
			})
			return
		}

		c.Next()
	}
}
