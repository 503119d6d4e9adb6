package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ragbridge/internal/config"
	"ragbridge/internal/transport/http/response"
)

// RateLimit applies a fixed window per client IP, counted in redis so the
// limit holds across replicas. The window key expires with the window; if
// redis is unreachable the request is let through rather than failing the
// whole API on a limiter outage.
func RateLimit(client *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			Log(c).Warn(map[string]interface{}{"error": err.Error()}, "rate limiter unavailable")
			c.Next()
			return
		}
		if count == 1 {
			// A lost EXPIRE would leave the key counting forever and
			// lock the client out after its first window.
			if err := client.Expire(c.Request.Context(), key, window).Err(); err != nil {
				Log(c).Warn(map[string]interface{}{"key": key, "error": err.Error()}, "rate limiter expire failed")
			}
		}

		if count > int64(cfg.Requests) {
			response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequest, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
