package middleware

import (
	"time"

	"monitoria-system/internal/global/redis"
	"monitoria-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// RateLimit 按客户端 IP 限流，limiter 为 nil 时不限制
func RateLimit(limiter *redis.Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP(), limit, window) {
			response.Fail(c, response.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
