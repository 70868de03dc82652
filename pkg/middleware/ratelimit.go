package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"github.com/wyfcoding/storefront/pkg/response"
)

// RateLimitMiddleware 按客户端地址限流
func RateLimitMiddleware(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	limit := ratelimit.PerSecond(cfg.QPS, cfg.Burst)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), ratelimit.ClientKey(c.ClientIP()), limit)
		if err != nil {
			// 限流后端不可用时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(res.ResetAfter/time.Second), 10))

		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter/time.Second), 10))
			response.ErrorWithStatus(c, http.StatusTooManyRequests, "too many requests", "retry after "+res.RetryAfter.String())
			return
		}
		c.Next()
	}
}
