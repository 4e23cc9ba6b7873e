package ratelimit

import (
	"fmt"
	"log/slog"
	"strconv"

	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/gin-gonic/gin"
)

// IPRateLimitMiddleware limits every request by client IP
func (rl *RateLimiter) IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.AllowIP(c.Request.Context(), ip)
		if err != nil {
			// fail open
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			rl.reject(c, "ip", result)
			return
		}

		c.Next()
	}
}

// EndpointRateLimitMiddleware applies a separate per-IP budget to one endpoint
func (rl *RateLimiter) EndpointRateLimitMiddleware(endpoint string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("ratelimit:endpoint:%s:%s", endpoint, ip)

		result, err := rl.Allow(c.Request.Context(), key, PerMinute(limit))
		if err != nil {
			slog.Error("Endpoint rate limit check failed", "endpoint", endpoint, "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Endpoint-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Endpoint-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			rl.reject(c, endpoint, result)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, scope string, result *Result) {
	rl.metrics.IncrementRateLimitBlock(scope)

	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))

	appErr := apperrors.NewRateLimitError(strconv.Itoa(retryAfter))
	appErr.RequestID = c.GetString("request_id")
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
}
