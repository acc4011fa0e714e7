package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/metrics"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// RateLimit limits requests per (scope, clientIP, route) within a fixed window. Limiters sharing a
// store need distinct scopes. A nil store or a non-positive limit disables limiting.
func RateLimit(store RateStore, scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = metrics.UnmatchedRoute
		}
		key := scope + "|" + c.ClientIP() + "|" + path

		count, ttl, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			// fail open
			logger.WithModule("http").Warn("rate limit store failed", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		remaining := maxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > maxRequests {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			metrics.RateLimited.WithLabelValues(scope).Inc()
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
