package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

const (
	// HeaderRequestID carries the correlation identifier in both directions.
	HeaderRequestID = "X-Request-ID"
	// CtxRequestIDKey stores the request identifier in the gin context.
	CtxRequestIDKey = response.RequestIDKey

	maxRequestIDLength = 128
)

// RequestID propagates a caller supplied X-Request-ID or generates one, and echoes it on the
// response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.NewString()
		}

		c.Set(CtxRequestIDKey, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
