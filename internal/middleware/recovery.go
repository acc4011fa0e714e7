package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// Recovery turns a handler panic into a 500 INTERNAL_SERVER_ERROR envelope. The panic value and
// stack are logged, never returned to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.WithModule("http").Error("panic recovered",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(CtxRequestIDKey)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Abort(c, apperrors.ErrInternalServer)
		}()
		c.Next()
	}
}

// NotFoundHandler answers unknown routes with a NOT_FOUND envelope.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, apperrors.ErrNotFound.WithMessage(fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path)))
}
