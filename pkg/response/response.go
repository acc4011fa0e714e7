package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo is the client visible part of an AppError.
type ErrorInfo struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Success writes a success envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// Error writes an error envelope. Server side failures are logged together with their internal
// cause.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	requestID := c.GetString(RequestIDKey)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("code", appErr.Code), zap.Int("status", status)}
		if requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		if appErr.Internal != nil {
			fields = append(fields, zap.Error(appErr.Internal))
		}
		logger.WithModule("http").Error(appErr.Message, fields...)
	}

	c.JSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
