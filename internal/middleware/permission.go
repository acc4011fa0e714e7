package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/metrics"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// RequireRole admits principals whose highest role ranks at least as high as role.
func RequireRole(role iauth.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !principal.Roles.AtLeast(role) {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireDecision evaluates actionID against the resource named by the route parameter param.
// NotFound renders 404 and Deny renders 403.
func RequireDecision(evaluator *permissions.Evaluator, actionID, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		decision, err := evaluator.Evaluate(c.Request.Context(), principal, actionID, c.Param(param))
		if err != nil {
			metrics.PermissionChecks.WithLabelValues(actionID, "error").Inc()
			logger.WithModule("http").Error("permission check failed",
				zap.String("action", actionID),
				zap.String("user_id", principal.ID),
				zap.Error(err),
			)
			response.Abort(c, apperrors.Wrap(err, "permission check failed"))
			return
		}

		metrics.PermissionChecks.WithLabelValues(actionID, decision.String()).Inc()
		switch decision {
		case permissions.Allow:
			c.Next()
		case permissions.NotFound:
			response.Abort(c, apperrors.ErrNotFound)
		default:
			response.Abort(c, apperrors.ErrForbidden)
		}
	}
}
