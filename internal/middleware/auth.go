package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/metrics"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// Auth enforces bearer access tokens and resolves the caller's current principal. Refresh
// tokens, unknown users and disabled accounts are rejected.
func Auth(gate *iauth.AuthenticationGate) gin.HandlerFunc {
	tokens := gate.Tokens()
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			unauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(authz[7:]))
		if err != nil {
			metrics.TokenValidations.WithLabelValues(tokenResult(err)).Inc()
			if errors.Is(err, iauth.ErrExpired) {
				unauthorized(c, apperrors.ErrTokenExpired)
				return
			}
			unauthorized(c, apperrors.ErrTokenInvalid)
			return
		}
		if claims.Kind != iauth.KindAccess {
			metrics.TokenValidations.WithLabelValues("wrong_kind").Inc()
			unauthorized(c, apperrors.ErrTokenInvalid)
			return
		}

		principal, err := gate.ResolvePrincipal(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, iauth.ErrAccountDisabled):
				metrics.TokenValidations.WithLabelValues("disabled").Inc()
				response.Abort(c, apperrors.ErrAccountDisabled)
			case errors.Is(err, iauth.ErrUserNotFound), errors.Is(err, iauth.ErrSubjectMismatch):
				metrics.TokenValidations.WithLabelValues("subject").Inc()
				unauthorized(c, apperrors.ErrTokenInvalid)
			default:
				metrics.TokenValidations.WithLabelValues("error").Inc()
				response.Abort(c, apperrors.Wrap(err, "failed to resolve principal"))
			}
			return
		}

		metrics.TokenValidations.WithLabelValues("valid").Inc()
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, principal.ID)
		c.Set(CtxPrincipalKey, *principal)

		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by Auth.
func PrincipalFromContext(c *gin.Context) (iauth.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return iauth.Principal{}, false
	}
	principal, ok := v.(iauth.Principal)
	return principal, ok
}

func unauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Abort(c, err)
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, iauth.ErrExpired):
		return "expired"
	case errors.Is(err, iauth.ErrSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}
