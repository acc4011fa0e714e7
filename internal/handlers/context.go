package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentPrincipal returns the authenticated principal, writing a 401 when it is absent.
func currentPrincipal(c *gin.Context) (iauth.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return iauth.Principal{}, false
	}
	return principal, true
}
