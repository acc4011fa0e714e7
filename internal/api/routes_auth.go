package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
)

type authRouteDeps struct {
	AuthHandler *handlers.AuthHandler
	RateStore   middleware.RateStore
}

func registerAuthRoutes(engine *gin.Engine, api *gin.RouterGroup, deps authRouteDeps) {
	limit := middleware.RateLimit(deps.RateStore, "auth", authRateLimit, rateLimitWindow)

	auth := engine.Group("/api/auth")
	{
		auth.POST("/register", limit, deps.AuthHandler.Register)
		auth.POST("/login", limit, deps.AuthHandler.Login)
		auth.POST("/refresh", limit, deps.AuthHandler.Refresh)
		auth.GET("/check-username", deps.AuthHandler.CheckUsername)
		auth.GET("/check-email", deps.AuthHandler.CheckEmail)
	}

	api.GET("/auth/me", deps.AuthHandler.Me)
}
