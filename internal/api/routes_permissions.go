package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
)

func registerPermissionRoutes(api *gin.RouterGroup, handler *handlers.PermissionHandler) {
	perms := api.Group("/permissions")
	{
		perms.GET("/registry", handler.Registry)
		perms.GET("/check", handler.Check)
	}
}
