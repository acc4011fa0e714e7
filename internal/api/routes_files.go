package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
)

func registerFileRoutes(api *gin.RouterGroup, handler *handlers.FileHandler, evaluator *permissions.Evaluator) {
	files := api.Group("/files")
	{
		files.POST("", middleware.RequireRole(iauth.RoleTeacher), handler.Register)
		files.GET("/:id", middleware.RequireDecision(evaluator, permissions.ActionFileView, "id"), handler.Get)
		files.DELETE("/:id", middleware.RequireDecision(evaluator, permissions.ActionFileDelete, "id"), handler.Delete)
	}
}
