package api

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
)

func registerAssignmentRoutes(api *gin.RouterGroup, handler *handlers.AssignmentHandler, evaluator *permissions.Evaluator) {
	assignments := api.Group("/assignments")
	{
		assignments.POST("", middleware.RequireRole(iauth.RoleTeacher), handler.Create)
		assignments.GET("/:id", middleware.RequireDecision(evaluator, permissions.ActionAssignmentView, "id"), handler.Get)
		assignments.PATCH("/:id/status", middleware.RequireDecision(evaluator, permissions.ActionAssignmentModify, "id"), handler.UpdateStatus)
		assignments.POST("/:id/submissions", middleware.RequireDecision(evaluator, permissions.ActionAssignmentView, "id"), handler.Submit)
	}
}
