package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
)

func registerSubmissionRoutes(api *gin.RouterGroup, handler *handlers.SubmissionHandler, evaluator *permissions.Evaluator) {
	submissions := api.Group("/submissions")
	{
		submissions.GET("/:id", middleware.RequireDecision(evaluator, permissions.ActionSubmissionView, "id"), handler.Get)
		submissions.POST("/:id/grade", middleware.RequireDecision(evaluator, permissions.ActionSubmissionGrade, "id"), handler.Grade)
		submissions.DELETE("/:id", middleware.RequireDecision(evaluator, permissions.ActionSubmissionDelete, "id"), handler.Delete)
	}
}
