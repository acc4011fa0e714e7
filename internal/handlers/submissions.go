package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// SubmissionHandler exposes submission endpoints.
type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

type gradeRequest struct {
	Score    *int   `json:"score" validate:"required,gte=0"`
	Feedback string `json:"feedback" validate:"max=10000"`
}

// GET /api/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	submission, err := h.submissions.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, submission)
}

// POST /api/submissions/:id/grade
func (h *SubmissionHandler) Grade(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req gradeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	submission, err := h.submissions.Grade(requestContext(c), c.Param("id"), principal.ID, services.GradeInput{
		Score:    *req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, submission)
}

// DELETE /api/submissions/:id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.submissions.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
