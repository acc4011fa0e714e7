package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// AssignmentHandler exposes assignment endpoints. Authorization runs in middleware before
// these methods are reached.
type AssignmentHandler struct {
	assignments *services.AssignmentService
	submissions *services.SubmissionService
}

func NewAssignmentHandler(assignments *services.AssignmentService, submissions *services.SubmissionService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, submissions: submissions}
}

type createAssignmentRequest struct {
	Title       string     `json:"title" validate:"required,notblank,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    *int       `json:"max_score" validate:"omitempty,gte=1"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT PUBLISHED CLOSED draft published closed"`
}

type submitRequest struct {
	Content  string `json:"content" validate:"max=100000"`
	FilePath string `json:"file_path" validate:"max=500"`
}

// POST /api/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req createAssignmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	assignment, err := h.assignments.Create(requestContext(c), principal.ID, services.CreateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, assignment)
}

// GET /api/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignment)
}

// PATCH /api/assignments/:id/status
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	assignment, err := h.assignments.UpdateStatus(requestContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignment)
}

// POST /api/assignments/:id/submissions
func (h *AssignmentHandler) Submit(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if principal.IsTeacher() {
		response.Error(c, errors.ErrForbidden.WithMessage("Only students can submit work"))
		return
	}

	var req submitRequest
	if !bindAndValidate(c, &req) {
		return
	}

	submission, err := h.submissions.Submit(requestContext(c), c.Param("id"), principal.ID, services.SubmitInput{
		Content:  req.Content,
		FilePath: req.FilePath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, submission)
}
