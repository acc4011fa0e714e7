package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// FileHandler exposes file metadata endpoints. File bytes live outside this service.
type FileHandler struct {
	files     *services.FileService
	evaluator *permissions.Evaluator
}

func NewFileHandler(files *services.FileService, evaluator *permissions.Evaluator) *FileHandler {
	return &FileHandler{files: files, evaluator: evaluator}
}

type registerFileRequest struct {
	AssignmentID     *string `json:"assignment_id" validate:"omitempty,max=64"`
	OriginalFileName string  `json:"original_file_name" validate:"max=255"`
	FilePath         string  `json:"file_path" validate:"required,max=500"`
	FileSize         int64   `json:"file_size" validate:"gte=0"`
	MimeType         string  `json:"mime_type" validate:"max=100"`
	Category         string  `json:"file_category" validate:"omitempty,oneof=ATTACHMENT TEMPLATE REFERENCE attachment template reference"`
}

// POST /api/files
func (h *FileHandler) Register(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req registerFileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// attaching to an assignment requires the right to modify it
	if req.AssignmentID != nil && strings.TrimSpace(*req.AssignmentID) != "" {
		decision, err := h.evaluator.CanModifyAssignment(requestContext(c), principal, strings.TrimSpace(*req.AssignmentID))
		if err != nil {
			response.Error(c, errors.Wrap(err, "permission check failed"))
			return
		}
		switch decision {
		case permissions.Allow:
		case permissions.NotFound:
			response.Error(c, services.ErrAssignmentNotFound)
			return
		default:
			response.Error(c, errors.ErrForbidden)
			return
		}
	}

	file, err := h.files.Register(requestContext(c), principal.ID, services.RegisterFileInput{
		AssignmentID:     req.AssignmentID,
		OriginalFileName: req.OriginalFileName,
		FilePath:         req.FilePath,
		FileSize:         req.FileSize,
		MimeType:         req.MimeType,
		Category:         req.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, file)
}

// GET /api/files/:id
func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.files.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, file)
}

// DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.files.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
