package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
)

// RegisterFileInput describes an uploaded file's metadata.
type RegisterFileInput struct {
	AssignmentID     *string
	OriginalFileName string
	FilePath         string
	FileSize         int64
	MimeType         string
	Category         string
}

// FileService manages uploaded file records. Storage of the bytes themselves is external.
type FileService struct {
	db *gorm.DB
}

// NewFileService constructs a FileService instance.
func NewFileService(db *gorm.DB) (*FileService, error) {
	if db == nil {
		return nil, errors.New("file service: db is required")
	}
	return &FileService{db: db}, nil
}

// Register records a file uploaded by uploaderID.
func (s *FileService) Register(ctx context.Context, uploaderID string, input RegisterFileInput) (*models.AssignmentFile, error) {
	ctx = ensureContext(ctx)

	path := strings.TrimSpace(input.FilePath)
	if path == "" {
		return nil, apperrors.NewBadRequest("file path is required")
	}

	category := strings.ToUpper(strings.TrimSpace(input.Category))
	switch category {
	case "":
		category = models.FileCategoryAttachment
	case models.FileCategoryAttachment, models.FileCategoryTemplate, models.FileCategoryReference:
	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown file category %q", input.Category))
	}

	var assignmentID *string
	if input.AssignmentID != nil && strings.TrimSpace(*input.AssignmentID) != "" {
		id := strings.TrimSpace(*input.AssignmentID)
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Assignment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("file service: check assignment: %w", err)
		}
		if count == 0 {
			return nil, ErrAssignmentNotFound
		}
		assignmentID = &id
	}

	original := strings.TrimSpace(input.OriginalFileName)
	if original == "" {
		original = filepath.Base(path)
	}

	file := &models.AssignmentFile{
		AssignmentID:     assignmentID,
		FileName:         filepath.Base(path),
		OriginalFileName: original,
		FilePath:         path,
		FileSize:         input.FileSize,
		MimeType:         strings.TrimSpace(input.MimeType),
		FileCategory:     category,
		UploadedBy:       uploaderID,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("file service: create file: %w", err)
	}
	return file, nil
}

// Get loads a file record by identifier.
func (s *FileService) Get(ctx context.Context, id string) (*models.AssignmentFile, error) {
	ctx = ensureContext(ctx)

	var file models.AssignmentFile
	err := s.db.WithContext(ctx).Take(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file service: get file: %w", err)
	}
	return &file, nil
}

// Delete removes a file record.
func (s *FileService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.AssignmentFile{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("file service: delete file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}
